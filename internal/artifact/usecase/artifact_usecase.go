package usecase

import (
	"context"
	"io"
	"time"

	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	auditUseCase "github.com/allisson/reportgate/internal/audit/usecase"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"
	artifactService "github.com/allisson/reportgate/internal/artifact/service"
	apperrors "github.com/allisson/reportgate/internal/errors"
	"github.com/allisson/reportgate/internal/validation"
)

type artifactUseCase struct {
	blobStore artifactService.BlobStore
	audit     auditUseCase.Recorder
	now       func() time.Time
}

// NewArtifactUseCase creates the artifact use case.
func NewArtifactUseCase(blobStore artifactService.BlobStore, audit auditUseCase.Recorder) UseCase {
	return &artifactUseCase{
		blobStore: blobStore,
		audit:     audit,
		now:       time.Now,
	}
}

func validateAddress(scope, subScope, name string) error {
	if scope == "" || subScope == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "scope and sub-scope are required")
	}
	if !validation.IsValidResourceName(name) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "invalid resource name")
	}
	return nil
}

func (u *artifactUseCase) Fetch(
	ctx context.Context,
	scope, subScope, name string,
) (io.ReadCloser, *artifactDomain.Artifact, error) {
	if err := validateAddress(scope, subScope, name); err != nil {
		return nil, nil, err
	}

	reader, artifact, err := u.blobStore.Read(ctx, artifactDomain.BlobKey(scope, subScope, name))
	if err != nil {
		return nil, nil, err
	}

	artifact.Scope = scope
	artifact.SubScope = subScope
	artifact.Name = name
	return reader, artifact, nil
}

func (u *artifactUseCase) Store(
	ctx context.Context,
	scope, subScope, name, contentType string,
	data io.Reader,
) error {
	if err := validateAddress(scope, subScope, name); err != nil {
		return err
	}
	return u.blobStore.Write(ctx, artifactDomain.BlobKey(scope, subScope, name), contentType, data)
}

func (u *artifactUseCase) Delete(ctx context.Context, scope, subScope, name string) error {
	if err := validateAddress(scope, subScope, name); err != nil {
		return err
	}
	if err := u.blobStore.Delete(ctx, artifactDomain.BlobKey(scope, subScope, name)); err != nil {
		return err
	}

	u.audit.Record(ctx, auditDomain.NewEvent(
		scope, subScope, auditDomain.ActionArtifactDelete, name, "", u.now()))
	return nil
}

// DeleteAllForClient removes every artifact stored under one client's
// composite prefix. Both scope and sub-scope must be non-empty; there is
// deliberately no tenant-wide variant, so a wide deletion can never sweep
// more than a single client's artifacts.
func (u *artifactUseCase) DeleteAllForClient(ctx context.Context, scope, subScope string) (int64, error) {
	if scope == "" || subScope == "" {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "scope and sub-scope are required")
	}

	deleted, err := u.blobStore.DeleteByPrefix(ctx, artifactDomain.BlobPrefix(scope, subScope))
	if err != nil {
		return deleted, err
	}

	u.audit.Record(ctx, auditDomain.NewEvent(
		scope, subScope, auditDomain.ActionArtifactDelete, "", "cascade", u.now()))
	return deleted, nil
}
