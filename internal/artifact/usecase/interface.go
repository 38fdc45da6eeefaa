// Package usecase implements artifact storage operations.
package usecase

import (
	"context"
	"io"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"
)

// UseCase exposes artifact operations. All operations address artifacts by
// tenant scope, client sub-scope, and resource name; names are validated
// before they ever reach blob storage.
type UseCase interface {
	// Fetch opens an artifact for streaming. Returns ErrArtifactNotFound
	// when it does not exist. The caller must close the reader.
	Fetch(ctx context.Context, scope, subScope, name string) (io.ReadCloser, *artifactDomain.Artifact, error)

	// Store uploads an artifact, replacing any previous version.
	Store(ctx context.Context, scope, subScope, name, contentType string, data io.Reader) error

	// Delete removes a single artifact.
	Delete(ctx context.Context, scope, subScope, name string) error

	// DeleteAllForClient removes every artifact stored under one client's
	// composite prefix. Used by cascade tenant deletion, once per registered
	// client. Returns the number of artifacts removed.
	DeleteAllForClient(ctx context.Context, scope, subScope string) (int64, error)
}
