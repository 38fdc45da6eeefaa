package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"
	artifactService "github.com/allisson/reportgate/internal/artifact/service"
	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	apperrors "github.com/allisson/reportgate/internal/errors"
)

// captureRecorder collects audit events for assertions.
type captureRecorder struct {
	mu     sync.Mutex
	events []auditDomain.Event
}

func (c *captureRecorder) Record(ctx context.Context, event auditDomain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureRecorder) recorded() []auditDomain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]auditDomain.Event(nil), c.events...)
}

func setupUseCase(t *testing.T) (UseCase, *captureRecorder) {
	t.Helper()
	blobStore, err := artifactService.NewBlobStore(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobStore.Close() })

	audit := &captureRecorder{}
	return NewArtifactUseCase(blobStore, audit), audit
}

func TestArtifactUseCase_StoreAndFetch(t *testing.T) {
	ctx := context.Background()
	useCase, _ := setupUseCase(t)

	err := useCase.Store(ctx, "agency_1", "client_1", "report.pdf", "application/pdf", strings.NewReader("content"))
	require.NoError(t, err)

	reader, artifact, err := useCase.Fetch(ctx, "agency_1", "client_1", "report.pdf")
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
	assert.Equal(t, "agency_1", artifact.Scope)
	assert.Equal(t, "client_1", artifact.SubScope)
	assert.Equal(t, "report.pdf", artifact.Name)
	assert.Equal(t, "application/pdf", artifact.ContentType)
}

func TestArtifactUseCase_FetchMissing(t *testing.T) {
	ctx := context.Background()
	useCase, _ := setupUseCase(t)

	_, _, err := useCase.Fetch(ctx, "agency_1", "client_1", "missing.pdf")
	assert.ErrorIs(t, err, artifactDomain.ErrArtifactNotFound)
}

func TestArtifactUseCase_RejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	useCase, _ := setupUseCase(t)

	for _, name := range []string{"../escape.pdf", "a/b.pdf", `a\b.pdf`, "", "no-extension"} {
		_, _, err := useCase.Fetch(ctx, "agency_1", "client_1", name)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "name %q", name)

		err = useCase.Store(ctx, "agency_1", "client_1", name, "application/pdf", strings.NewReader("x"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "name %q", name)
	}
}

func TestArtifactUseCase_DeleteRecordsAudit(t *testing.T) {
	ctx := context.Background()
	useCase, audit := setupUseCase(t)

	require.NoError(t, useCase.Store(ctx, "agency_1", "client_1", "report.pdf", "application/pdf", strings.NewReader("x")))
	require.NoError(t, useCase.Delete(ctx, "agency_1", "client_1", "report.pdf"))

	events := audit.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, auditDomain.ActionArtifactDelete, events[0].Action)
	assert.Equal(t, "report.pdf", events[0].ResourceName)

	_, _, err := useCase.Fetch(ctx, "agency_1", "client_1", "report.pdf")
	assert.ErrorIs(t, err, artifactDomain.ErrArtifactNotFound)
}

func TestArtifactUseCase_DeleteAllForClient(t *testing.T) {
	ctx := context.Background()
	useCase, _ := setupUseCase(t)

	require.NoError(t, useCase.Store(ctx, "agency_1", "client_1", "a.pdf", "application/pdf", strings.NewReader("x")))
	require.NoError(t, useCase.Store(ctx, "agency_1", "client_1", "b.pdf", "application/pdf", strings.NewReader("x")))
	require.NoError(t, useCase.Store(ctx, "agency_1", "client_2", "c.pdf", "application/pdf", strings.NewReader("x")))
	require.NoError(t, useCase.Store(ctx, "agency_2", "client_1", "d.pdf", "application/pdf", strings.NewReader("x")))

	deleted, err := useCase.DeleteAllForClient(ctx, "agency_1", "client_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, _, err = useCase.Fetch(ctx, "agency_1", "client_2", "c.pdf")
	assert.NoError(t, err, "sibling clients keep their artifacts")

	_, _, err = useCase.Fetch(ctx, "agency_2", "client_1", "d.pdf")
	assert.NoError(t, err, "other tenants keep their artifacts")
}

func TestArtifactUseCase_DeleteAllForClientRequiresBothParts(t *testing.T) {
	ctx := context.Background()
	useCase, _ := setupUseCase(t)

	_, err := useCase.DeleteAllForClient(ctx, "", "client_1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = useCase.DeleteAllForClient(ctx, "agency_1", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
