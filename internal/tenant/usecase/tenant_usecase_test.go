package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"
	artifactService "github.com/allisson/reportgate/internal/artifact/service"
	artifactUseCase "github.com/allisson/reportgate/internal/artifact/usecase"
	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	auditUseCase "github.com/allisson/reportgate/internal/audit/usecase"
	apperrors "github.com/allisson/reportgate/internal/errors"
	"github.com/allisson/reportgate/internal/store"
	tenantDomain "github.com/allisson/reportgate/internal/tenant/domain"
)

type noopRecorder struct{}

func (noopRecorder) Record(ctx context.Context, event auditDomain.Event) {}

type fixture struct {
	useCase   UseCase
	kvStore   store.KVStore
	artifacts artifactUseCase.UseCase
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	blobStore, err := artifactService.NewBlobStore(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobStore.Close() })

	kvStore := store.NewMemoryStore()
	artifacts := artifactUseCase.NewArtifactUseCase(blobStore, noopRecorder{})
	logger := slog.New(slog.DiscardHandler)

	return &fixture{
		useCase:   NewTenantUseCase(kvStore, artifacts, logger),
		kvStore:   kvStore,
		artifacts: artifacts,
	}
}

func TestTenantUseCase_RegisterAndList(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	tenant, err := f.useCase.RegisterTenant(ctx, "agency_1")
	require.NoError(t, err)
	assert.Equal(t, "agency_1", tenant.Scope)

	_, err = f.useCase.RegisterTenant(ctx, "agency_2")
	require.NoError(t, err)

	scopes, err := f.useCase.ListTenants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"agency_1", "agency_2"}, scopes, "registration order is preserved")

	_, err = f.useCase.RegisterTenant(ctx, "agency_1")
	assert.ErrorIs(t, err, tenantDomain.ErrTenantExists)
}

func TestTenantUseCase_RejectsUnsafeScopes(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	for _, scope := range []string{"", "a:b", "a/b", "a b", "a\tb"} {
		_, err := f.useCase.RegisterTenant(ctx, scope)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "scope %q", scope)
	}
}

func TestTenantUseCase_ConcurrentRegistrationsAppendAtomically(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	var wg sync.WaitGroup
	scopes := []string{"agency_a", "agency_b", "agency_c", "agency_d", "agency_e"}
	for _, scope := range scopes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.useCase.RegisterTenant(ctx, scope)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	registered, err := f.useCase.ListTenants(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, scopes, registered, "no registration is lost under contention")
}

func TestTenantUseCase_Clients(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	_, err := f.useCase.RegisterClient(ctx, "agency_1", "client_1", "Acme")
	assert.ErrorIs(t, err, tenantDomain.ErrTenantNotFound)

	_, err = f.useCase.RegisterTenant(ctx, "agency_1")
	require.NoError(t, err)

	client, err := f.useCase.RegisterClient(ctx, "agency_1", "client_1", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "client_1", client.ID)

	_, err = f.useCase.RegisterClient(ctx, "agency_1", "client_1", "Acme again")
	assert.ErrorIs(t, err, tenantDomain.ErrClientExists)

	exists, err := f.useCase.Exists(ctx, "agency_1", "client_1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.useCase.Exists(ctx, "agency_1", "client_2")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = f.useCase.Exists(ctx, "agency_2", "client_1")
	require.NoError(t, err)
	assert.False(t, exists, "clients are scoped to their tenant")

	clients, err := f.useCase.ListClients(ctx, "agency_1")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme", clients[0].Name)
}

func TestTenantUseCase_DeleteTenant(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *fixture) {
		_, err := f.useCase.RegisterTenant(ctx, "agency_1")
		require.NoError(t, err)
		_, err = f.useCase.RegisterClient(ctx, "agency_1", "client_1", "")
		require.NoError(t, err)

		// Scoped KV entries that deletion must sweep.
		require.NoError(t, f.kvStore.Put(ctx, auditUseCase.ScopePrefix("agency_1")+"e1", []byte("{}"), 0))
		require.NoError(t, f.kvStore.Put(ctx, "idem:agency_1:client_1:key", []byte("{}"), 0))
		require.NoError(t, f.kvStore.Put(ctx, "ratelimit:agency_1:123", []byte("1"), 0))

		require.NoError(t, f.artifacts.Store(
			ctx, "agency_1", "client_1", "report.pdf", "application/pdf", strings.NewReader("x")))
	}

	t.Run("MetadataOnly", func(t *testing.T) {
		f := setupFixture(t)
		seed(t, f)

		report, err := f.useCase.DeleteTenant(ctx, "agency_1", artifactDomain.DeletionMetadataOnly)
		require.NoError(t, err)
		assert.Equal(t, int64(4), report.EntriesDeleted)
		assert.Equal(t, int64(0), report.ArtifactsDeleted)

		scopes, err := f.useCase.ListTenants(ctx)
		require.NoError(t, err)
		assert.Empty(t, scopes)

		// Artifacts survive.
		_, _, err = f.artifacts.Fetch(ctx, "agency_1", "client_1", "report.pdf")
		assert.NoError(t, err)
	})

	t.Run("Cascade", func(t *testing.T) {
		f := setupFixture(t)
		seed(t, f)

		report, err := f.useCase.DeleteTenant(ctx, "agency_1", artifactDomain.DeletionCascade)
		require.NoError(t, err)
		assert.Equal(t, int64(4), report.EntriesDeleted)
		assert.Equal(t, int64(1), report.ArtifactsDeleted)

		_, _, err = f.artifacts.Fetch(ctx, "agency_1", "client_1", "report.pdf")
		assert.ErrorIs(t, err, artifactDomain.ErrArtifactNotFound)
	})

	t.Run("CascadeSweepsEachRegisteredClient", func(t *testing.T) {
		f := setupFixture(t)
		seed(t, f)

		_, err := f.useCase.RegisterClient(ctx, "agency_1", "client_2", "")
		require.NoError(t, err)
		require.NoError(t, f.artifacts.Store(
			ctx, "agency_1", "client_2", "other.pdf", "application/pdf", strings.NewReader("x")))

		report, err := f.useCase.DeleteTenant(ctx, "agency_1", artifactDomain.DeletionCascade)
		require.NoError(t, err)
		assert.Equal(t, int64(2), report.ArtifactsDeleted)

		_, _, err = f.artifacts.Fetch(ctx, "agency_1", "client_2", "other.pdf")
		assert.ErrorIs(t, err, artifactDomain.ErrArtifactNotFound)
	})

	t.Run("UnknownTenant", func(t *testing.T) {
		f := setupFixture(t)

		_, err := f.useCase.DeleteTenant(ctx, "agency_9", artifactDomain.DeletionCascade)
		assert.ErrorIs(t, err, tenantDomain.ErrTenantNotFound)
	})
}

func TestTenantUseCase_DeleteDoesNotTouchOtherTenants(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	for _, scope := range []string{"agency_1", "agency_10"} {
		_, err := f.useCase.RegisterTenant(ctx, scope)
		require.NoError(t, err)
		_, err = f.useCase.RegisterClient(ctx, scope, "client_1", "")
		require.NoError(t, err)
	}

	// "agency_1" deletion must not match "agency_10" keys even though the
	// scope is a string prefix of the other.
	_, err := f.useCase.DeleteTenant(ctx, "agency_1", artifactDomain.DeletionMetadataOnly)
	require.NoError(t, err)

	exists, err := f.useCase.Exists(ctx, "agency_10", "client_1")
	require.NoError(t, err)
	assert.True(t, exists)

	scopes, err := f.useCase.ListTenants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"agency_10"}, scopes)
}

func TestTenantUseCase_ParseDeletionScope(t *testing.T) {
	scope, err := artifactDomain.ParseDeletionScope("cascade")
	require.NoError(t, err)
	assert.Equal(t, artifactDomain.DeletionCascade, scope)

	scope, err = artifactDomain.ParseDeletionScope("metadata_only")
	require.NoError(t, err)
	assert.Equal(t, artifactDomain.DeletionMetadataOnly, scope)

	_, err = artifactDomain.ParseDeletionScope("everything")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
