package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"
	artifactUseCase "github.com/allisson/reportgate/internal/artifact/usecase"
	auditUseCase "github.com/allisson/reportgate/internal/audit/usecase"
	apperrors "github.com/allisson/reportgate/internal/errors"
	idempotencyUseCase "github.com/allisson/reportgate/internal/idempotency/usecase"
	ratelimitUseCase "github.com/allisson/reportgate/internal/ratelimit/usecase"
	"github.com/allisson/reportgate/internal/store"
	tenantDomain "github.com/allisson/reportgate/internal/tenant/domain"
	"github.com/allisson/reportgate/internal/validation"
)

const (
	// indexKey holds the JSON array of all registered tenant scopes. It is
	// updated with compare-and-swap so concurrent registrations append
	// atomically.
	indexKey = "tenants:index"

	casRetries = 5
)

type tenantUseCase struct {
	store     store.KVStore
	artifacts artifactUseCase.UseCase
	logger    *slog.Logger
	now       func() time.Time
}

// NewTenantUseCase creates the tenant registry.
func NewTenantUseCase(
	kvStore store.KVStore,
	artifacts artifactUseCase.UseCase,
	logger *slog.Logger,
) UseCase {
	return &tenantUseCase{
		store:     kvStore,
		artifacts: artifacts,
		logger:    logger,
		now:       time.Now,
	}
}

func tenantKey(scope string) string {
	return fmt.Sprintf("tenant:%s", scope)
}

func clientKey(scope, clientID string) string {
	return fmt.Sprintf("%s%s", clientScopePrefix(scope), clientID)
}

func clientScopePrefix(scope string) string {
	return fmt.Sprintf("clients:%s:", scope)
}

func validScope(scope string) error {
	if !validation.IsValidScopeName(scope) {
		return apperrors.Wrap(apperrors.ErrInvalidInput,
			"scope must contain only letters, digits, hyphens, and underscores")
	}
	return nil
}

// mutateIndex applies fn to the decoded tenant index and writes the result
// back with compare-and-swap, retrying on concurrent updates.
func (t *tenantUseCase) mutateIndex(ctx context.Context, fn func(scopes []string) ([]string, error)) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		current, err := t.store.Get(ctx, indexKey)
		if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to read tenant index: %w", err)
		}

		var scopes []string
		if current != nil {
			if err := json.Unmarshal(current, &scopes); err != nil {
				return fmt.Errorf("tenant index corrupt: %w", err)
			}
		}

		updated, err := fn(scopes)
		if err != nil {
			return err
		}

		next, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to marshal tenant index: %w", err)
		}

		if current == nil {
			err = t.store.PutIfAbsent(ctx, indexKey, next, 0)
		} else {
			err = t.store.CompareAndSwap(ctx, indexKey, current, next, 0)
		}
		if apperrors.Is(err, apperrors.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to update tenant index: %w", err)
		}
		return nil
	}
	return fmt.Errorf("tenant index contention: %w", apperrors.ErrUnavailable)
}

func (t *tenantUseCase) RegisterTenant(ctx context.Context, scope string) (*tenantDomain.Tenant, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}

	err := t.mutateIndex(ctx, func(scopes []string) ([]string, error) {
		if slices.Contains(scopes, scope) {
			return nil, tenantDomain.ErrTenantExists
		}
		return append(scopes, scope), nil
	})
	if err != nil {
		return nil, err
	}

	tenant := &tenantDomain.Tenant{Scope: scope, CreatedAt: t.now().UTC()}
	value, err := json.Marshal(tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tenant: %w", err)
	}
	if err := t.store.Put(ctx, tenantKey(scope), value, 0); err != nil {
		return nil, fmt.Errorf("failed to store tenant: %w", err)
	}

	t.logger.Info("Tenant registered", slog.String("scope", scope))
	return tenant, nil
}

func (t *tenantUseCase) ListTenants(ctx context.Context) ([]string, error) {
	value, err := t.store.Get(ctx, indexKey)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tenant index: %w", err)
	}

	var scopes []string
	if err := json.Unmarshal(value, &scopes); err != nil {
		return nil, fmt.Errorf("tenant index corrupt: %w", err)
	}
	return scopes, nil
}

func (t *tenantUseCase) RegisterClient(ctx context.Context, scope, clientID, name string) (*tenantDomain.Client, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}
	if !validation.IsValidScopeName(clientID) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput,
			"client id must contain only letters, digits, hyphens, and underscores")
	}

	if _, err := t.store.Get(ctx, tenantKey(scope)); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, tenantDomain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to look up tenant: %w", err)
	}

	client := &tenantDomain.Client{
		Scope:     scope,
		ID:        clientID,
		Name:      name,
		CreatedAt: t.now().UTC(),
	}
	value, err := json.Marshal(client)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal client: %w", err)
	}

	err = t.store.PutIfAbsent(ctx, clientKey(scope, clientID), value, 0)
	if apperrors.Is(err, apperrors.ErrConflict) {
		return nil, tenantDomain.ErrClientExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store client: %w", err)
	}

	t.logger.Info("Client registered",
		slog.String("scope", scope),
		slog.String("client_id", clientID))
	return client, nil
}

func (t *tenantUseCase) ListClients(ctx context.Context, scope string) ([]tenantDomain.Client, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}

	entries, err := t.store.ListByPrefix(ctx, clientScopePrefix(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]tenantDomain.Client, 0, len(entries))
	for _, entry := range entries {
		var client tenantDomain.Client
		if err := json.Unmarshal(entry.Value, &client); err != nil {
			t.logger.Warn("Skipping undecodable client record",
				slog.String("key", entry.Key),
				slog.String("error", err.Error()))
			continue
		}
		clients = append(clients, client)
	}

	slices.SortFunc(clients, func(a, b tenantDomain.Client) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return clients, nil
}

func (t *tenantUseCase) Exists(ctx context.Context, scope, subScope string) (bool, error) {
	_, err := t.store.Get(ctx, clientKey(scope, subScope))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up client: %w", err)
	}
	return true, nil
}

// DeleteTenant removes the tenant from the index and deletes its data. Every
// prefix deletion goes through a composite prefix built from validated parts:
// "<family>:<scope>:" for key-value entries and "<scope>/<clientID>/" for
// artifacts, swept once per registered client. There is no tenant-wide blob
// sweep, so a malformed scope can never widen the deletion.
func (t *tenantUseCase) DeleteTenant(
	ctx context.Context,
	scope string,
	deletionScope artifactDomain.DeletionScope,
) (*DeletionReport, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}

	err := t.mutateIndex(ctx, func(scopes []string) ([]string, error) {
		idx := slices.Index(scopes, scope)
		if idx < 0 {
			return nil, tenantDomain.ErrTenantNotFound
		}
		return slices.Delete(scopes, idx, idx+1), nil
	})
	if err != nil {
		return nil, err
	}

	report := &DeletionReport{Scope: scope, DeletionScope: deletionScope}

	// Client records vanish in the prefix sweep below, so the cascade list
	// has to be captured first.
	var clients []tenantDomain.Client
	if deletionScope == artifactDomain.DeletionCascade {
		clients, err = t.ListClients(ctx, scope)
		if err != nil {
			return report, err
		}
	}

	if err := t.store.Delete(ctx, tenantKey(scope)); err != nil {
		return report, fmt.Errorf("failed to delete tenant record: %w", err)
	}

	prefixes := []string{
		clientScopePrefix(scope),
		auditUseCase.ScopePrefix(scope),
		idempotencyUseCase.ScopePrefix(scope),
		ratelimitUseCase.ScopePrefix(scope),
	}
	for _, prefix := range prefixes {
		deleted, err := t.store.DeleteByPrefix(ctx, prefix)
		report.EntriesDeleted += deleted
		if err != nil {
			return report, fmt.Errorf("failed to delete entries under %q: %w", prefix, err)
		}
	}

	for _, client := range clients {
		deleted, err := t.artifacts.DeleteAllForClient(ctx, scope, client.ID)
		report.ArtifactsDeleted += deleted
		if err != nil {
			return report, fmt.Errorf("failed to delete artifacts for client %q: %w", client.ID, err)
		}
	}

	t.logger.Info("Tenant deleted",
		slog.String("scope", scope),
		slog.String("deletion_scope", string(deletionScope)),
		slog.Int64("entries_deleted", report.EntriesDeleted),
		slog.Int64("artifacts_deleted", report.ArtifactsDeleted))
	return report, nil
}
