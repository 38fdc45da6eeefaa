// Package usecase implements the tenant registry over the key-value store.
//
// The registry keeps an index of all tenant scopes under a single key,
// updated with compare-and-swap so concurrent registrations never lose
// entries. Per-client records live under composite keys scoped by tenant.
package usecase

import (
	"context"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"
	tenantDomain "github.com/allisson/reportgate/internal/tenant/domain"
)

// DeletionReport summarizes what a tenant deletion removed.
type DeletionReport struct {
	Scope            string
	DeletionScope    artifactDomain.DeletionScope
	EntriesDeleted   int64
	ArtifactsDeleted int64
}

// UseCase exposes tenant registry operations.
type UseCase interface {
	// RegisterTenant adds a scope to the tenant index. Returns
	// ErrTenantExists when the scope is already registered.
	RegisterTenant(ctx context.Context, scope string) (*tenantDomain.Tenant, error)

	// ListTenants returns all registered scopes in registration order.
	ListTenants(ctx context.Context) ([]string, error)

	// RegisterClient adds a client under a tenant. Returns ErrTenantNotFound
	// for unknown scopes and ErrClientExists for duplicate IDs.
	RegisterClient(ctx context.Context, scope, clientID, name string) (*tenantDomain.Client, error)

	// ListClients returns the clients registered under a tenant.
	ListClients(ctx context.Context, scope string) ([]tenantDomain.Client, error)

	// Exists reports whether a client is registered under a tenant. It
	// satisfies the client directory needed by signed URL issuance.
	Exists(ctx context.Context, scope, subScope string) (bool, error)

	// DeleteTenant removes a tenant from the index and deletes its data.
	// DeletionMetadataOnly removes key-value entries (clients, audit trail,
	// idempotency records, rate limit counters); DeletionCascade also
	// removes stored artifacts.
	DeleteTenant(ctx context.Context, scope string, deletionScope artifactDomain.DeletionScope) (*DeletionReport, error)
}
