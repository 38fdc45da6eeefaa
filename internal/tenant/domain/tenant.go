// Package domain defines the tenant and client registry model. A tenant is a
// report-producing agency identified by its scope; clients are the recipients
// registered under a tenant.
package domain

import (
	"time"

	"github.com/allisson/reportgate/internal/errors"
)

// Tenant is a registered agency.
type Tenant struct {
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// Client is a report recipient registered under a tenant.
type Client struct {
	Scope     string    `json:"scope"`
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Tenant-specific error definitions.
var (
	// ErrTenantNotFound indicates the tenant is not in the registry.
	ErrTenantNotFound = errors.Wrap(errors.ErrNotFound, "tenant not found")

	// ErrTenantExists indicates the tenant scope is already registered.
	ErrTenantExists = errors.Wrap(errors.ErrConflict, "tenant already registered")

	// ErrClientExists indicates the client ID is already registered under
	// the tenant.
	ErrClientExists = errors.Wrap(errors.ErrConflict, "client already registered")
)
