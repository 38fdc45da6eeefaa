// Package usecase implements the idempotency ledger over the key-value store.
package usecase

import (
	"context"

	idempotencyDomain "github.com/allisson/reportgate/internal/idempotency/domain"
)

// Ledger tracks idempotency keys scoped to a tenant and client.
//
// Check fails closed: when the store cannot be reached it returns an error
// wrapping ErrUnavailable and the guarded operation must not run. Store is
// best-effort: a ledger write failure after a successful operation is logged
// and swallowed, since the operation already happened.
type Ledger interface {
	// Check looks up the key and classifies the request as new, replay, or
	// conflict against the given body fingerprint.
	Check(ctx context.Context, key, scope, subScope, fingerprint string) (idempotencyDomain.CheckResult, error)

	// Store records the response produced for a new key. Losing the race to
	// another writer with the same key is not an error.
	Store(ctx context.Context, key, scope, subScope, fingerprint string, statusCode int, response []byte)
}
