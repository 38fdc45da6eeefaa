// Package usecase implements audit trail recording and retrieval.
package usecase

import (
	"context"

	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
)

// Recorder records audit events. Recording is best-effort: implementations
// must never fail the operation being audited.
type Recorder interface {
	// Record persists the event. Storage failures are logged and swallowed.
	Record(ctx context.Context, event auditDomain.Event)
}

// UseCase exposes audit trail operations.
type UseCase interface {
	Recorder

	// ListByScope returns the events recorded for a tenant, oldest first.
	ListByScope(ctx context.Context, scope string) ([]auditDomain.Event, error)
}
