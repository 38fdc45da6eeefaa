// Package usecase orchestrates report delivery: rate limiting, idempotency,
// signed URL issuance, and client notification.
package usecase

import (
	"context"

	reportDomain "github.com/allisson/reportgate/internal/report/domain"
)

// SendInput carries the parameters of a report send request. Fingerprint is
// the canonical digest of the raw request body, computed at the transport
// boundary; IdempotencyKey is optional.
type SendInput struct {
	Scope          string
	ClientID       string
	ReportName     string
	IdempotencyKey string
	Fingerprint    string
}

// UseCase exposes the report send operation.
type UseCase interface {
	// Send runs the delivery pipeline: rate limit check, idempotency check,
	// artifact verification, signed URL issuance, notification, and ledger
	// write. Policy outcomes (rate limited, replay, conflict) are returned
	// in the result, not as errors.
	//
	// On error the result may still be non-nil carrying the rate limit
	// state, so transports can expose the remaining budget on failures too.
	Send(ctx context.Context, input SendInput) (*reportDomain.SendResult, error)
}
