// Package domain defines the report delivery model. Sending a report means
// minting a signed download URL for an artifact and notifying the client,
// guarded by the tenant's rate limit and the idempotency ledger.
package domain

import (
	"time"

	idempotencyDomain "github.com/allisson/reportgate/internal/idempotency/domain"
	ratelimitDomain "github.com/allisson/reportgate/internal/ratelimit/domain"
)

// Status classifies the outcome of a send request.
type Status int

const (
	// StatusSent means the report was delivered and a receipt produced.
	StatusSent Status = iota

	// StatusReplayed means an identical request was already processed; the
	// original receipt is returned without re-sending.
	StatusReplayed

	// StatusRateLimited means the tenant's send window is exhausted.
	StatusRateLimited

	// StatusConflict means the idempotency key was reused with a different
	// request body.
	StatusConflict
)

func (s Status) String() string {
	switch s {
	case StatusSent:
		return "sent"
	case StatusReplayed:
		return "replayed"
	case StatusRateLimited:
		return "rate_limited"
	case StatusConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Receipt is the durable record of a successful send. It is stored in the
// idempotency ledger and returned verbatim on replays.
type Receipt struct {
	Scope      string    `json:"scope"`
	ClientID   string    `json:"client_id"`
	ReportName string    `json:"report_name"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
	SentAt     time.Time `json:"sent_at"`
	Replayed   bool      `json:"replayed"`
}

// SendResult is the full outcome of a send request. RateLimit is populated
// whenever the limiter was consulted, including on denials, so transports can
// always expose the remaining budget.
type SendResult struct {
	Status      Status
	Receipt     *Receipt
	Idempotence idempotencyDomain.Outcome
	RateLimit   ratelimitDomain.Result
}
