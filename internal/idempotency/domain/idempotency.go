// Package domain defines the idempotency ledger model. A ledger record binds
// an idempotency key, scoped to the tenant and client it was used for, to a
// fingerprint of the request body and the response produced the first time.
package domain

import (
	"time"

	"github.com/allisson/reportgate/internal/errors"
)

// Outcome classifies an idempotency check. The three values are distinct on
// purpose: a replay returns the stored response, a conflict is a client bug
// and must be rejected.
type Outcome int

const (
	// OutcomeNew means the key has never been seen; the request proceeds.
	OutcomeNew Outcome = iota

	// OutcomeReplay means the key was seen with an identical request body;
	// the stored response is returned without re-executing.
	OutcomeReplay

	// OutcomeConflict means the key was seen with a different request body.
	OutcomeConflict
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeNew:
		return "new"
	case OutcomeReplay:
		return "replay"
	case OutcomeConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Record is a persisted ledger entry.
type Record struct {
	Fingerprint string    `json:"fingerprint"`
	Response    []byte    `json:"response"`
	StatusCode  int       `json:"status_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// CheckResult is the outcome of a ledger lookup. Record is only populated for
// replays.
type CheckResult struct {
	Outcome Outcome
	Record  *Record
}

// Idempotency-specific error definitions.
var (
	// ErrKeyConflict indicates an idempotency key was reused with a
	// different request body.
	ErrKeyConflict = errors.Wrap(errors.ErrConflict, "idempotency key reused with a different request")
)
