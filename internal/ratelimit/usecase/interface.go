// Package usecase implements a fixed-window rate limiter over the key-value
// store. Windows are aligned to wall-clock multiples of the window size, so
// every replica of the service agrees on window boundaries without
// coordination.
package usecase

import (
	"context"

	ratelimitDomain "github.com/allisson/reportgate/internal/ratelimit/domain"
)

// Limiter counts requests per subject within fixed windows.
type Limiter interface {
	// Allow counts one request for the subject and reports whether it fits
	// within the current window. The returned result always carries the
	// remaining budget and the window reset time, even when denied. Returns
	// an error wrapping ErrUnavailable when the store cannot be reached;
	// callers fail closed.
	Allow(ctx context.Context, subject string) (ratelimitDomain.Result, error)
}
