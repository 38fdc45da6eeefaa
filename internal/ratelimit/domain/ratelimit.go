// Package domain defines the fixed-window rate limit model.
package domain

// Result describes the state of a rate limit window after a request was
// counted against it. Remaining and ResetAtEpoch are always populated, on
// allowed and denied results alike, so callers can surface them to clients.
type Result struct {
	Allowed      bool
	Limit        int64
	Remaining    int64
	ResetAtEpoch int64
}
