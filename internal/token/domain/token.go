package domain

import "time"

// Payload is the set of claims bound into a capability token. Scope and
// SubScope identify the tenant and client the artifact belongs to, and
// ResourceName names the artifact itself. ExpiresAt is an absolute Unix
// timestamp in seconds.
type Payload struct {
	Scope        string
	SubScope     string
	ResourceName string
	ExpiresAt    int64
}

// Matches reports whether the payload grants access to the given
// scope/subScope/resourceName triple. All three fields must match exactly.
func (p Payload) Matches(scope, subScope, resourceName string) bool {
	return p.Scope == scope && p.SubScope == subScope && p.ResourceName == resourceName
}

// ExpiredAt reports whether the payload is expired at the given instant.
// A token expiring exactly at now is already expired.
func (p Payload) ExpiredAt(now time.Time) bool {
	return p.ExpiresAt <= now.Unix()
}

// SignedURL is the result of issuing a download URL for an artifact.
type SignedURL struct {
	URL       string
	Token     string
	ExpiresAt time.Time
	TTL       time.Duration
}

// Decision is the outcome of gating a download request. Allowed decisions
// carry the verified payload; denied decisions carry the reason.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Payload Payload
}

// Allow returns an allowing decision for the given payload.
func Allow(payload Payload) Decision {
	return Decision{Allowed: true, Payload: payload}
}

// Deny returns a denying decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
