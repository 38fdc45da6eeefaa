// Package usecase implements signed URL issuance and download gating.
package usecase

import (
	"context"
	"time"

	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
)

// IssueRequest carries the parameters for minting a signed download URL.
// CallerScope is the tenant resolved from the caller's credentials; Scope is
// the tenant the URL is requested for. TTL of zero selects the default.
type IssueRequest struct {
	CallerScope  string
	Scope        string
	SubScope     string
	ResourceName string
	TTL          time.Duration
}

// AccessRequest carries the parameters of a gated download attempt.
type AccessRequest struct {
	Scope        string
	SubScope     string
	ResourceName string
	Token        string
}

// Issuer mints signed download URLs.
type Issuer interface {
	// IssueSignedURL validates the request and returns a signed URL for the
	// artifact. The effective TTL is the requested TTL capped at the
	// configured maximum.
	IssueSignedURL(ctx context.Context, req IssueRequest) (*tokenDomain.SignedURL, error)
}

// Gate decides whether a download attempt may proceed. Checks run in a fixed
// order so an attacker cannot distinguish failure causes beyond the published
// deny reasons.
type Gate interface {
	// Check evaluates the access request and returns the decision. The error
	// return is reserved for internal faults; every policy outcome is a
	// Decision.
	Check(ctx context.Context, req AccessRequest) (tokenDomain.Decision, error)
}

// ClientDirectory reports whether a client exists within a tenant. URLs are
// only issued for clients the caller has actually registered.
type ClientDirectory interface {
	Exists(ctx context.Context, scope, subScope string) (bool, error)
}
