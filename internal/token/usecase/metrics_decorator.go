package usecase

import (
	"context"
	"time"

	"github.com/allisson/reportgate/internal/metrics"
	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
)

// issuerWithMetrics decorates Issuer with metrics instrumentation.
type issuerWithMetrics struct {
	next    Issuer
	metrics metrics.BusinessMetrics
}

// NewIssuerWithMetrics wraps an Issuer with metrics recording.
func NewIssuerWithMetrics(issuer Issuer, m metrics.BusinessMetrics) Issuer {
	return &issuerWithMetrics{
		next:    issuer,
		metrics: m,
	}
}

// IssueSignedURL records metrics for signed URL issuance.
func (i *issuerWithMetrics) IssueSignedURL(ctx context.Context, req IssueRequest) (*tokenDomain.SignedURL, error) {
	start := time.Now()
	signedURL, err := i.next.IssueSignedURL(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, "token", "url_issue", status)
	i.metrics.RecordDuration(ctx, "token", "url_issue", time.Since(start), status)

	return signedURL, err
}

// gateWithMetrics decorates Gate with metrics instrumentation. Denials are
// recorded as distinct statuses so allow/deny rates are visible per reason.
type gateWithMetrics struct {
	next    Gate
	metrics metrics.BusinessMetrics
}

// NewGateWithMetrics wraps a Gate with metrics recording.
func NewGateWithMetrics(gate Gate, m metrics.BusinessMetrics) Gate {
	return &gateWithMetrics{
		next:    gate,
		metrics: m,
	}
}

// Check records metrics for download gating decisions.
func (g *gateWithMetrics) Check(ctx context.Context, req AccessRequest) (tokenDomain.Decision, error) {
	start := time.Now()
	decision, err := g.next.Check(ctx, req)

	status := "error"
	switch {
	case err != nil:
	case decision.Allowed:
		status = "allow"
	default:
		status = "deny_" + string(decision.Reason)
	}

	g.metrics.RecordOperation(ctx, "token", "gate_check", status)
	g.metrics.RecordDuration(ctx, "token", "gate_check", time.Since(start), status)

	return decision, err
}
