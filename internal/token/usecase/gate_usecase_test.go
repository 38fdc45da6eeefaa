package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
	tokenService "github.com/allisson/reportgate/internal/token/service"
)

func issueToken(t *testing.T, codec tokenService.Codec, expiresAt time.Time) string {
	t.Helper()
	token, err := codec.Encode(tokenDomain.Payload{
		Scope:        "agency_1",
		SubScope:     "client_42",
		ResourceName: "report_2026-08.pdf",
		ExpiresAt:    expiresAt.Unix(),
	})
	require.NoError(t, err)
	return token
}

func accessRequest(token string) AccessRequest {
	return AccessRequest{
		Scope:        "agency_1",
		SubScope:     "client_42",
		ResourceName: "report_2026-08.pdf",
		Token:        token,
	}
}

func TestGateUseCase_Allow(t *testing.T) {
	ctx := context.Background()
	codec := newTestCodec(t)
	audit := &captureRecorder{}
	gate := NewGateUseCase(codec, audit)

	token := issueToken(t, codec, time.Now().Add(15*time.Minute))
	decision, err := gate.Check(ctx, accessRequest(token))
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.True(t, decision.Payload.Matches("agency_1", "client_42", "report_2026-08.pdf"))

	events := audit.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, auditDomain.ActionDownloadAllow, events[0].Action)
}

func TestGateUseCase_DenyOrder(t *testing.T) {
	ctx := context.Background()
	codec := newTestCodec(t)
	valid := issueToken(t, codec, time.Now().Add(15*time.Minute))
	expired := issueToken(t, codec, time.Now().Add(-time.Second))

	tests := []struct {
		name    string
		mutate  func(req *AccessRequest)
		reason  tokenDomain.DenyReason
	}{
		{
			name:   "missing token",
			mutate: func(req *AccessRequest) { req.Token = "" },
			reason: tokenDomain.DenyTokenRequired,
		},
		{
			name: "missing token wins over bad filename",
			mutate: func(req *AccessRequest) {
				req.Token = ""
				req.ResourceName = "../secret.pdf"
			},
			reason: tokenDomain.DenyTokenRequired,
		},
		{
			name:   "invalid filename",
			mutate: func(req *AccessRequest) { req.ResourceName = "../secret.pdf" },
			reason: tokenDomain.DenyInvalidFilename,
		},
		{
			name:   "garbage token",
			mutate: func(req *AccessRequest) { req.Token = "not-a-token" },
			reason: tokenDomain.DenyTokenInvalid,
		},
		{
			name:   "tampered token",
			mutate: func(req *AccessRequest) { req.Token = valid + "x" },
			reason: tokenDomain.DenyTokenInvalid,
		},
		{
			name:   "expired token",
			mutate: func(req *AccessRequest) { req.Token = expired },
			reason: tokenDomain.DenyTokenExpired,
		},
		{
			name:   "wrong scope",
			mutate: func(req *AccessRequest) { req.Scope = "agency_2" },
			reason: tokenDomain.DenyTokenMismatch,
		},
		{
			name:   "wrong client",
			mutate: func(req *AccessRequest) { req.SubScope = "client_7" },
			reason: tokenDomain.DenyTokenMismatch,
		},
		{
			name:   "wrong resource",
			mutate: func(req *AccessRequest) { req.ResourceName = "other_report.pdf" },
			reason: tokenDomain.DenyTokenMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &captureRecorder{}
			gate := NewGateUseCase(codec, audit)

			req := accessRequest(valid)
			tt.mutate(&req)

			decision, err := gate.Check(ctx, req)
			require.NoError(t, err)
			assert.False(t, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)

			events := audit.recorded()
			require.Len(t, events, 1)
			assert.Equal(t, auditDomain.ActionDownloadDeny, events[0].Action)
			assert.Equal(t, string(tt.reason), events[0].Reason)
		})
	}
}

func TestGateUseCase_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	codec := newTestCodec(t)

	now := time.Now()
	gate := &gateUseCase{codec: codec, audit: &captureRecorder{}, now: func() time.Time { return now }}

	atNow := issueToken(t, codec, now)
	decision, err := gate.Check(ctx, accessRequest(atNow))
	require.NoError(t, err)
	assert.Equal(t, tokenDomain.DenyTokenExpired, decision.Reason, "token expiring exactly now is rejected")

	oneAhead := issueToken(t, codec, now.Add(time.Second))
	decision, err = gate.Check(ctx, accessRequest(oneAhead))
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "token expiring one second ahead is accepted")
}

func TestGateUseCase_CrossSecretToken(t *testing.T) {
	ctx := context.Background()

	// Token minted under a different signing secret must be rejected as
	// invalid, not mismatched.
	token := issueToken(t, newTestCodec(t), time.Now().Add(15*time.Minute))
	gate := NewGateUseCase(newTestCodec(t), &captureRecorder{})

	decision, err := gate.Check(ctx, accessRequest(token))
	require.NoError(t, err)
	assert.Equal(t, tokenDomain.DenyTokenInvalid, decision.Reason)
}
