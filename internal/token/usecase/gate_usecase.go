package usecase

import (
	"context"
	"errors"
	"time"

	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	auditUseCase "github.com/allisson/reportgate/internal/audit/usecase"
	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
	tokenService "github.com/allisson/reportgate/internal/token/service"
	"github.com/allisson/reportgate/internal/validation"
)

type gateUseCase struct {
	codec tokenService.Codec
	audit auditUseCase.Recorder
	now   func() time.Time
}

// NewGateUseCase creates the download access gate.
func NewGateUseCase(codec tokenService.Codec, audit auditUseCase.Recorder) Gate {
	return &gateUseCase{
		codec: codec,
		audit: audit,
		now:   time.Now,
	}
}

// Check runs the gating state machine. The order is fixed:
//
//  1. missing token
//  2. invalid filename
//  3. malformed token or bad signature
//  4. expired token
//  5. token/resource mismatch
//
// Only when every check passes is the request allowed. Expiry is strict: a
// token expiring exactly now is rejected.
func (u *gateUseCase) Check(ctx context.Context, req AccessRequest) (tokenDomain.Decision, error) {
	decision, err := u.evaluate(req)
	if err != nil {
		return tokenDomain.Decision{}, err
	}

	action := auditDomain.ActionDownloadAllow
	reason := ""
	if !decision.Allowed {
		action = auditDomain.ActionDownloadDeny
		reason = string(decision.Reason)
	}
	u.audit.Record(ctx, auditDomain.NewEvent(
		req.Scope, req.SubScope, action, req.ResourceName, reason, u.now()))

	return decision, nil
}

func (u *gateUseCase) evaluate(req AccessRequest) (tokenDomain.Decision, error) {
	if req.Token == "" {
		return tokenDomain.Deny(tokenDomain.DenyTokenRequired), nil
	}

	if !validation.IsValidResourceName(req.ResourceName) {
		return tokenDomain.Deny(tokenDomain.DenyInvalidFilename), nil
	}

	payload, err := u.codec.DecodeAndVerify(req.Token)
	if err != nil {
		if errors.Is(err, tokenDomain.ErrTokenMalformed) || errors.Is(err, tokenDomain.ErrTokenBadSignature) {
			return tokenDomain.Deny(tokenDomain.DenyTokenInvalid), nil
		}
		return tokenDomain.Decision{}, err
	}

	if payload.ExpiredAt(u.now()) {
		return tokenDomain.Deny(tokenDomain.DenyTokenExpired), nil
	}

	if !payload.Matches(req.Scope, req.SubScope, req.ResourceName) {
		return tokenDomain.Deny(tokenDomain.DenyTokenMismatch), nil
	}

	return tokenDomain.Allow(payload), nil
}
