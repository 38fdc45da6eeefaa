package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	auditUseCase "github.com/allisson/reportgate/internal/audit/usecase"
	apperrors "github.com/allisson/reportgate/internal/errors"
	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
	tokenService "github.com/allisson/reportgate/internal/token/service"
	"github.com/allisson/reportgate/internal/validation"
)

type issuerUseCase struct {
	codec      tokenService.Codec
	clients    ClientDirectory
	audit      auditUseCase.Recorder
	baseURL    string
	defaultTTL time.Duration
	maxTTL     time.Duration
	now        func() time.Time
}

// NewIssuerUseCase creates the signed URL issuer. A zero requested TTL falls
// back to defaultTTL; any requested TTL is capped at maxTTL.
func NewIssuerUseCase(
	codec tokenService.Codec,
	clients ClientDirectory,
	audit auditUseCase.Recorder,
	baseURL string,
	defaultTTL time.Duration,
	maxTTL time.Duration,
) Issuer {
	return &issuerUseCase{
		codec:      codec,
		clients:    clients,
		audit:      audit,
		baseURL:    baseURL,
		defaultTTL: defaultTTL,
		maxTTL:     maxTTL,
		now:        time.Now,
	}
}

// IssueSignedURL validates the request and mints a signed download URL.
//
// Validation order: caller authorization, filename shape, file extension,
// client existence, TTL. The first failure wins.
func (u *issuerUseCase) IssueSignedURL(ctx context.Context, req IssueRequest) (*tokenDomain.SignedURL, error) {
	if req.CallerScope != req.Scope {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "caller may not issue URLs for another tenant")
	}

	if !validation.IsValidResourceName(req.ResourceName) {
		return nil, tokenDomain.ErrInvalidFilename
	}
	if !validation.HasAllowedExtension(req.ResourceName, tokenDomain.AllowedExtensions...) {
		return nil, tokenDomain.ErrInvalidFileType
	}

	exists, err := u.clients.Exists(ctx, req.Scope, req.SubScope)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	if !exists {
		return nil, tokenDomain.ErrClientNotFound
	}

	ttl, err := u.effectiveTTL(req.TTL)
	if err != nil {
		return nil, err
	}

	now := u.now()
	expiresAt := now.Add(ttl)
	payload := tokenDomain.Payload{
		Scope:        req.Scope,
		SubScope:     req.SubScope,
		ResourceName: req.ResourceName,
		ExpiresAt:    expiresAt.Unix(),
	}

	token, err := u.codec.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token: %w", err)
	}

	u.audit.Record(ctx, auditDomain.NewEvent(
		req.Scope, req.SubScope, auditDomain.ActionURLIssued, req.ResourceName, "", now))

	return &tokenDomain.SignedURL{
		URL:       u.downloadURL(payload, token),
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		TTL:       ttl,
	}, nil
}

func (u *issuerUseCase) effectiveTTL(requested time.Duration) (time.Duration, error) {
	if requested < 0 {
		return 0, tokenDomain.ErrInvalidTTL
	}
	if requested == 0 {
		return u.defaultTTL, nil
	}
	return min(requested, u.maxTTL), nil
}

func (u *issuerUseCase) downloadURL(payload tokenDomain.Payload, token string) string {
	query := url.Values{"token": []string{token}}
	return fmt.Sprintf("%s/v1/downloads/%s/%s/%s?%s",
		u.baseURL,
		url.PathEscape(payload.Scope),
		url.PathEscape(payload.SubScope),
		url.PathEscape(payload.ResourceName),
		query.Encode())
}
