package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	artifactUseCase "github.com/allisson/reportgate/internal/artifact/usecase"
	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	auditUseCase "github.com/allisson/reportgate/internal/audit/usecase"
	apperrors "github.com/allisson/reportgate/internal/errors"
	idempotencyDomain "github.com/allisson/reportgate/internal/idempotency/domain"
	idempotencyUseCase "github.com/allisson/reportgate/internal/idempotency/usecase"
	ratelimitUseCase "github.com/allisson/reportgate/internal/ratelimit/usecase"
	reportDomain "github.com/allisson/reportgate/internal/report/domain"
	reportService "github.com/allisson/reportgate/internal/report/service"
	tokenUseCase "github.com/allisson/reportgate/internal/token/usecase"
)

type reportUseCase struct {
	limiter   ratelimitUseCase.Limiter
	ledger    idempotencyUseCase.Ledger
	artifacts artifactUseCase.UseCase
	issuer    tokenUseCase.Issuer
	sender    reportService.Sender
	audit     auditUseCase.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewReportUseCase creates the report delivery use case.
func NewReportUseCase(
	limiter ratelimitUseCase.Limiter,
	ledger idempotencyUseCase.Ledger,
	artifacts artifactUseCase.UseCase,
	issuer tokenUseCase.Issuer,
	sender reportService.Sender,
	audit auditUseCase.Recorder,
	logger *slog.Logger,
) UseCase {
	return &reportUseCase{
		limiter:   limiter,
		ledger:    ledger,
		artifacts: artifacts,
		issuer:    issuer,
		sender:    sender,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

// Send runs the delivery pipeline. The check order is fixed: the rate limit
// is consumed first, then the idempotency ledger is consulted, and only then
// does any work happen. A replay therefore still counts against the window.
func (u *reportUseCase) Send(ctx context.Context, input SendInput) (*reportDomain.SendResult, error) {
	rl, err := u.limiter.Allow(ctx, input.Scope)
	if err != nil {
		return nil, err
	}

	result := &reportDomain.SendResult{RateLimit: rl}
	if !rl.Allowed {
		result.Status = reportDomain.StatusRateLimited
		return result, nil
	}

	if input.IdempotencyKey != "" {
		check, err := u.ledger.Check(ctx, input.IdempotencyKey, input.Scope, input.ClientID, input.Fingerprint)
		if err != nil {
			return result, err
		}
		result.Idempotence = check.Outcome

		switch check.Outcome {
		case idempotencyDomain.OutcomeConflict:
			result.Status = reportDomain.StatusConflict
			return result, nil
		case idempotencyDomain.OutcomeReplay:
			var receipt reportDomain.Receipt
			if err := json.Unmarshal(check.Record.Response, &receipt); err != nil {
				return result, fmt.Errorf("stored receipt corrupt: %w: %v", apperrors.ErrUnavailable, err)
			}
			receipt.Replayed = true
			result.Status = reportDomain.StatusReplayed
			result.Receipt = &receipt

			u.audit.Record(ctx, auditDomain.NewEvent(
				input.Scope, input.ClientID, auditDomain.ActionReportReplayed, input.ReportName, "", u.now()))
			return result, nil
		}
	}

	// The artifact must exist before a URL for it goes out.
	reader, _, err := u.artifacts.Fetch(ctx, input.Scope, input.ClientID, input.ReportName)
	if err != nil {
		return result, err
	}
	_ = reader.Close()

	signedURL, err := u.issuer.IssueSignedURL(ctx, tokenUseCase.IssueRequest{
		CallerScope:  input.Scope,
		Scope:        input.Scope,
		SubScope:     input.ClientID,
		ResourceName: input.ReportName,
	})
	if err != nil {
		return result, err
	}

	err = u.sender.Send(ctx, reportService.Delivery{
		Scope:      input.Scope,
		ClientID:   input.ClientID,
		ReportName: input.ReportName,
		URL:        signedURL.URL,
		ExpiresAt:  signedURL.ExpiresAt,
	})
	if err != nil {
		return result, fmt.Errorf("failed to deliver report notification: %w", err)
	}

	receipt := &reportDomain.Receipt{
		Scope:      input.Scope,
		ClientID:   input.ClientID,
		ReportName: input.ReportName,
		URL:        signedURL.URL,
		ExpiresAt:  signedURL.ExpiresAt,
		SentAt:     u.now().UTC(),
	}

	if input.IdempotencyKey != "" {
		// Best effort: the report already went out, so a ledger write
		// failure must not fail the request.
		value, err := json.Marshal(receipt)
		if err != nil {
			u.logger.Error("Failed to marshal receipt for ledger",
				slog.String("scope", input.Scope),
				slog.String("error", err.Error()))
		} else {
			u.ledger.Store(ctx, input.IdempotencyKey, input.Scope, input.ClientID,
				input.Fingerprint, http.StatusCreated, value)
		}
	}

	u.audit.Record(ctx, auditDomain.NewEvent(
		input.Scope, input.ClientID, auditDomain.ActionReportSent, input.ReportName, "", u.now()))

	result.Status = reportDomain.StatusSent
	result.Receipt = receipt
	return result, nil
}
