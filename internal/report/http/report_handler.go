// Package http provides HTTP handlers for report delivery.
package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/reportgate/internal/httputil"
	idempotencyService "github.com/allisson/reportgate/internal/idempotency/service"
	ratelimitDomain "github.com/allisson/reportgate/internal/ratelimit/domain"
	reportDomain "github.com/allisson/reportgate/internal/report/domain"
	"github.com/allisson/reportgate/internal/report/http/dto"
	reportUseCase "github.com/allisson/reportgate/internal/report/usecase"
)

// IdempotencyKeyHeader carries the client-chosen idempotency key. Header
// lookup is case-insensitive, so idempotency-key and IDEMPOTENCY-KEY work too.
const IdempotencyKeyHeader = "Idempotency-Key"

// ReportHandler handles report delivery requests.
type ReportHandler struct {
	reports reportUseCase.UseCase
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports reportUseCase.UseCase, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// setRateLimitHeaders exposes the window state. These go on every response
// that made it past authentication, including denials and failures.
func setRateLimitHeaders(c *gin.Context, rl ratelimitDomain.Result) {
	c.Header("X-RateLimit-Limit", strconv.FormatInt(rl.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(rl.Remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(rl.ResetAtEpoch, 10))
}

// CapabilityHandler handles GET /v1/reports/capability. It publishes the
// retry-safety contract of the send operation so clients can discover that
// retries are safe only with the Idempotency-Key header set.
func (h *ReportHandler) CapabilityHandler(c *gin.Context) {
	c.JSON(http.StatusOK, reportDomain.SendCapability(IdempotencyKeyHeader))
}

// SendHandler handles POST /v1/reports. The request body is fingerprinted
// byte-for-byte as received, before any decoding, so the idempotency check
// sees exactly what the client sent.
func (h *ReportHandler) SendHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var request dto.SendReportRequest
	if err := json.Unmarshal(body, &request); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	scope := httputil.CallerScope(c)
	result, err := h.reports.Send(c.Request.Context(), reportUseCase.SendInput{
		Scope:          scope,
		ClientID:       request.ClientID,
		ReportName:     request.ReportName,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
		Fingerprint:    idempotencyService.Fingerprint(body),
	})
	if result != nil {
		setRateLimitHeaders(c, result.RateLimit)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	switch result.Status {
	case reportDomain.StatusRateLimited:
		c.JSON(http.StatusTooManyRequests, httputil.ErrorResponse{
			Error:   "rate_limit_exceeded",
			Message: "Send limit reached for this window. Retry after the reset time",
			Code:    "RATE_LIMIT_EXCEEDED",
		})
	case reportDomain.StatusConflict:
		c.JSON(http.StatusConflict, httputil.ErrorResponse{
			Error:   "conflict",
			Message: "The idempotency key was already used with a different request body",
			Code:    "IDEMPOTENCY_KEY_REUSE_MISMATCH",
		})
	case reportDomain.StatusReplayed:
		c.JSON(http.StatusOK, dto.MapReceiptToResponse(result.Receipt))
	default:
		c.JSON(http.StatusCreated, dto.MapReceiptToResponse(result.Receipt))
	}
}
