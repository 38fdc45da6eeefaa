// Package http provides HTTP handlers for the audit trail.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	auditUseCase "github.com/allisson/reportgate/internal/audit/usecase"
	"github.com/allisson/reportgate/internal/httputil"
)

// AuditLogHandler serves a tenant's audit trail.
type AuditLogHandler struct {
	audit  auditUseCase.UseCase
	logger *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler.
func NewAuditLogHandler(audit auditUseCase.UseCase, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{audit: audit, logger: logger}
}

// AuditLogListResponse wraps a tenant's audit events.
type AuditLogListResponse struct {
	Events []auditDomain.Event `json:"events"`
}

// ListHandler handles GET /v1/audit-logs. Events are scoped to the caller's
// tenant; there is no cross-tenant listing.
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	events, err := h.audit.ListByScope(c.Request.Context(), httputil.CallerScope(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, AuditLogListResponse{Events: events})
}
