// Package http provides HTTP handlers for tenant administration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"
	"github.com/allisson/reportgate/internal/httputil"
	"github.com/allisson/reportgate/internal/tenant/http/dto"
	tenantUseCase "github.com/allisson/reportgate/internal/tenant/usecase"
)

// TenantHandler handles tenant administration requests.
type TenantHandler struct {
	tenants tenantUseCase.UseCase
	logger  *slog.Logger
}

// NewTenantHandler creates a new tenant handler.
func NewTenantHandler(tenants tenantUseCase.UseCase, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{tenants: tenants, logger: logger}
}

// RegisterHandler handles POST /v1/tenants.
func (h *TenantHandler) RegisterHandler(c *gin.Context) {
	var request dto.RegisterTenantRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	tenant, err := h.tenants.RegisterTenant(c.Request.Context(), request.Scope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTenantToResponse(tenant))
}

// ListHandler handles GET /v1/tenants.
func (h *TenantHandler) ListHandler(c *gin.Context) {
	scopes, err := h.tenants.ListTenants(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.TenantListResponse{Tenants: scopes})
}

// RegisterClientHandler handles POST /v1/tenants/:scope/clients.
func (h *TenantHandler) RegisterClientHandler(c *gin.Context) {
	var request dto.RegisterClientRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	client, err := h.tenants.RegisterClient(c.Request.Context(), c.Param("scope"), request.ID, request.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapClientToResponse(*client))
}

// ListClientsHandler handles GET /v1/tenants/:scope/clients.
func (h *TenantHandler) ListClientsHandler(c *gin.Context) {
	clients, err := h.tenants.ListClients(c.Request.Context(), c.Param("scope"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientsToListResponse(clients))
}

// DeleteHandler handles DELETE /v1/tenants/:scope. The deletion_scope query
// parameter selects metadata_only (default) or cascade.
func (h *TenantHandler) DeleteHandler(c *gin.Context) {
	deletionScope := artifactDomain.DeletionMetadataOnly
	if value := c.Query("deletion_scope"); value != "" {
		parsed, err := artifactDomain.ParseDeletionScope(value)
		if err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
		deletionScope = parsed
	}

	report, err := h.tenants.DeleteTenant(c.Request.Context(), c.Param("scope"), deletionScope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeletionReportToResponse(report))
}
