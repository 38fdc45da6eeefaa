// Package http provides HTTP handlers for artifact download and management.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"
	artifactUseCase "github.com/allisson/reportgate/internal/artifact/usecase"
	"github.com/allisson/reportgate/internal/httputil"
	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
	tokenUseCase "github.com/allisson/reportgate/internal/token/usecase"
)

// DownloadHandler serves gated artifact downloads. The capability token is
// the only credential; no API key is required on this surface.
type DownloadHandler struct {
	gate      tokenUseCase.Gate
	artifacts artifactUseCase.UseCase
	logger    *slog.Logger
	now       func() time.Time
}

// NewDownloadHandler creates a new download handler with required dependencies.
func NewDownloadHandler(
	gate tokenUseCase.Gate,
	artifacts artifactUseCase.UseCase,
	logger *slog.Logger,
) *DownloadHandler {
	return &DownloadHandler{
		gate:      gate,
		artifacts: artifacts,
		logger:    logger,
		now:       time.Now,
	}
}

// denyStatus maps deny reasons to HTTP status codes. Every deny response
// shares one body shape, including the not-found case, so probing requests
// learn nothing beyond the published reason code.
var denyStatus = map[tokenDomain.DenyReason]int{
	tokenDomain.DenyTokenRequired:   http.StatusUnauthorized,
	tokenDomain.DenyTokenInvalid:    http.StatusForbidden,
	tokenDomain.DenyTokenExpired:    http.StatusForbidden,
	tokenDomain.DenyTokenMismatch:   http.StatusForbidden,
	tokenDomain.DenyInvalidFilename: http.StatusUnprocessableEntity,
	tokenDomain.DenyNotFound:        http.StatusNotFound,
}

func (h *DownloadHandler) deny(c *gin.Context, reason tokenDomain.DenyReason) {
	status, ok := denyStatus[reason]
	if !ok {
		status = http.StatusForbidden
	}

	h.logger.Info("Download denied",
		slog.String("reason", string(reason)),
		slog.String("path", c.Request.URL.Path))

	c.JSON(status, httputil.ErrorResponse{
		Error:   "access_denied",
		Message: "Access to this resource was denied",
		Code:    string(reason),
	})
}

// GetHandler streams an artifact after the access gate allows the request.
// GET /v1/downloads/:scope/:subScope/:filename?token=...
// The token may also be sent in the X-Download-Token header.
func (h *DownloadHandler) GetHandler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("X-Download-Token")
	}

	req := tokenUseCase.AccessRequest{
		Scope:        c.Param("scope"),
		SubScope:     c.Param("subScope"),
		ResourceName: c.Param("filename"),
		Token:        token,
	}

	decision, err := h.gate.Check(c.Request.Context(), req)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !decision.Allowed {
		h.deny(c, decision.Reason)
		return
	}

	reader, artifact, err := h.artifacts.Fetch(c.Request.Context(), req.Scope, req.SubScope, req.ResourceName)
	if err != nil {
		if errors.Is(err, artifactDomain.ErrArtifactNotFound) {
			h.deny(c, tokenDomain.DenyNotFound)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer reader.Close()

	// Cache no longer than the token stays valid.
	remaining := max(decision.Payload.ExpiresAt-h.now().Unix(), 0)

	contentType := artifact.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	extraHeaders := map[string]string{
		"Cache-Control":       fmt.Sprintf("private, max-age=%d", remaining),
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", artifact.Name),
	}
	c.DataFromReader(http.StatusOK, artifact.Size, contentType, reader, extraHeaders)
}
