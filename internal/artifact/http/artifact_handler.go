package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"
	artifactUseCase "github.com/allisson/reportgate/internal/artifact/usecase"
	"github.com/allisson/reportgate/internal/httputil"
)

// ArtifactHandler handles the authenticated artifact management surface.
// Uploads and deletions are scoped to the caller's tenant.
type ArtifactHandler struct {
	artifacts artifactUseCase.UseCase
	logger    *slog.Logger
}

// NewArtifactHandler creates a new artifact handler with required dependencies.
func NewArtifactHandler(artifacts artifactUseCase.UseCase, logger *slog.Logger) *ArtifactHandler {
	return &ArtifactHandler{
		artifacts: artifacts,
		logger:    logger,
	}
}

// UploadHandler stores an artifact from the request body.
// PUT /v1/artifacts/:subScope/:filename - replaces any existing version.
func (h *ArtifactHandler) UploadHandler(c *gin.Context) {
	contentType := c.ContentType()
	if contentType == "" {
		contentType = "application/pdf"
	}

	err := h.artifacts.Store(
		c.Request.Context(),
		httputil.CallerScope(c),
		c.Param("subScope"),
		c.Param("filename"),
		contentType,
		c.Request.Body,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusCreated)
}

// DeleteHandler removes a single artifact.
// DELETE /v1/artifacts/:subScope/:filename
func (h *ArtifactHandler) DeleteHandler(c *gin.Context) {
	err := h.artifacts.Delete(
		c.Request.Context(),
		httputil.CallerScope(c),
		c.Param("subScope"),
		c.Param("filename"),
	)
	if err != nil {
		if errors.Is(err, artifactDomain.ErrArtifactNotFound) {
			c.JSON(http.StatusNotFound, httputil.ErrorResponse{
				Error:   "not_found",
				Message: "The requested resource was not found",
			})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
