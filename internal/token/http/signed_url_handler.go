// Package http provides HTTP handlers for signed download URL issuance.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/reportgate/internal/httputil"
	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
	"github.com/allisson/reportgate/internal/token/http/dto"
	tokenUseCase "github.com/allisson/reportgate/internal/token/usecase"
	customValidation "github.com/allisson/reportgate/internal/validation"
)

// SignedURLHandler handles HTTP requests for signed download URL issuance.
type SignedURLHandler struct {
	issuer tokenUseCase.Issuer
	logger *slog.Logger
}

// NewSignedURLHandler creates a new signed URL handler with required dependencies.
func NewSignedURLHandler(issuer tokenUseCase.Issuer, logger *slog.Logger) *SignedURLHandler {
	return &SignedURLHandler{
		issuer: issuer,
		logger: logger,
	}
}

// IssueHandler mints a signed download URL for an artifact.
// POST /v1/signed-urls - the tenant scope comes from the caller's API key.
// Returns 201 Created with the URL, token, and effective TTL.
func (h *SignedURLHandler) IssueHandler(c *gin.Context) {
	var req dto.IssueSignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ttl, err := req.TTL()
	if err != nil {
		h.handleIssueError(c, err)
		return
	}

	signedURL, err := h.issuer.IssueSignedURL(c.Request.Context(), tokenUseCase.IssueRequest{
		CallerScope:  httputil.CallerScope(c),
		Scope:        httputil.CallerScope(c),
		SubScope:     req.ClientID,
		ResourceName: req.Filename,
		TTL:          ttl,
	})
	if err != nil {
		h.handleIssueError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSignedURLToResponse(signedURL))
}

// handleIssueError maps issuance failures to their machine-readable codes.
// Anything without a specific code falls through to the shared mapping.
func (h *SignedURLHandler) handleIssueError(c *gin.Context, err error) {
	type errorCode struct {
		target error
		status int
		label  string
		code   string
	}
	codes := []errorCode{
		{tokenDomain.ErrInvalidFilename, http.StatusUnprocessableEntity, "validation_error", "INVALID_FILENAME"},
		{tokenDomain.ErrInvalidFileType, http.StatusUnprocessableEntity, "validation_error", "INVALID_FILE_TYPE"},
		{tokenDomain.ErrInvalidTTL, http.StatusUnprocessableEntity, "validation_error", "INVALID_TTL"},
		{tokenDomain.ErrClientNotFound, http.StatusNotFound, "not_found", "CLIENT_NOT_FOUND"},
	}
	for _, mapped := range codes {
		if !errors.Is(err, mapped.target) {
			continue
		}
		h.logger.Warn("Signed URL issuance rejected",
			slog.String("code", mapped.code),
			slog.String("error", err.Error()))
		c.JSON(mapped.status, httputil.ErrorResponse{
			Error:   mapped.label,
			Message: mapped.target.Error(),
			Code:    mapped.code,
		})
		return
	}

	httputil.HandleErrorGin(c, err, h.logger)
}
