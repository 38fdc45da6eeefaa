package http

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	artifactService "github.com/allisson/reportgate/internal/artifact/service"
	artifactUseCase "github.com/allisson/reportgate/internal/artifact/usecase"
	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	"github.com/allisson/reportgate/internal/httputil"
	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
	tokenService "github.com/allisson/reportgate/internal/token/service"
	tokenUseCase "github.com/allisson/reportgate/internal/token/usecase"
)

type noopRecorder struct{}

func (noopRecorder) Record(ctx context.Context, event auditDomain.Event) {}

type downloadFixture struct {
	handler *DownloadHandler
	codec   tokenService.Codec
}

func setupDownloadFixture(t *testing.T) *downloadFixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

	secret := make([]byte, 32)
	_, err := rand.Read(secret)
	require.NoError(t, err)
	codec := tokenService.NewHMACCodec(secret)

	blobStore, err := artifactService.NewBlobStore(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobStore.Close() })

	artifacts := artifactUseCase.NewArtifactUseCase(blobStore, noopRecorder{})
	err = artifacts.Store(
		context.Background(), "agency_1", "client_1", "report.pdf",
		"application/pdf", strings.NewReader("%PDF-1.7 fake"))
	require.NoError(t, err)

	gate := tokenUseCase.NewGateUseCase(codec, noopRecorder{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &downloadFixture{
		handler: NewDownloadHandler(gate, artifacts, logger),
		codec:   codec,
	}
}

func (f *downloadFixture) token(t *testing.T, payload tokenDomain.Payload) string {
	t.Helper()
	token, err := f.codec.Encode(payload)
	require.NoError(t, err)
	return token
}

func (f *downloadFixture) request(scope, subScope, filename, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	target := "/v1/downloads/" + scope + "/" + subScope + "/" + filename
	if token != "" {
		target += "?token=" + token
	}
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = gin.Params{
		{Key: "scope", Value: scope},
		{Key: "subScope", Value: subScope},
		{Key: "filename", Value: filename},
	}

	f.handler.GetHandler(c)
	return w
}

func validPayload() tokenDomain.Payload {
	return tokenDomain.Payload{
		Scope:        "agency_1",
		SubScope:     "client_1",
		ResourceName: "report.pdf",
		ExpiresAt:    time.Now().Add(15 * time.Minute).Unix(),
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestDownloadHandler_Allowed(t *testing.T) {
	fixture := setupDownloadFixture(t)
	token := fixture.token(t, validPayload())

	w := fixture.request("agency_1", "client_1", "report.pdf", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.7 fake", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report.pdf")

	cacheControl := w.Header().Get("Cache-Control")
	assert.Contains(t, cacheControl, "private")
	assert.Contains(t, cacheControl, "max-age=")
}

func TestDownloadHandler_DenyReasons(t *testing.T) {
	fixture := setupDownloadFixture(t)
	valid := fixture.token(t, validPayload())

	expiredPayload := validPayload()
	expiredPayload.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	expired := fixture.token(t, expiredPayload)

	tests := []struct {
		name       string
		scope      string
		subScope   string
		filename   string
		token      string
		wantStatus int
		wantCode   string
	}{
		{
			name:  "no token",
			scope: "agency_1", subScope: "client_1", filename: "report.pdf",
			wantStatus: http.StatusUnauthorized, wantCode: "PDF_TOKEN_REQUIRED",
		},
		{
			name:  "garbage token",
			scope: "agency_1", subScope: "client_1", filename: "report.pdf", token: "garbage",
			wantStatus: http.StatusForbidden, wantCode: "PDF_TOKEN_INVALID",
		},
		{
			name:  "expired token",
			scope: "agency_1", subScope: "client_1", filename: "report.pdf", token: expired,
			wantStatus: http.StatusForbidden, wantCode: "PDF_TOKEN_EXPIRED",
		},
		{
			name:  "token for another resource",
			scope: "agency_1", subScope: "client_1", filename: "other.pdf", token: valid,
			wantStatus: http.StatusForbidden, wantCode: "PDF_TOKEN_MISMATCH",
		},
		{
			name:  "token for another tenant",
			scope: "agency_2", subScope: "client_1", filename: "report.pdf", token: valid,
			wantStatus: http.StatusForbidden, wantCode: "PDF_TOKEN_MISMATCH",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := fixture.request(tt.scope, tt.subScope, tt.filename, tt.token)
			assert.Equal(t, tt.wantStatus, w.Code)

			response := decodeError(t, w)
			assert.Equal(t, "access_denied", response.Error)
			assert.Equal(t, tt.wantCode, response.Code)
		})
	}
}

func TestDownloadHandler_InvalidFilenameBeatsTokenChecks(t *testing.T) {
	fixture := setupDownloadFixture(t)

	// Raw traversal in the filename param is caught before token decoding.
	w := fixture.request("agency_1", "client_1", "../secret.pdf", "garbage")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	response := decodeError(t, w)
	assert.Equal(t, "INVALID_FILENAME", response.Code)
}

func TestDownloadHandler_MissingArtifactShapedLikeDenial(t *testing.T) {
	fixture := setupDownloadFixture(t)

	payload := validPayload()
	payload.ResourceName = "ghost.pdf"
	token := fixture.token(t, payload)

	w := fixture.request("agency_1", "client_1", "ghost.pdf", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	response := decodeError(t, w)
	assert.Equal(t, "access_denied", response.Error, "not-found keeps the denial shape")
	assert.Equal(t, "PDF_NOT_FOUND", response.Code)
}

func TestDownloadHandler_TokenFromHeader(t *testing.T) {
	fixture := setupDownloadFixture(t)
	token := fixture.token(t, validPayload())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/downloads/agency_1/client_1/report.pdf", nil)
	// Header names are canonicalized, so any casing works.
	c.Request.Header.Set("x-download-token", token)
	c.Params = gin.Params{
		{Key: "scope", Value: "agency_1"},
		{Key: "subScope", Value: "client_1"},
		{Key: "filename", Value: "report.pdf"},
	}

	fixture.handler.GetHandler(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
