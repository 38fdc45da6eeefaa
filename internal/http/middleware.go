// Package http provides the API server, routing, and middleware.
package http

import (
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/reportgate/internal/errors"
	"github.com/allisson/reportgate/internal/httputil"
)

// CustomLoggerMiddleware logs HTTP requests with structured logging.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// ParseAPIKeys parses the "scope1:key1,scope2:key2" configuration format
// into a scope-to-key map. Malformed entries are skipped.
func ParseAPIKeys(value string) map[string]string {
	keys := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		scope, key, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || scope == "" || key == "" {
			continue
		}
		keys[scope] = key
	}
	return keys
}

// bearerToken extracts the token from an Authorization header. Returns an
// empty string when the header is missing or not a Bearer scheme. The scheme
// comparison is case-insensitive.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}

// APIKeyAuthMiddleware authenticates tenant callers via a Bearer API key.
// On success the caller's tenant scope is stored in the Gin context for
// handlers to read via httputil.CallerScope. Every key is compared in
// constant time so a miss costs the same as a hit.
func APIKeyAuthMiddleware(apiKeys map[string]string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		matchedScope := ""
		for scope, key := range apiKeys {
			if subtle.ConstantTimeCompare([]byte(token), []byte(key)) == 1 {
				matchedScope = scope
			}
		}
		if matchedScope == "" {
			logger.Debug("authentication failed: unknown api key")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Set(httputil.CallerScopeKey, matchedScope)
		c.Next()
	}
}

// AdminAuthMiddleware authenticates the tenant administration surface with a
// single shared key. An empty configured key rejects everything, so the
// admin endpoints are disabled unless explicitly configured.
func AdminAuthMiddleware(adminKey string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if adminKey == "" || token == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(adminKey)) != 1 {
			logger.Debug("admin authentication failed")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
