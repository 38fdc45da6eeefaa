package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	artifactHTTP "github.com/allisson/reportgate/internal/artifact/http"
	auditHTTP "github.com/allisson/reportgate/internal/audit/http"
	"github.com/allisson/reportgate/internal/config"
	"github.com/allisson/reportgate/internal/metrics"
	reportHTTP "github.com/allisson/reportgate/internal/report/http"
	tenantHTTP "github.com/allisson/reportgate/internal/tenant/http"
	tokenHTTP "github.com/allisson/reportgate/internal/token/http"
)

// Handlers bundles the module handlers mounted on the API server.
type Handlers struct {
	SignedURLs *tokenHTTP.SignedURLHandler
	Downloads  *artifactHTTP.DownloadHandler
	Artifacts  *artifactHTTP.ArtifactHandler
	Reports    *reportHTTP.ReportHandler
	Tenants    *tenantHTTP.TenantHandler
	AuditLogs  *auditHTTP.AuditLogHandler
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Routes are registered separately via
// SetupRoutes so tests can mount a minimal router.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRoutes builds the router: shared middleware, the public download
// route, the tenant-authenticated API surface, and the admin surface.
func (s *Server) SetupRoutes(cfg *config.Config, handlers Handlers, meterProvider metric.MeterProvider) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Downloads carry their own credential: the signed token in the URL.
	v1.GET("/downloads/:scope/:subScope/:filename", handlers.Downloads.GetHandler)

	// Tenant surface, authenticated by per-tenant API key.
	authenticated := v1.Group("")
	authenticated.Use(APIKeyAuthMiddleware(ParseAPIKeys(cfg.AuthAPIKeys), s.logger))
	{
		signedURLs := authenticated.Group("")
		if cfg.RateLimitTokenEnabled {
			signedURLs.Use(IssueRateLimitMiddleware(
				cfg.RateLimitTokenRequestsPerSec, cfg.RateLimitTokenBurst, s.logger))
		}
		signedURLs.POST("/signed-urls", handlers.SignedURLs.IssueHandler)

		authenticated.POST("/reports", handlers.Reports.SendHandler)
		authenticated.GET("/reports/capability", handlers.Reports.CapabilityHandler)
		authenticated.PUT("/artifacts/:subScope/:filename", handlers.Artifacts.UploadHandler)
		authenticated.DELETE("/artifacts/:subScope/:filename", handlers.Artifacts.DeleteHandler)
		authenticated.GET("/audit-logs", handlers.AuditLogs.ListHandler)
	}

	// Admin surface, authenticated by the shared admin key.
	admin := v1.Group("/tenants")
	admin.Use(AdminAuthMiddleware(cfg.AdminAPIKey, s.logger))
	{
		admin.POST("", handlers.Tenants.RegisterHandler)
		admin.GET("", handlers.Tenants.ListHandler)
		admin.POST("/:scope/clients", handlers.Tenants.RegisterClientHandler)
		admin.GET("/:scope/clients", handlers.Tenants.ListClientsHandler)
		admin.DELETE("/:scope", handlers.Tenants.DeleteHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness, checking the database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK
	overall := "ready"

	if s.db == nil {
		components["database"] = "error"
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			status = http.StatusServiceUnavailable
			overall = "not_ready"
		} else {
			components["database"] = "ok"
		}
	}

	c.JSON(status, gin.H{"status": overall, "components": components})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
