// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	artifactHTTP "github.com/allisson/reportgate/internal/artifact/http"
	artifactService "github.com/allisson/reportgate/internal/artifact/service"
	artifactUseCase "github.com/allisson/reportgate/internal/artifact/usecase"
	auditHTTP "github.com/allisson/reportgate/internal/audit/http"
	auditUseCase "github.com/allisson/reportgate/internal/audit/usecase"
	"github.com/allisson/reportgate/internal/config"
	"github.com/allisson/reportgate/internal/database"
	internalHTTP "github.com/allisson/reportgate/internal/http"
	idempotencyUseCase "github.com/allisson/reportgate/internal/idempotency/usecase"
	"github.com/allisson/reportgate/internal/metrics"
	ratelimitUseCase "github.com/allisson/reportgate/internal/ratelimit/usecase"
	reportHTTP "github.com/allisson/reportgate/internal/report/http"
	reportService "github.com/allisson/reportgate/internal/report/service"
	reportUseCase "github.com/allisson/reportgate/internal/report/usecase"
	"github.com/allisson/reportgate/internal/store"
	tenantHTTP "github.com/allisson/reportgate/internal/tenant/http"
	tenantUseCase "github.com/allisson/reportgate/internal/tenant/usecase"
	tokenHTTP "github.com/allisson/reportgate/internal/token/http"
	tokenService "github.com/allisson/reportgate/internal/token/service"
	tokenUseCase "github.com/allisson/reportgate/internal/token/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	kvStore         store.KVStore
	blobStore       artifactService.BlobStore
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Services
	codec  tokenService.Codec
	sender reportService.Sender

	// Use Cases
	auditUseCase    auditUseCase.UseCase
	issuer          tokenUseCase.Issuer
	gate            tokenUseCase.Gate
	artifactUseCase artifactUseCase.UseCase
	ledger          idempotencyUseCase.Ledger
	limiter         ratelimitUseCase.Limiter
	tenantUseCase   tenantUseCase.UseCase
	reportUseCase   reportUseCase.UseCase

	// Servers
	httpServer    *internalHTTP.Server
	metricsServer *internalHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	kvStoreInit         sync.Once
	blobStoreInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	codecInit           sync.Once
	senderInit          sync.Once
	auditInit           sync.Once
	issuerInit          sync.Once
	gateInit            sync.Once
	artifactInit        sync.Once
	ledgerInit          sync.Once
	limiterInit         sync.Once
	tenantInit          sync.Once
	reportInit          sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// KVStore returns the key-value store backed by the configured database.
func (c *Container) KVStore() (store.KVStore, error) {
	c.kvStoreInit.Do(func() {
		kvStore, err := c.initKVStore()
		if err != nil {
			c.initErrors["kvStore"] = err
			return
		}
		c.kvStore = kvStore
	})
	if err, exists := c.initErrors["kvStore"]; exists {
		return nil, err
	}
	return c.kvStore, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op
// implementation is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if err, exists := c.initErrors["businessMetrics"]; exists {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with all routes registered.
func (c *Container) HTTPServer() (*internalHTTP.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*internalHTTP.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = internalHTTP.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.blobStore != nil {
		if err := c.blobStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("blob store close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initKVStore selects the store implementation matching the database driver.
func (c *Container) initKVStore() (store.KVStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for kv store: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return store.NewMySQLStore(db), nil
	case "postgres":
		return store.NewPostgreSQLStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initHTTPServer creates the API server with all its dependencies.
func (c *Container) initHTTPServer() (*internalHTTP.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	issuer, err := c.Issuer()
	if err != nil {
		return nil, fmt.Errorf("failed to get issuer for http server: %w", err)
	}

	gate, err := c.Gate()
	if err != nil {
		return nil, fmt.Errorf("failed to get gate for http server: %w", err)
	}

	artifacts, err := c.ArtifactUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact use case for http server: %w", err)
	}

	reports, err := c.ReportUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get report use case for http server: %w", err)
	}

	tenants, err := c.TenantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant use case for http server: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := internalHTTP.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)

	handlers := internalHTTP.Handlers{
		SignedURLs: tokenHTTP.NewSignedURLHandler(issuer, logger),
		Downloads:  artifactHTTP.NewDownloadHandler(gate, artifacts, logger),
		Artifacts:  artifactHTTP.NewArtifactHandler(artifacts, logger),
		Reports:    reportHTTP.NewReportHandler(reports, logger),
		Tenants:    tenantHTTP.NewTenantHandler(tenants, logger),
		AuditLogs:  auditHTTP.NewAuditLogHandler(audit, logger),
	}

	if provider != nil {
		server.SetupRoutes(c.config, handlers, provider.MeterProvider())
	} else {
		server.SetupRoutes(c.config, handlers, nil)
	}

	return server, nil
}
