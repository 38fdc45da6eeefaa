package app

import (
	"fmt"

	idempotencyUseCase "github.com/allisson/reportgate/internal/idempotency/usecase"
	ratelimitUseCase "github.com/allisson/reportgate/internal/ratelimit/usecase"
	reportService "github.com/allisson/reportgate/internal/report/service"
	reportUseCase "github.com/allisson/reportgate/internal/report/usecase"
)

// Ledger returns the idempotency ledger.
func (c *Container) Ledger() (idempotencyUseCase.Ledger, error) {
	c.ledgerInit.Do(func() {
		kvStore, err := c.KVStore()
		if err != nil {
			c.initErrors["ledger"] = fmt.Errorf("failed to get kv store for ledger: %w", err)
			return
		}
		c.ledger = idempotencyUseCase.NewLedgerUseCase(kvStore, c.config.IdempotencyRetention, c.Logger())
	})
	if err, exists := c.initErrors["ledger"]; exists {
		return nil, err
	}
	return c.ledger, nil
}

// Limiter returns the store-backed fixed window rate limiter for report sends.
func (c *Container) Limiter() (ratelimitUseCase.Limiter, error) {
	c.limiterInit.Do(func() {
		kvStore, err := c.KVStore()
		if err != nil {
			c.initErrors["limiter"] = fmt.Errorf("failed to get kv store for limiter: %w", err)
			return
		}
		c.limiter = ratelimitUseCase.NewLimiterUseCase(
			kvStore,
			c.config.SendWindow,
			int64(c.config.SendMaxPerWindow),
		)
	})
	if err, exists := c.initErrors["limiter"]; exists {
		return nil, err
	}
	return c.limiter, nil
}

// Sender returns the report delivery notifier.
func (c *Container) Sender() reportService.Sender {
	c.senderInit.Do(func() {
		c.sender = reportService.NewLogSender(c.Logger())
	})
	return c.sender
}

// ReportUseCase returns the report send pipeline, decorated with metrics.
func (c *Container) ReportUseCase() (reportUseCase.UseCase, error) {
	c.reportInit.Do(func() {
		useCase, err := c.initReportUseCase()
		if err != nil {
			c.initErrors["reportUseCase"] = err
			return
		}
		c.reportUseCase = useCase
	})
	if err, exists := c.initErrors["reportUseCase"]; exists {
		return nil, err
	}
	return c.reportUseCase, nil
}

func (c *Container) initReportUseCase() (reportUseCase.UseCase, error) {
	limiter, err := c.Limiter()
	if err != nil {
		return nil, fmt.Errorf("failed to get limiter for report use case: %w", err)
	}

	ledger, err := c.Ledger()
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger for report use case: %w", err)
	}

	artifacts, err := c.ArtifactUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact use case for report use case: %w", err)
	}

	issuer, err := c.Issuer()
	if err != nil {
		return nil, fmt.Errorf("failed to get issuer for report use case: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for report use case: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for report use case: %w", err)
	}

	useCase := reportUseCase.NewReportUseCase(
		limiter,
		ledger,
		artifacts,
		issuer,
		c.Sender(),
		audit,
		c.Logger(),
	)

	return reportUseCase.NewUseCaseWithMetrics(useCase, bm), nil
}
