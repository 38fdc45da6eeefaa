package app

import (
	"context"
	"fmt"

	tokenService "github.com/allisson/reportgate/internal/token/service"
	tokenUseCase "github.com/allisson/reportgate/internal/token/usecase"
)

// Codec returns the download token codec, loading the signing secret on
// first access (decrypting it through the configured KMS keeper if any).
func (c *Container) Codec() (tokenService.Codec, error) {
	c.codecInit.Do(func() {
		secret, err := tokenService.LoadSigningSecret(
			context.Background(),
			c.config.SigningSecret,
			c.config.KMSKeyURI,
		)
		if err != nil {
			c.initErrors["codec"] = fmt.Errorf("failed to load signing secret: %w", err)
			return
		}
		c.codec = tokenService.NewHMACCodec(secret)
	})
	if err, exists := c.initErrors["codec"]; exists {
		return nil, err
	}
	return c.codec, nil
}

// Issuer returns the signed URL issuer, decorated with metrics.
func (c *Container) Issuer() (tokenUseCase.Issuer, error) {
	c.issuerInit.Do(func() {
		issuer, err := c.initIssuer()
		if err != nil {
			c.initErrors["issuer"] = err
			return
		}
		c.issuer = issuer
	})
	if err, exists := c.initErrors["issuer"]; exists {
		return nil, err
	}
	return c.issuer, nil
}

// Gate returns the download access gate, decorated with metrics.
func (c *Container) Gate() (tokenUseCase.Gate, error) {
	c.gateInit.Do(func() {
		gate, err := c.initGate()
		if err != nil {
			c.initErrors["gate"] = err
			return
		}
		c.gate = gate
	})
	if err, exists := c.initErrors["gate"]; exists {
		return nil, err
	}
	return c.gate, nil
}

func (c *Container) initIssuer() (tokenUseCase.Issuer, error) {
	codec, err := c.Codec()
	if err != nil {
		return nil, fmt.Errorf("failed to get codec for issuer: %w", err)
	}

	tenants, err := c.TenantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant use case for issuer: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for issuer: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for issuer: %w", err)
	}

	issuer := tokenUseCase.NewIssuerUseCase(
		codec,
		tenants,
		audit,
		c.config.ServerBaseURL,
		c.config.TokenDefaultTTL,
		c.config.TokenMaxTTL,
	)

	return tokenUseCase.NewIssuerWithMetrics(issuer, bm), nil
}

func (c *Container) initGate() (tokenUseCase.Gate, error) {
	codec, err := c.Codec()
	if err != nil {
		return nil, fmt.Errorf("failed to get codec for gate: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for gate: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for gate: %w", err)
	}

	return tokenUseCase.NewGateWithMetrics(tokenUseCase.NewGateUseCase(codec, audit), bm), nil
}
