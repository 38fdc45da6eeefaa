package app

import (
	"fmt"

	tenantUseCase "github.com/allisson/reportgate/internal/tenant/usecase"
)

// TenantUseCase returns the tenant registry use case. It also serves as the
// client directory consulted during signed URL issuance.
func (c *Container) TenantUseCase() (tenantUseCase.UseCase, error) {
	c.tenantInit.Do(func() {
		useCase, err := c.initTenantUseCase()
		if err != nil {
			c.initErrors["tenantUseCase"] = err
			return
		}
		c.tenantUseCase = useCase
	})
	if err, exists := c.initErrors["tenantUseCase"]; exists {
		return nil, err
	}
	return c.tenantUseCase, nil
}

func (c *Container) initTenantUseCase() (tenantUseCase.UseCase, error) {
	kvStore, err := c.KVStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get kv store for tenant use case: %w", err)
	}

	artifacts, err := c.ArtifactUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact use case for tenant use case: %w", err)
	}

	return tenantUseCase.NewTenantUseCase(kvStore, artifacts, c.Logger()), nil
}
