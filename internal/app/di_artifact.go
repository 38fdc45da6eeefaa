package app

import (
	"context"
	"fmt"

	artifactService "github.com/allisson/reportgate/internal/artifact/service"
	artifactUseCase "github.com/allisson/reportgate/internal/artifact/usecase"
	auditUseCase "github.com/allisson/reportgate/internal/audit/usecase"
)

// BlobStore returns the artifact blob store for the configured bucket URL.
func (c *Container) BlobStore() (artifactService.BlobStore, error) {
	c.blobStoreInit.Do(func() {
		blobStore, err := artifactService.NewBlobStore(context.Background(), c.config.ArtifactBucketURL)
		if err != nil {
			c.initErrors["blobStore"] = fmt.Errorf("failed to open artifact bucket: %w", err)
			return
		}
		c.blobStore = blobStore
	})
	if err, exists := c.initErrors["blobStore"]; exists {
		return nil, err
	}
	return c.blobStore, nil
}

// ArtifactUseCase returns the artifact use case.
func (c *Container) ArtifactUseCase() (artifactUseCase.UseCase, error) {
	c.artifactInit.Do(func() {
		useCase, err := c.initArtifactUseCase()
		if err != nil {
			c.initErrors["artifactUseCase"] = err
			return
		}
		c.artifactUseCase = useCase
	})
	if err, exists := c.initErrors["artifactUseCase"]; exists {
		return nil, err
	}
	return c.artifactUseCase, nil
}

// AuditUseCase returns the audit trail use case.
func (c *Container) AuditUseCase() (auditUseCase.UseCase, error) {
	c.auditInit.Do(func() {
		kvStore, err := c.KVStore()
		if err != nil {
			c.initErrors["auditUseCase"] = fmt.Errorf("failed to get kv store for audit use case: %w", err)
			return
		}
		c.auditUseCase = auditUseCase.NewAuditUseCase(kvStore, c.config.AuditRetention, c.Logger())
	})
	if err, exists := c.initErrors["auditUseCase"]; exists {
		return nil, err
	}
	return c.auditUseCase, nil
}

func (c *Container) initArtifactUseCase() (artifactUseCase.UseCase, error) {
	blobStore, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for artifact use case: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for artifact use case: %w", err)
	}

	return artifactUseCase.NewArtifactUseCase(blobStore, audit), nil
}
