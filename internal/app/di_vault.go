package app

import (
	"fmt"

	vaultRepository "github.com/allisson/securevault/internal/vault/repository"
	vaultUsecase "github.com/allisson/securevault/internal/vault/usecase"
)

// VaultRepository returns the vault file repository.
func (c *Container) VaultRepository() *vaultRepository.FileRepository {
	c.vaultRepositoryInit.Do(func() {
		c.vaultRepository = vaultRepository.NewFileRepository()
	})
	return c.vaultRepository
}

// Opener returns the vault opener, instrumented with business metrics.
func (c *Container) Opener() (vaultUsecase.Opener, error) {
	var err error
	c.openerInit.Do(func() {
		c.opener, err = c.initOpener()
		if err != nil {
			c.initErrors["opener"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["opener"]; exists {
		return nil, storedErr
	}
	return c.opener, nil
}

// initOpener creates the vault opener with all its dependencies.
func (c *Container) initOpener() (vaultUsecase.Opener, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for opener: %w", err)
	}

	opener := vaultUsecase.NewOpener(
		c.VaultRepository(),
		c.KeyResolver(),
		c.SealerFactory(),
		c.KMSService(),
	)

	return vaultUsecase.NewOpenerWithMetrics(opener, businessMetrics), nil
}
