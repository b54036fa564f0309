package app

import (
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyResolver returns the key source resolver.
func (c *Container) KeyResolver() cryptoService.KeyResolver {
	c.keyResolverInit.Do(func() {
		c.keyResolver = cryptoService.NewKeyResolver(c.KMSService())
	})
	return c.keyResolver
}

// SealerFactory returns the entry sealer factory.
func (c *Container) SealerFactory() cryptoService.SealerFactory {
	c.sealerFactoryInit.Do(func() {
		c.sealerFactory = cryptoService.NewSealerFactory(c.AEADManager())
	})
	return c.sealerFactory
}
