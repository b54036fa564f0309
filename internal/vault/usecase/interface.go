// Package usecase implements the vault façade: creating and loading vaults, resolving
// their keys, sealing and opening named secrets and persisting the result.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// VaultRepository defines the interface for vault persistence operations.
type VaultRepository interface {
	FromFile(path string) (*vaultDomain.Vault, error)
	Save(path string, vault *vaultDomain.Vault) error
}

// SecretsManager composes a Vault with its resolved KeyMaterial and its path.
//
// A SecretsManager exclusively owns its vault and keys. It is not safe for concurrent
// use; cross-process access to the same file is arbitrated by the caller with an
// advisory lock held from load to save.
type SecretsManager interface {
	// Path returns the vault path bound at New or Load.
	Path() string
	// Keys returns a copy of the resolved key material.
	Keys() *cryptoDomain.KeyMaterial
	// Info summarizes the vault without decrypting anything.
	Info(ctx context.Context) (*vaultDomain.Info, error)
	// Save recomputes the vault MAC and atomically writes the vault to its path.
	Save(ctx context.Context) error
	// ExportKeyfile writes the raw key material to path with owner-only permissions.
	ExportKeyfile(ctx context.Context, path string) error
	// ExportWrappedKeyfile writes the key material encrypted by the KMS keeper at
	// keeperURI. The result is loaded back with a WrappedFileKeySource.
	ExportWrappedKeyfile(ctx context.Context, path, keeperURI string) error
	// Set seals value under name, replacing any previous value.
	Set(ctx context.Context, name string, value []byte) error
	// Get opens the value stored under name.
	//
	// Security Note: callers should zero the returned slice with cryptoDomain.Zero
	// once done with it.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes name from the vault.
	Delete(ctx context.Context, name string) error
	// List returns the secret names in ascending order.
	List(ctx context.Context) ([]string, error)
	// Close wipes the key material. Every later call fails with ErrManagerClosed.
	Close()
}

// Opener creates and loads SecretsManagers.
type Opener interface {
	// New creates a fresh vault bound to path and resolves source against its new IV.
	// Nothing is written until Save.
	New(
		ctx context.Context,
		path string,
		source cryptoDomain.KeySource,
		alg cryptoDomain.Algorithm,
	) (SecretsManager, error)
	// Load reads the vault at path, resolves source against the stored IV and
	// verifies both the keys and the vault MAC.
	Load(ctx context.Context, path string, source cryptoDomain.KeySource) (SecretsManager, error)
}
