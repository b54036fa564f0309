package usecase

import (
	"context"
	"fmt"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	"github.com/allisson/securevault/internal/fsutil"
	customValidation "github.com/allisson/securevault/internal/validation"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// secretsManager implements the SecretsManager interface.
type secretsManager struct {
	path       string
	vault      *vaultDomain.Vault
	keys       *cryptoDomain.KeyMaterial
	keySource  string
	sealer     cryptoService.EntrySealer
	vaultRepo  VaultRepository
	kmsService cryptoService.KMSService
	closed     bool
}

func (m *secretsManager) Path() string {
	return m.path
}

func (m *secretsManager) Keys() *cryptoDomain.KeyMaterial {
	if m.closed {
		return nil
	}
	return m.keys.Clone()
}

func (m *secretsManager) Info(ctx context.Context) (*vaultDomain.Info, error) {
	if m.closed {
		return nil, vaultDomain.ErrManagerClosed
	}

	return &vaultDomain.Info{
		ID:        m.vault.ID,
		Path:      m.path,
		Algorithm: m.vault.Algorithm,
		IV:        m.vault.IV.String(),
		KeySource: m.keySource,
		Entries:   len(m.vault.Entries),
	}, nil
}

func (m *secretsManager) Save(ctx context.Context) error {
	if m.closed {
		return vaultDomain.ErrManagerClosed
	}

	body, err := vaultDomain.Body(m.vault)
	if err != nil {
		return err
	}
	m.vault.MAC = m.sealer.MAC(body)

	return m.vaultRepo.Save(m.path, m.vault)
}

func (m *secretsManager) ExportKeyfile(ctx context.Context, path string) error {
	if m.closed {
		return vaultDomain.ErrManagerClosed
	}
	return m.keys.Export(path)
}

func (m *secretsManager) ExportWrappedKeyfile(ctx context.Context, path, keeperURI string) error {
	if m.closed {
		return vaultDomain.ErrManagerClosed
	}

	err := validation.Validate(keeperURI, validation.Required, customValidation.KeeperURI)
	if err != nil {
		return customValidation.WrapValidationError(fmt.Errorf("kms key uri: %w", err))
	}
	if m.kmsService == nil {
		return cryptoDomain.ErrUnsupportedKeySource
	}

	keeper, err := m.kmsService.OpenKeeper(ctx, keeperURI)
	if err != nil {
		return customValidation.WrapValidationError(err)
	}
	defer func() { _ = keeper.Close() }()

	raw := m.keys.Bytes()
	defer cryptoDomain.Zero(raw)

	wrapped, err := keeper.Encrypt(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to wrap key material: %w", err)
	}

	return fsutil.WriteFileAtomic(path, wrapped, fsutil.FilePermissions)
}

func (m *secretsManager) Set(ctx context.Context, name string, value []byte) error {
	if m.closed {
		return vaultDomain.ErrManagerClosed
	}
	if err := validateSecretName(name); err != nil {
		return err
	}

	ciphertext, nonce, err := m.sealer.Seal(value, []byte(name))
	if err != nil {
		return err
	}

	m.vault.Entries[name] = vaultDomain.Entry{Nonce: nonce, Ciphertext: ciphertext}
	return nil
}

func (m *secretsManager) Get(ctx context.Context, name string) ([]byte, error) {
	if m.closed {
		return nil, vaultDomain.ErrManagerClosed
	}
	if err := validateSecretName(name); err != nil {
		return nil, err
	}

	entry, ok := m.vault.Entries[name]
	if !ok {
		return nil, vaultDomain.ErrSecretNotFound
	}

	return m.sealer.Open(entry.Ciphertext, entry.Nonce, []byte(name))
}

func (m *secretsManager) Delete(ctx context.Context, name string) error {
	if m.closed {
		return vaultDomain.ErrManagerClosed
	}
	if err := validateSecretName(name); err != nil {
		return err
	}

	if _, ok := m.vault.Entries[name]; !ok {
		return vaultDomain.ErrSecretNotFound
	}
	delete(m.vault.Entries, name)
	return nil
}

func (m *secretsManager) List(ctx context.Context) ([]string, error) {
	if m.closed {
		return nil, vaultDomain.ErrManagerClosed
	}
	return m.vault.Names(), nil
}

func (m *secretsManager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.sealer.Close()
	m.keys.Zero()
}

func validateSecretName(name string) error {
	err := validation.Validate(
		name,
		validation.Required,
		validation.Length(1, customValidation.MaxSecretNameLength),
		customValidation.SecretName,
	)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", vaultDomain.ErrInvalidSecretName, name, err)
	}
	return nil
}
