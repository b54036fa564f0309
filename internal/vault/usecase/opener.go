package usecase

import (
	"bytes"
	"context"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// sentinelAAD binds the sentinel entry. Secret names must start with a letter or digit,
// so no entry can share it.
var sentinelAAD = []byte("\x00securevault-sentinel")

type opener struct {
	vaultRepo     VaultRepository
	keyResolver   cryptoService.KeyResolver
	sealerFactory cryptoService.SealerFactory
	kmsService    cryptoService.KMSService
}

// NewOpener creates an Opener. kmsService is only needed for ExportWrappedKeyfile.
func NewOpener(
	vaultRepo VaultRepository,
	keyResolver cryptoService.KeyResolver,
	sealerFactory cryptoService.SealerFactory,
	kmsService cryptoService.KMSService,
) Opener {
	return &opener{
		vaultRepo:     vaultRepo,
		keyResolver:   keyResolver,
		sealerFactory: sealerFactory,
		kmsService:    kmsService,
	}
}

// New creates a fresh vault, resolves its keys and seals the sentinel.
func (o *opener) New(
	ctx context.Context,
	path string,
	source cryptoDomain.KeySource,
	alg cryptoDomain.Algorithm,
) (SecretsManager, error) {
	vault, err := vaultDomain.New(alg)
	if err != nil {
		return nil, err
	}

	m, err := o.bind(ctx, path, source, vault)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := m.sealer.Seal(vault.ID[:], sentinelAAD)
	if err != nil {
		m.Close()
		return nil, err
	}
	vault.Sentinel = vaultDomain.Entry{Nonce: nonce, Ciphertext: ciphertext}

	return m, nil
}

// Load reads the vault and proves the keys. A sentinel that does not open means the
// keys are wrong (ErrKeyMismatch); a MAC that does not verify afterwards means the file
// was modified (ErrIntegrity).
func (o *opener) Load(
	ctx context.Context,
	path string,
	source cryptoDomain.KeySource,
) (SecretsManager, error) {
	vault, err := o.vaultRepo.FromFile(path)
	if err != nil {
		return nil, err
	}

	m, err := o.bind(ctx, path, source, vault)
	if err != nil {
		return nil, err
	}

	plaintext, err := m.sealer.Open(vault.Sentinel.Ciphertext, vault.Sentinel.Nonce, sentinelAAD)
	if err != nil || !bytes.Equal(plaintext, vault.ID[:]) {
		m.Close()
		return nil, vaultDomain.ErrKeyMismatch
	}

	body, err := vaultDomain.Body(vault)
	if err != nil {
		m.Close()
		return nil, err
	}
	if !m.sealer.VerifyMAC(body, vault.MAC) {
		m.Close()
		return nil, vaultDomain.ErrIntegrity
	}

	return m, nil
}

func (o *opener) bind(
	ctx context.Context,
	path string,
	source cryptoDomain.KeySource,
	vault *vaultDomain.Vault,
) (*secretsManager, error) {
	keys, err := o.keyResolver.Resolve(ctx, source, vault.IV)
	if err != nil {
		return nil, err
	}

	if vault.IV == nil {
		keys.Zero()
		return nil, cryptoDomain.ErrMissingVaultIV
	}

	sealer, err := o.sealerFactory.NewSealer(keys, *vault.IV, vault.Algorithm)
	if err != nil {
		keys.Zero()
		return nil, err
	}

	return &secretsManager{
		path:       path,
		vault:      vault,
		keys:       keys,
		keySource:  cryptoDomain.DescribeKeySource(source),
		sealer:     sealer,
		vaultRepo:  o.vaultRepo,
		kmsService: o.kmsService,
	}, nil
}
