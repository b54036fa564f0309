package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
)

// KeyResolverService implements KeyResolver.
//
// Resolution has exactly three outcomes per source: KeyMaterial, a classified error, or
// (for CSPRNG failure) ErrRandomSource. It never falls back to weaker material.
type KeyResolverService struct {
	kmsService KMSService
	random     io.Reader
}

// NewKeyResolver creates a KeyResolverService. kmsService is only used by
// WrappedFileKeySource and may be nil when wrapped key files are not needed.
func NewKeyResolver(kmsService KMSService) *KeyResolverService {
	return &KeyResolverService{
		kmsService: kmsService,
		random:     rand.Reader,
	}
}

// Resolve obtains KeyMaterial for source. Password sources are salted with iv and fail
// with ErrMissingVaultIV when iv is nil.
func (r *KeyResolverService) Resolve(
	ctx context.Context,
	source cryptoDomain.KeySource,
	iv *cryptoDomain.IV,
) (*cryptoDomain.KeyMaterial, error) {
	switch src := source.(type) {
	case cryptoDomain.GenerateKeySource, *cryptoDomain.GenerateKeySource:
		return r.generate()
	case cryptoDomain.FileKeySource:
		return r.fromFile(src.Path)
	case *cryptoDomain.FileKeySource:
		return r.fromFile(src.Path)
	case cryptoDomain.PasswordKeySource:
		return r.fromPassword(src.Password, iv)
	case *cryptoDomain.PasswordKeySource:
		return r.fromPassword(src.Password, iv)
	case cryptoDomain.WrappedFileKeySource:
		return r.fromWrappedFile(ctx, src.Path, src.KeeperURI)
	case *cryptoDomain.WrappedFileKeySource:
		return r.fromWrappedFile(ctx, src.Path, src.KeeperURI)
	default:
		return nil, cryptoDomain.ErrUnsupportedKeySource
	}
}

func (r *KeyResolverService) generate() (*cryptoDomain.KeyMaterial, error) {
	buf := make([]byte, cryptoDomain.KeyMaterialSize)
	defer cryptoDomain.Zero(buf)

	if _, err := io.ReadFull(r.random, buf); err != nil {
		return nil, fmt.Errorf("%w: key generation failed: %v", cryptoDomain.ErrRandomSource, err)
	}

	return cryptoDomain.ImportKeyBytes(buf)
}

func (r *KeyResolverService) fromFile(path string) (*cryptoDomain.KeyMaterial, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.IO(err, "failed to stat keyfile")
	}

	// A size check before reading rejects truncated and oversized files up front.
	if info.Size() != cryptoDomain.KeyMaterialSize {
		return nil, fmt.Errorf(
			"%w: %s is %d bytes, expected %d",
			cryptoDomain.ErrInvalidKeyfile,
			path,
			info.Size(),
			cryptoDomain.KeyMaterialSize,
		)
	}

	// #nosec G304 -- keyfile path is supplied by the user on purpose
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.IO(err, "failed to open keyfile")
	}
	defer func() { _ = file.Close() }()

	return cryptoDomain.ImportKeys(file)
}

func (r *KeyResolverService) fromPassword(
	password string,
	iv *cryptoDomain.IV,
) (*cryptoDomain.KeyMaterial, error) {
	if iv == nil {
		return nil, cryptoDomain.ErrMissingVaultIV
	}
	if password == "" {
		return nil, cryptoDomain.ErrEmptyPassword
	}

	keyData := pbkdf2.Key(
		[]byte(password),
		iv[:],
		cryptoDomain.PBKDF2Rounds,
		cryptoDomain.KeyMaterialSize,
		sha256.New,
	)
	defer cryptoDomain.Zero(keyData)

	return cryptoDomain.ImportKeyBytes(keyData)
}

func (r *KeyResolverService) fromWrappedFile(
	ctx context.Context,
	path, keeperURI string,
) (*cryptoDomain.KeyMaterial, error) {
	if r.kmsService == nil || keeperURI == "" {
		return nil, fmt.Errorf("%w: wrapped keyfile requires a KMS key URI", cryptoDomain.ErrUnsupportedKeySource)
	}

	// #nosec G304 -- keyfile path is supplied by the user on purpose
	wrapped, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.IO(err, "failed to read wrapped keyfile")
	}

	keeper, err := r.kmsService.OpenKeeper(ctx, keeperURI)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open keeper: %v", apperrors.ErrInvalidInput, err)
	}
	defer func() { _ = keeper.Close() }()

	keyData, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyUnwrapFailed, err)
	}
	defer cryptoDomain.Zero(keyData)

	return cryptoDomain.ImportKeyBytes(keyData)
}
