// Package service provides the cryptographic services behind a vault: resolving a
// KeySource into KeyMaterial, AEAD ciphers for entries, HKDF subkeys, the vault MAC and
// KMS keepers for wrapped key files.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh
	// random nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length the cipher expects.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyResolver turns a KeySource into KeyMaterial.
type KeyResolver interface {
	// Resolve obtains KeyMaterial from source. iv is the vault IV; it is required by
	// password sources and ignored by the others.
	Resolve(
		ctx context.Context,
		source cryptoDomain.KeySource,
		iv *cryptoDomain.IV,
	) (*cryptoDomain.KeyMaterial, error)
}

// EntrySealer encrypts and authenticates vault contents with subkeys derived from
// KeyMaterial and the vault IV.
type EntrySealer interface {
	// Seal encrypts value bound to aad under a fresh nonce.
	Seal(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Open decrypts and authenticates ciphertext. Any failure is ErrDecryptionFailed.
	Open(ciphertext, nonce, aad []byte) ([]byte, error)

	// MAC computes the vault authentication tag over body.
	MAC(body []byte) []byte

	// VerifyMAC checks tag against body in constant time.
	VerifyMAC(body, tag []byte) bool

	// Close wipes the derived subkeys.
	Close()
}

// SealerFactory builds an EntrySealer for one vault.
type SealerFactory interface {
	NewSealer(
		keys *cryptoDomain.KeyMaterial,
		iv cryptoDomain.IV,
		alg cryptoDomain.Algorithm,
	) (EntrySealer, error)
}
