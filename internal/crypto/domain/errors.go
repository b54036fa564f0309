package domain

import (
	"github.com/allisson/securevault/internal/errors"
)

// Key management error definitions.
//
// Each error wraps one of the shared sentinels in internal/errors so callers can tell a
// bad key ("unauthorized" / "invalid input") apart from a disk problem ("i/o error").
var (
	// ErrInvalidKeyfile indicates a key file or key buffer is not exactly
	// KeyMaterialSize bytes. Malformed material is never truncated or padded.
	ErrInvalidKeyfile = errors.Wrap(errors.ErrInvalidInput, "invalid keyfile")

	// ErrMissingVaultIV indicates password derivation was attempted before the vault
	// IV was established.
	ErrMissingVaultIV = errors.Wrap(errors.ErrInvalidInput, "missing vault iv")

	// ErrEmptyPassword indicates a password key source with an empty password.
	ErrEmptyPassword = errors.Wrap(errors.ErrInvalidInput, "empty password")

	// ErrUnsupportedKeySource indicates a KeySource variant the resolver does not know.
	ErrUnsupportedKeySource = errors.Wrap(errors.ErrInvalidInput, "unsupported key source")

	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates an AEAD key of the wrong length.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrRandomSource indicates the system CSPRNG failed. Callers must abort; there is
	// no fallback source.
	ErrRandomSource = errors.New("secure random source failure")

	// ErrKeyUnwrapFailed indicates a KMS keeper refused to decrypt a wrapped key file.
	ErrKeyUnwrapFailed = errors.Wrap(errors.ErrUnauthorized, "key unwrap failed")

	// ErrDecryptionFailed indicates an AEAD open failed: wrong key, tampered
	// ciphertext or wrong associated data. The cause is deliberately not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrUnauthorized, "decryption failed")
)
