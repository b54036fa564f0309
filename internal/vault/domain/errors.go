package domain

import (
	"github.com/allisson/securevault/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrVaultFormat indicates the file is not a well-formed vault: bad magic, unknown
	// version or algorithm, truncated fields, trailing bytes or invalid entry names.
	ErrVaultFormat = errors.Wrap(errors.ErrCorrupted, "invalid vault format")

	// ErrIntegrity indicates the vault MAC did not verify. The file was modified after
	// it was saved.
	ErrIntegrity = errors.Wrap(errors.ErrCorrupted, "vault integrity check failed")

	// ErrKeyMismatch indicates the supplied key material does not open the vault
	// (wrong password or key file).
	ErrKeyMismatch = errors.Wrap(errors.ErrUnauthorized, "key does not match vault")

	// ErrSecretNotFound indicates no entry exists under the requested name.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrInvalidSecretName indicates a secret name failed validation.
	ErrInvalidSecretName = errors.Wrap(errors.ErrInvalidInput, "invalid secret name")

	// ErrManagerClosed indicates an operation on a SecretsManager after Close.
	ErrManagerClosed = errors.New("secrets manager is closed")
)
