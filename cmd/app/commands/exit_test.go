package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"key mismatch", vaultDomain.ErrKeyMismatch, ExitBadKey},
		{"unwrap failed", fmt.Errorf("load: %w", cryptoDomain.ErrKeyUnwrapFailed), ExitBadKey},
		{"integrity", vaultDomain.ErrIntegrity, ExitCorrupted},
		{"format", fmt.Errorf("load: %w", vaultDomain.ErrVaultFormat), ExitCorrupted},
		{"io", apperrors.IO(fs.ErrPermission, "failed to read vault"), ExitIO},
		{"invalid keyfile", cryptoDomain.ErrInvalidKeyfile, ExitFailure},
		{"not found", vaultDomain.ErrSecretNotFound, ExitFailure},
		{"unclassified", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Run("classified error gets a hint", func(t *testing.T) {
		out := Describe(vaultDomain.ErrKeyMismatch)
		assert.Contains(t, out, "error: key does not match vault")
		assert.Contains(t, out, "hint: the key does not open this vault")
	})

	t.Run("corrupted vault suggests a backup", func(t *testing.T) {
		assert.Contains(t, Describe(vaultDomain.ErrIntegrity), "restore it from a backup")
	})

	t.Run("unclassified error has no hint", func(t *testing.T) {
		assert.Equal(t, "error: boom", Describe(errors.New("boom")))
	})
}
