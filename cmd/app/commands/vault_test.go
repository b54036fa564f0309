package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
	vaultMocks "github.com/allisson/securevault/internal/vault/usecase/mocks"
)

const testVaultPath = "secrets.vault"

var testSource = cryptoDomain.PasswordKeySource{Password: "hunter2"}

// loadedManager returns an opener that loads a mock manager expected to be closed.
func loadedManager(ctx context.Context) (*vaultMocks.MockOpener, *vaultMocks.MockSecretsManager) {
	manager := &vaultMocks.MockSecretsManager{}
	manager.On("Close").Return().Once()
	opener := &vaultMocks.MockOpener{}
	opener.On("Load", ctx, testVaultPath, testSource).Return(manager, nil).Once()
	return opener, manager
}

func TestRunInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("text", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Info", ctx).Return(testInfo(testVaultPath, 3), nil)

		var out bytes.Buffer
		require.NoError(t, RunInfo(ctx, opener, &out, testVaultPath, testSource, "text"))
		assert.Contains(t, out.String(), "Entries:    3\n")
		assert.Contains(t, out.String(), "Path:       secrets.vault\n")
		manager.AssertExpectations(t)
	})

	t.Run("load error is returned unchanged", func(t *testing.T) {
		opener := &vaultMocks.MockOpener{}
		opener.On("Load", ctx, testVaultPath, testSource).Return(nil, vaultDomain.ErrKeyMismatch)

		err := RunInfo(ctx, opener, &bytes.Buffer{}, testVaultPath, testSource, "text")
		require.ErrorIs(t, err, vaultDomain.ErrKeyMismatch)
	})
}

func TestRunSet(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("value flag", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Set", ctx, "db/password", []byte("s3cret")).Return(nil).Once()
		manager.On("Save", ctx).Return(nil).Once()
		locker, unlocker := expectLock(testVaultPath)

		err := RunSet(ctx, opener, locker, logger, strings.NewReader("ignored"),
			testVaultPath, testSource, "db/password", []byte("s3cret"))
		require.NoError(t, err)
		manager.AssertExpectations(t)
		unlocker.AssertExpectations(t)
	})

	t.Run("value from reader drops one trailing newline", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Set", ctx, "api-token", []byte("line1\nline2")).Return(nil).Once()
		manager.On("Save", ctx).Return(nil).Once()
		locker, _ := expectLock(testVaultPath)

		err := RunSet(ctx, opener, locker, logger, strings.NewReader("line1\nline2\n"),
			testVaultPath, testSource, "api-token", nil)
		require.NoError(t, err)
		manager.AssertExpectations(t)
	})

	t.Run("set failure skips save and releases the lock", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Set", ctx, "bad name", mock.Anything).Return(vaultDomain.ErrInvalidSecretName)
		locker, unlocker := expectLock(testVaultPath)

		err := RunSet(ctx, opener, locker, logger, nil, testVaultPath, testSource, "bad name", []byte("v"))
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
		manager.AssertNotCalled(t, "Save", ctx)
		manager.AssertExpectations(t)
		unlocker.AssertExpectations(t)
	})
}

func TestRunGet(t *testing.T) {
	ctx := context.Background()

	t.Run("text writes raw bytes", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Get", ctx, "api-token").Return([]byte("tok-123"), nil)

		var out bytes.Buffer
		require.NoError(t, RunGet(ctx, opener, &out, testVaultPath, testSource, "api-token", "text"))
		assert.Equal(t, "tok-123", out.String())
		manager.AssertExpectations(t)
	})

	t.Run("json utf8", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Get", ctx, "api-token").Return([]byte("tok-123"), nil)

		var out bytes.Buffer
		require.NoError(t, RunGet(ctx, opener, &out, testVaultPath, testSource, "api-token", "json"))

		var got secretOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, secretOutput{Name: "api-token", Value: "tok-123"}, got)
	})

	t.Run("json binary is base64", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Get", ctx, "blob").Return([]byte{0xff, 0x00, 0xfe}, nil)

		var out bytes.Buffer
		require.NoError(t, RunGet(ctx, opener, &out, testVaultPath, testSource, "blob", "json"))

		var got secretOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, secretOutput{Name: "blob", Value: "/wD+", Encoding: "base64"}, got)
	})

	t.Run("not found", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Get", ctx, "missing").Return(nil, vaultDomain.ErrSecretNotFound)

		err := RunGet(ctx, opener, &bytes.Buffer{}, testVaultPath, testSource, "missing", "text")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		manager.AssertExpectations(t)
	})
}

func TestRunDelete(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("success", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Delete", ctx, "api-token").Return(nil).Once()
		manager.On("Save", ctx).Return(nil).Once()
		locker, unlocker := expectLock(testVaultPath)

		require.NoError(t, RunDelete(ctx, opener, locker, logger, testVaultPath, testSource, "api-token"))
		manager.AssertExpectations(t)
		unlocker.AssertExpectations(t)
	})

	t.Run("save failure is reported", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("Delete", ctx, "api-token").Return(nil)
		manager.On("Save", ctx).Return(apperrors.IO(assert.AnError, "failed to write vault"))
		locker, _ := expectLock(testVaultPath)

		err := RunDelete(ctx, opener, locker, logger, testVaultPath, testSource, "api-token")
		require.ErrorIs(t, err, apperrors.ErrIO)
	})
}

func TestRunList(t *testing.T) {
	ctx := context.Background()

	t.Run("text one name per line", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("List", ctx).Return([]string{"a", "b/c"}, nil)

		var out bytes.Buffer
		require.NoError(t, RunList(ctx, opener, &out, testVaultPath, testSource, "text"))
		assert.Equal(t, "a\nb/c\n", out.String())
	})

	t.Run("json empty vault", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("List", ctx).Return(nil, nil)

		var out bytes.Buffer
		require.NoError(t, RunList(ctx, opener, &out, testVaultPath, testSource, "json"))
		assert.JSONEq(t, `{"secrets": []}`, out.String())
	})
}

func TestRunExportKey(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("both targets", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("ExportKeyfile", ctx, "out.key").Return(nil).Once()
		manager.On("ExportWrappedKeyfile", ctx, "out.wkey", "base64key://abc").Return(nil).Once()

		err := RunExportKey(ctx, opener, logger, testVaultPath, testSource, "out.key", "out.wkey", "base64key://abc")
		require.NoError(t, err)
		manager.AssertExpectations(t)
	})

	t.Run("no target", func(t *testing.T) {
		err := RunExportKey(ctx, &vaultMocks.MockOpener{}, logger, testVaultPath, testSource, "", "", "")
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("wrapped without uri", func(t *testing.T) {
		err := RunExportKey(ctx, &vaultMocks.MockOpener{}, logger, testVaultPath, testSource, "", "out.wkey", "")
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "requires --kms-key-uri")
	})

	t.Run("export failure", func(t *testing.T) {
		opener, manager := loadedManager(ctx)
		manager.On("ExportKeyfile", ctx, "out.key").Return(apperrors.IO(assert.AnError, "failed to write keyfile"))

		err := RunExportKey(ctx, opener, logger, testVaultPath, testSource, "out.key", "", "")
		require.ErrorIs(t, err, apperrors.ErrIO)
		assert.Contains(t, err.Error(), "failed to export keyfile")
	})
}
