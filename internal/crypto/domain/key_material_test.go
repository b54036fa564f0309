package domain

import (
	"bytes"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/securevault/internal/errors"
)

func randomKeyBytes(t *testing.T) []byte {
	t.Helper()
	b := make([]byte, KeyMaterialSize)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestImportKeyBytes(t *testing.T) {
	t.Run("splits buffer into slots in order", func(t *testing.T) {
		raw := make([]byte, KeyMaterialSize)
		for i := range raw {
			raw[i] = byte(i)
		}

		km, err := ImportKeyBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, raw[:KeyLength], km.EncryptionKey())
		assert.Equal(t, raw[KeyLength:], km.AuthenticationKey())
		assert.Equal(t, raw, km.Bytes())
	})

	t.Run("rejects every wrong length", func(t *testing.T) {
		for _, size := range []int{0, 1, KeyLength, KeyMaterialSize - 1, KeyMaterialSize + 1, 64} {
			km, err := ImportKeyBytes(make([]byte, size))
			assert.ErrorIs(t, err, ErrInvalidKeyfile, "size %d", size)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "size %d", size)
			assert.Nil(t, km, "size %d", size)
		}
	})

	t.Run("does not alias the input buffer", func(t *testing.T) {
		raw := randomKeyBytes(t)
		km, err := ImportKeyBytes(raw)
		require.NoError(t, err)

		want := bytes.Clone(raw)
		Zero(raw)
		assert.Equal(t, want, km.Bytes())
	})
}

func TestImportKeys(t *testing.T) {
	t.Run("exact stream", func(t *testing.T) {
		raw := randomKeyBytes(t)
		km, err := ImportKeys(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, km.Bytes())
	})

	t.Run("one byte short", func(t *testing.T) {
		_, err := ImportKeys(bytes.NewReader(make([]byte, KeyMaterialSize-1)))
		assert.ErrorIs(t, err, ErrInvalidKeyfile)
	})

	t.Run("empty stream", func(t *testing.T) {
		_, err := ImportKeys(bytes.NewReader(nil))
		assert.ErrorIs(t, err, ErrInvalidKeyfile)
	})

	t.Run("one byte too many", func(t *testing.T) {
		_, err := ImportKeys(bytes.NewReader(make([]byte, KeyMaterialSize+1)))
		assert.ErrorIs(t, err, ErrInvalidKeyfile)
	})

	t.Run("read failure is an io error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := ImportKeys(iotest.ErrReader(boom))
		assert.ErrorIs(t, err, apperrors.ErrIO)
		assert.ErrorIs(t, err, boom)
	})
}

func TestKeyMaterial_ExportRoundTrip(t *testing.T) {
	raw := randomKeyBytes(t)
	km, err := ImportKeyBytes(raw)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vault.key")
	require.NoError(t, km.Export(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	reimported, err := ImportKeys(f)
	require.NoError(t, err)
	assert.True(t, km.Equal(reimported))
}

func TestKeyMaterial_ExportToMissingDirectory(t *testing.T) {
	km, err := ImportKeyBytes(randomKeyBytes(t))
	require.NoError(t, err)

	err = km.Export(filepath.Join(t.TempDir(), "nope", "vault.key"))
	assert.ErrorIs(t, err, apperrors.ErrIO)
}

func TestKeyMaterial_Equal(t *testing.T) {
	raw := randomKeyBytes(t)
	a, err := ImportKeyBytes(raw)
	require.NoError(t, err)
	b, err := ImportKeyBytes(raw)
	require.NoError(t, err)
	c, err := ImportKeyBytes(randomKeyBytes(t))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	var nilKM *KeyMaterial
	assert.True(t, nilKM.Equal(nil))
}

func TestKeyMaterial_Zero(t *testing.T) {
	km, err := ImportKeyBytes(randomKeyBytes(t))
	require.NoError(t, err)

	km.Zero()
	assert.Equal(t, make([]byte, KeyMaterialSize), km.Bytes())

	var nilKM *KeyMaterial
	assert.NotPanics(t, func() { nilKM.Zero() })
}

func TestKeyMaterial_AccessorsReturnCopies(t *testing.T) {
	km, err := ImportKeyBytes(randomKeyBytes(t))
	require.NoError(t, err)

	enc := km.EncryptionKey()
	Zero(enc)
	assert.NotEqual(t, make([]byte, KeyLength), km.EncryptionKey())
}

func TestKeyMaterial_Clone(t *testing.T) {
	km, err := ImportKeyBytes(randomKeyBytes(t))
	require.NoError(t, err)

	clone := km.Clone()
	require.True(t, km.Equal(clone))

	km.Zero()
	assert.NotEqual(t, make([]byte, KeyMaterialSize), clone.Bytes())

	var nilKM *KeyMaterial
	assert.Nil(t, nilKM.Clone())
}
