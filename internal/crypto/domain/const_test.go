package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, 32, KeyMaterialSize)
	assert.Equal(t, 16, IVSize)
	assert.GreaterOrEqual(t, PBKDF2Rounds, 100000)
}

func TestParseAlgorithm(t *testing.T) {
	t.Run("aes-gcm", func(t *testing.T) {
		alg, err := ParseAlgorithm("aes-gcm")
		require.NoError(t, err)
		assert.Equal(t, AESGCM, alg)
	})

	t.Run("chacha20-poly1305", func(t *testing.T) {
		alg, err := ParseAlgorithm("chacha20-poly1305")
		require.NoError(t, err)
		assert.Equal(t, ChaCha20, alg)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := ParseAlgorithm("rot13")
		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	})
}

func TestNewIV(t *testing.T) {
	a, err := NewIV()
	require.NoError(t, err)
	b, err := NewIV()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a.String(), IVSize*2)
}

func TestDescribeKeySource(t *testing.T) {
	assert.Equal(t, "file", DescribeKeySource(FileKeySource{Path: "k"}))
	assert.Equal(t, "password", DescribeKeySource(PasswordKeySource{Password: "secret"}))
	assert.Equal(t, "generate", DescribeKeySource(GenerateKeySource{}))
	assert.Equal(t, "wrapped-file", DescribeKeySource(&WrappedFileKeySource{}))
	assert.Equal(t, "unknown", DescribeKeySource(nil))
}
