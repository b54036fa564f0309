// Package testutil provides fixtures shared by the vault tests: temporary vault paths,
// key files, local KMS keepers and on-disk tampering.
//
//	path := testutil.VaultPath(t)
//	keyfile := testutil.WriteKeyfile(t, keyBytes)
//	uri := testutil.LocalKeeperURI(t)
//	testutil.FlipByte(t, path, -1) // corrupt the MAC trailer
package testutil

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// VaultPath returns a vault path inside a fresh temporary directory. The file does not
// exist yet.
func VaultPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "secrets.vault")
}

// WriteKeyfile writes data to a key file in a fresh temporary directory and returns
// its path.
func WriteKeyfile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault.key")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// LocalKeeperURI returns a base64key:// keeper URI backed by a random 32-byte key. It
// needs no external service.
func LocalKeeperURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

// FlipByte flips the low bit of the byte at offset in the file at path. A negative
// offset counts from the end of the file.
func FlipByte(t *testing.T, path string, offset int) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if offset < 0 {
		offset += len(data)
	}
	require.Less(t, offset, len(data), "offset past end of file")
	data[offset] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0o600))
}
