// Package repository implements vault persistence on the local filesystem.
package repository

import (
	"os"

	apperrors "github.com/allisson/securevault/internal/errors"
	"github.com/allisson/securevault/internal/fsutil"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// Unlocker releases a lock obtained from FileRepository.Lock.
type Unlocker interface {
	Unlock() error
}

// FileRepository reads and writes vault files.
type FileRepository struct{}

// NewFileRepository creates a FileRepository.
func NewFileRepository() *FileRepository {
	return &FileRepository{}
}

// FromFile reads and parses the vault at path. A missing or unreadable file is
// ErrIO (fs.ErrNotExist stays in the chain); a malformed one is ErrVaultFormat.
func (r *FileRepository) FromFile(path string) (*vaultDomain.Vault, error) {
	// #nosec G304 -- vault path is supplied by the user on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.IO(err, "failed to read vault")
	}

	return vaultDomain.Unmarshal(data)
}

// Save encodes the vault and atomically replaces the file at path. The vault MAC must
// already be computed. On failure the previous file is left intact.
func (r *FileRepository) Save(path string, vault *vaultDomain.Vault) error {
	data, err := vaultDomain.Marshal(vault)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, fsutil.FilePermissions)
}

// Lock takes the advisory lock guarding path against other processes.
func (r *FileRepository) Lock(path string) (Unlocker, error) {
	lock, err := fsutil.Lock(path)
	if err != nil {
		return nil, err
	}
	return lock, nil
}
