// Package fsutil holds the filesystem primitives shared by vault persistence and key
// export: crash-safe atomic writes with restrictive permissions and an advisory lock.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/allisson/securevault/internal/errors"
)

const (
	// FilePermissions is applied to every file holding vault or key material.
	FilePermissions os.FileMode = 0600
	// DirPermissions is used when a missing parent directory has to be created.
	DirPermissions os.FileMode = 0700
)

// WriteFileAtomic replaces path with data so that a reader observes either the old
// contents or the new contents, never a partial write. The data goes to a temporary file
// in the same directory, is fsynced, gets perm applied and is renamed over path. The
// parent directory is synced afterwards so the rename itself survives a crash.
//
// All failures are classified as apperrors.ErrIO; the temporary file is removed on any
// error and the previous file at path is left untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.IO(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return apperrors.IO(err, "failed to write to temp file")
	}

	if err = tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return apperrors.IO(err, "failed to sync temp file")
	}

	if err = tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.IO(err, "failed to close temp file")
	}

	if err = os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.IO(err, "failed to set permissions")
	}

	if err = os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.IO(err, "failed to rename temp file")
	}

	syncDir(dir)
	return nil
}

// EnsureDir creates dir (and parents) with DirPermissions when it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return apperrors.IO(err, fmt.Sprintf("failed to create directory %s", dir))
	}
	return nil
}

// syncDir flushes directory metadata. Not every platform supports fsync on a directory,
// so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
