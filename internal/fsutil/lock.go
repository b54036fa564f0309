package fsutil

import (
	"os"

	apperrors "github.com/allisson/securevault/internal/errors"
)

// LockSuffix is appended to a vault path to name its lock file.
const LockSuffix = ".lock"

// FileLock is an exclusive advisory lock held on a sidecar lock file. The vault core
// never takes it; callers that share a vault file between processes acquire it around
// load and save.
type FileLock struct {
	file *os.File
	path string
}

// Lock blocks until an exclusive advisory lock on path+LockSuffix is held.
func Lock(path string) (*FileLock, error) {
	lockPath := path + LockSuffix
	// #nosec G304 -- lock path is derived from the vault path chosen by the caller
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, FilePermissions)
	if err != nil {
		return nil, apperrors.IO(err, "failed to open lock file")
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, apperrors.IO(err, "failed to acquire lock")
	}

	return &FileLock{file: f, path: lockPath}, nil
}

// Path returns the lock file location.
func (l *FileLock) Path() string {
	return l.path
}

// Unlock releases the lock. The lock file is left in place so that concurrent lockers
// always contend on the same inode.
func (l *FileLock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if unlockErr != nil {
		return apperrors.IO(unlockErr, "failed to release lock")
	}
	if closeErr != nil {
		return apperrors.IO(closeErr, "failed to close lock file")
	}
	return nil
}
