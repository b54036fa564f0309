//go:build !unix

package fsutil

import (
	"os"
)

const lockingSupported = false

// Advisory locking is only implemented on unix; elsewhere the lock file is created but
// no OS lock is taken.
func lockFile(_ *os.File) error {
	return nil
}

func unlockFile(_ *os.File) error {
	return nil
}
