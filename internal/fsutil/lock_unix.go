//go:build unix

package fsutil

import (
	"os"

	"golang.org/x/sys/unix"
)

const lockingSupported = true

func lockFile(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_EX)
}

func unlockFile(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_UN)
}
