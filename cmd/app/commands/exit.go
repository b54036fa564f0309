package commands

import (
	"fmt"

	apperrors "github.com/allisson/securevault/internal/errors"
)

// Process exit codes by error class.
const (
	ExitFailure   = 1
	ExitBadKey    = 2
	ExitCorrupted = 3
	ExitIO        = 4
)

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return ExitBadKey
	case apperrors.Is(err, apperrors.ErrCorrupted):
		return ExitCorrupted
	case apperrors.Is(err, apperrors.ErrIO):
		return ExitIO
	default:
		return ExitFailure
	}
}

// Remediation returns a hint telling the user how to recover from err, or "" when
// there is nothing specific to suggest.
func Remediation(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return "the key does not open this vault; check the password, key file or KMS key URI"
	case apperrors.Is(err, apperrors.ErrCorrupted):
		return "the vault file is damaged or was modified after it was saved; restore it from a backup"
	case apperrors.Is(err, apperrors.ErrIO):
		return "a file could not be accessed; check the path and its permissions"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "run 'securevault list' to see the stored secret names"
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return "run 'securevault help' for usage"
	default:
		return ""
	}
}

// Describe formats err and its remediation for the terminal.
func Describe(err error) string {
	if hint := Remediation(err); hint != "" {
		return fmt.Sprintf("error: %v\nhint: %s", err, hint)
	}
	return fmt.Sprintf("error: %v", err)
}
