// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/securevault/internal/app"
	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
	vaultRepository "github.com/allisson/securevault/internal/vault/repository"
	vaultUsecase "github.com/allisson/securevault/internal/vault/usecase"
)

// IOTuple holds reader and writers for commands, allowing for testing.
type IOTuple struct {
	Reader    io.Reader
	Writer    io.Writer
	ErrWriter io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin, os.Stdout and os.Stderr.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader:    os.Stdin,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
	}
}

// Locker takes the advisory lock guarding a vault path.
type Locker interface {
	Lock(path string) (vaultRepository.Unlocker, error)
}

type noopLocker struct{}

func (noopLocker) Lock(string) (vaultRepository.Unlocker, error) {
	return noopUnlocker{}, nil
}

type noopUnlocker struct{}

func (noopUnlocker) Unlock() error { return nil }

// NewLocker returns repo when locking is enabled and a locker that does nothing otherwise.
func NewLocker(repo *vaultRepository.FileRepository, enabled bool) Locker {
	if !enabled {
		return noopLocker{}
	}
	return repo
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// CloseContainer is closeContainer for callers outside this package.
func CloseContainer(container *app.Container) {
	closeContainer(container, container.Logger())
}

// withLockedVault loads the vault at path while holding its lock, runs fn and saves the
// result before releasing the lock.
func withLockedVault(
	ctx context.Context,
	opener vaultUsecase.Opener,
	locker Locker,
	logger *slog.Logger,
	path string,
	source cryptoDomain.KeySource,
	fn func(manager vaultUsecase.SecretsManager) error,
) error {
	lock, err := locker.Lock(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Error("failed to release vault lock", slog.String("path", path), slog.Any("error", err))
		}
	}()

	manager, err := opener.Load(ctx, path, source)
	if err != nil {
		return err
	}
	defer manager.Close()

	if err := fn(manager); err != nil {
		return err
	}

	return manager.Save(ctx)
}

// withVault loads the vault at path without locking, for read-only commands.
func withVault(
	ctx context.Context,
	opener vaultUsecase.Opener,
	path string,
	source cryptoDomain.KeySource,
	fn func(manager vaultUsecase.SecretsManager) error,
) error {
	manager, err := opener.Load(ctx, path, source)
	if err != nil {
		return err
	}
	defer manager.Close()

	return fn(manager)
}

// validateFormat checks the output format flag.
func validateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("%w: invalid format: %s (valid options: text, json)", apperrors.ErrInvalidInput, format)
	}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
