package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
	vaultUsecase "github.com/allisson/securevault/internal/vault/usecase"
)

// RunCreate creates a new vault at vaultPath. Generated keys are exported before the
// vault is written so that a failed export never leaves an unopenable vault behind.
// An existing vault is never overwritten.
func RunCreate(
	ctx context.Context,
	opener vaultUsecase.Opener,
	locker Locker,
	logger *slog.Logger,
	writer io.Writer,
	vaultPath string,
	algorithmStr string,
	plan *CreatePlan,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(algorithmStr)
	if err != nil {
		return fmt.Errorf("%w: %s (valid options: aes-gcm, chacha20-poly1305)", err, algorithmStr)
	}

	lock, err := locker.Lock(vaultPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Error("failed to release vault lock", slog.String("path", vaultPath), slog.Any("error", err))
		}
	}()

	if _, err := os.Stat(vaultPath); err == nil {
		return fmt.Errorf("%w: vault %s already exists", apperrors.ErrInvalidInput, vaultPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return apperrors.IO(err, "failed to stat vault")
	}

	logger.Info("creating vault",
		slog.String("path", vaultPath),
		slog.String("algorithm", string(algorithm)),
		slog.String("key_source", cryptoDomain.DescribeKeySource(plan.Source)),
	)

	manager, err := opener.New(ctx, vaultPath, plan.Source, algorithm)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}
	defer manager.Close()

	if plan.ExportKeyfile != "" {
		if err := manager.ExportKeyfile(ctx, plan.ExportKeyfile); err != nil {
			return fmt.Errorf("failed to export keyfile: %w", err)
		}
		logger.Info("keyfile exported", slog.String("path", plan.ExportKeyfile))
	}
	if plan.ExportWrapped != "" {
		if err := manager.ExportWrappedKeyfile(ctx, plan.ExportWrapped, plan.ExportKMSKeyURI); err != nil {
			return fmt.Errorf("failed to export wrapped keyfile: %w", err)
		}
		logger.Info("wrapped keyfile exported", slog.String("path", plan.ExportWrapped))
	}

	if err := manager.Save(ctx); err != nil {
		return fmt.Errorf("failed to save vault: %w", err)
	}

	info, err := manager.Info(ctx)
	if err != nil {
		return err
	}

	logger.Info("vault created successfully", slog.String("id", info.ID.String()))

	return writeInfo(writer, info, format)
}
