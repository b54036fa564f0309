package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
	vaultUsecase "github.com/allisson/securevault/internal/vault/usecase"
)

// RunInfo prints the vault header summary. Nothing is decrypted beyond the sentinel.
func RunInfo(
	ctx context.Context,
	opener vaultUsecase.Opener,
	writer io.Writer,
	vaultPath string,
	source cryptoDomain.KeySource,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	return withVault(ctx, opener, vaultPath, source, func(manager vaultUsecase.SecretsManager) error {
		info, err := manager.Info(ctx)
		if err != nil {
			return err
		}
		return writeInfo(writer, info, format)
	})
}

// RunSet stores value under name. When value is nil it is read from reader and a
// single trailing newline is dropped.
func RunSet(
	ctx context.Context,
	opener vaultUsecase.Opener,
	locker Locker,
	logger *slog.Logger,
	reader io.Reader,
	vaultPath string,
	source cryptoDomain.KeySource,
	name string,
	value []byte,
) error {
	if value == nil {
		data, err := io.ReadAll(reader)
		if err != nil {
			return apperrors.IO(err, "failed to read secret value")
		}
		value = trimNewline(data)
	}
	defer cryptoDomain.Zero(value)

	err := withLockedVault(ctx, opener, locker, logger, vaultPath, source,
		func(manager vaultUsecase.SecretsManager) error {
			return manager.Set(ctx, name, value)
		},
	)
	if err != nil {
		return err
	}

	logger.Info("secret stored", slog.String("path", vaultPath), slog.String("name", name))
	return nil
}

// secretOutput is the JSON form of a secret. Values that are not valid UTF-8 are
// base64 encoded.
type secretOutput struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Encoding string `json:"encoding,omitempty"`
}

// RunGet writes the value stored under name. In text format the raw bytes are written
// unchanged.
func RunGet(
	ctx context.Context,
	opener vaultUsecase.Opener,
	writer io.Writer,
	vaultPath string,
	source cryptoDomain.KeySource,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	return withVault(ctx, opener, vaultPath, source, func(manager vaultUsecase.SecretsManager) error {
		value, err := manager.Get(ctx, name)
		if err != nil {
			return err
		}
		defer cryptoDomain.Zero(value)

		if format == "json" {
			out := secretOutput{Name: name, Value: string(value)}
			if !utf8.Valid(value) {
				out.Value = base64.StdEncoding.EncodeToString(value)
				out.Encoding = "base64"
			}
			return writeJSON(writer, out)
		}

		_, err = writer.Write(value)
		return err
	})
}

// RunDelete removes name from the vault.
func RunDelete(
	ctx context.Context,
	opener vaultUsecase.Opener,
	locker Locker,
	logger *slog.Logger,
	vaultPath string,
	source cryptoDomain.KeySource,
	name string,
) error {
	err := withLockedVault(ctx, opener, locker, logger, vaultPath, source,
		func(manager vaultUsecase.SecretsManager) error {
			return manager.Delete(ctx, name)
		},
	)
	if err != nil {
		return err
	}

	logger.Info("secret deleted", slog.String("path", vaultPath), slog.String("name", name))
	return nil
}

// RunList prints the secret names in ascending order.
func RunList(
	ctx context.Context,
	opener vaultUsecase.Opener,
	writer io.Writer,
	vaultPath string,
	source cryptoDomain.KeySource,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	return withVault(ctx, opener, vaultPath, source, func(manager vaultUsecase.SecretsManager) error {
		names, err := manager.List(ctx)
		if err != nil {
			return err
		}

		if format == "json" {
			if names == nil {
				names = []string{}
			}
			return writeJSON(writer, map[string][]string{"secrets": names})
		}

		for _, name := range names {
			if _, err := fmt.Fprintln(writer, name); err != nil {
				return err
			}
		}
		return nil
	})
}

// RunExportKey writes the vault keys to a raw key file, a wrapped key file or both.
func RunExportKey(
	ctx context.Context,
	opener vaultUsecase.Opener,
	logger *slog.Logger,
	vaultPath string,
	source cryptoDomain.KeySource,
	keyfileOut string,
	wrappedOut string,
	kmsKeyURI string,
) error {
	if keyfileOut == "" && wrappedOut == "" {
		return fmt.Errorf("%w: --out or --wrapped-out is required", apperrors.ErrInvalidInput)
	}
	if wrappedOut != "" && kmsKeyURI == "" {
		return fmt.Errorf("%w: --wrapped-out requires --kms-key-uri", apperrors.ErrInvalidInput)
	}

	return withVault(ctx, opener, vaultPath, source, func(manager vaultUsecase.SecretsManager) error {
		if keyfileOut != "" {
			if err := manager.ExportKeyfile(ctx, keyfileOut); err != nil {
				return fmt.Errorf("failed to export keyfile: %w", err)
			}
			logger.Info("keyfile exported", slog.String("path", keyfileOut))
		}
		if wrappedOut != "" {
			if err := manager.ExportWrappedKeyfile(ctx, wrappedOut, kmsKeyURI); err != nil {
				return fmt.Errorf("failed to export wrapped keyfile: %w", err)
			}
			logger.Info("wrapped keyfile exported", slog.String("path", wrappedOut))
		}
		return nil
	})
}

// writeInfo prints info in the requested format.
func writeInfo(writer io.Writer, info *vaultDomain.Info, format string) error {
	if format == "json" {
		return writeJSON(writer, info)
	}

	_, err := fmt.Fprintf(writer,
		"ID:         %s\nPath:       %s\nAlgorithm:  %s\nIV:         %s\nKey source: %s\nEntries:    %d\n",
		info.ID, info.Path, info.Algorithm, info.IV, info.KeySource, info.Entries,
	)
	return err
}

func trimNewline(data []byte) []byte {
	data = bytes.TrimSuffix(data, []byte("\n"))
	return bytes.TrimSuffix(data, []byte("\r"))
}
