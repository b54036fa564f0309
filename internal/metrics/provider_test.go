package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/securevault/internal/errors"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success_CreateProviderWithNamespace", func(t *testing.T) {
		provider, err := NewProvider("securevault")

		require.NoError(t, err)
		assert.NotNil(t, provider.meterProvider)
		assert.NotNil(t, provider.exporter)
		assert.NotNil(t, provider.registry)
		assert.NotNil(t, provider.MeterProvider())
		assert.NotNil(t, provider.Gatherer())
	})

	t.Run("Success_CreateProviderWithEmptyNamespace", func(t *testing.T) {
		provider, err := NewProvider("")

		require.NoError(t, err)
		assert.NotNil(t, provider)
	})
}

func TestProvider_WriteTextfile(t *testing.T) {
	t.Run("Success_WritesPrometheusText", func(t *testing.T) {
		provider, err := NewProvider("securevault")
		require.NoError(t, err)

		bm, err := NewBusinessMetrics(provider.MeterProvider(), "securevault")
		require.NoError(t, err)
		bm.RecordOperation(context.Background(), "vault", "vault_load", "success")

		path := filepath.Join(t.TempDir(), "securevault.prom")
		require.NoError(t, provider.WriteTextfile(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "securevault_operations_total")
	})

	t.Run("Error_MissingDirectory", func(t *testing.T) {
		provider, err := NewProvider("securevault")
		require.NoError(t, err)

		err = provider.WriteTextfile(filepath.Join(t.TempDir(), "missing", "securevault.prom"))
		assert.ErrorIs(t, err, apperrors.ErrIO)
	})
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("securevault")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{meterProvider: nil}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
