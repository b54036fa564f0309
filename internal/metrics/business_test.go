package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("securevault")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "securevault")
	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	noOp.RecordOperation(context.Background(), "vault", "vault_load", "success")
	noOp.RecordDuration(context.Background(), "vault", "vault_load", time.Second, "error")
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "vault", "secret_get", "success")
	bm.RecordOperation(ctx, "vault", "secret_get", "success")
	bm.RecordOperation(ctx, "vault", "vault_load", "error")
	bm.RecordDuration(ctx, "vault", "secret_get", 2*time.Millisecond, "success")
	bm.RecordDuration(ctx, "vault", "secret_get", 3*time.Millisecond, "success")
	bm.RecordDuration(ctx, "vault", "vault_load", 300*time.Millisecond, "error")

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, provider.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	output := string(data)

	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="vault".*operation="secret_get".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="vault".*operation="vault_load".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="vault".*operation="secret_get".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_bucket`,
		`domain="vault".*operation="vault_load".*le="0.5"`,
		`1`,
	)
}
