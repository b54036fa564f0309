package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	"github.com/allisson/securevault/internal/metrics"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

const metricsDomain = "vault"

func record(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, metricsDomain, operation, status)
	m.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// openerWithMetrics decorates Opener with metrics instrumentation.
type openerWithMetrics struct {
	next    Opener
	metrics metrics.BusinessMetrics
}

// NewOpenerWithMetrics wraps an Opener with metrics recording. Managers it returns are
// instrumented as well.
func NewOpenerWithMetrics(opener Opener, m metrics.BusinessMetrics) Opener {
	return &openerWithMetrics{
		next:    opener,
		metrics: m,
	}
}

// New records metrics for vault creation.
func (o *openerWithMetrics) New(
	ctx context.Context,
	path string,
	source cryptoDomain.KeySource,
	alg cryptoDomain.Algorithm,
) (SecretsManager, error) {
	start := time.Now()
	manager, err := o.next.New(ctx, path, source, alg)
	record(ctx, o.metrics, "vault_create", start, err)

	if err != nil {
		return nil, err
	}
	return NewSecretsManagerWithMetrics(manager, o.metrics), nil
}

// Load records metrics for vault loading, including key and MAC verification.
func (o *openerWithMetrics) Load(
	ctx context.Context,
	path string,
	source cryptoDomain.KeySource,
) (SecretsManager, error) {
	start := time.Now()
	manager, err := o.next.Load(ctx, path, source)
	record(ctx, o.metrics, "vault_load", start, err)

	if err != nil {
		return nil, err
	}
	return NewSecretsManagerWithMetrics(manager, o.metrics), nil
}

// secretsManagerWithMetrics decorates SecretsManager with metrics instrumentation.
type secretsManagerWithMetrics struct {
	next    SecretsManager
	metrics metrics.BusinessMetrics
}

// NewSecretsManagerWithMetrics wraps a SecretsManager with metrics recording.
func NewSecretsManagerWithMetrics(manager SecretsManager, m metrics.BusinessMetrics) SecretsManager {
	return &secretsManagerWithMetrics{
		next:    manager,
		metrics: m,
	}
}

func (s *secretsManagerWithMetrics) Path() string {
	return s.next.Path()
}

func (s *secretsManagerWithMetrics) Keys() *cryptoDomain.KeyMaterial {
	return s.next.Keys()
}

func (s *secretsManagerWithMetrics) Close() {
	s.next.Close()
}

// Info records metrics for vault info requests.
func (s *secretsManagerWithMetrics) Info(ctx context.Context) (*vaultDomain.Info, error) {
	start := time.Now()
	info, err := s.next.Info(ctx)
	record(ctx, s.metrics, "vault_info", start, err)
	return info, err
}

// Save records metrics for vault saves.
func (s *secretsManagerWithMetrics) Save(ctx context.Context) error {
	start := time.Now()
	err := s.next.Save(ctx)
	record(ctx, s.metrics, "vault_save", start, err)
	return err
}

// ExportKeyfile records metrics for raw key exports.
func (s *secretsManagerWithMetrics) ExportKeyfile(ctx context.Context, path string) error {
	start := time.Now()
	err := s.next.ExportKeyfile(ctx, path)
	record(ctx, s.metrics, "key_export", start, err)
	return err
}

// ExportWrappedKeyfile records metrics for KMS wrapped key exports.
func (s *secretsManagerWithMetrics) ExportWrappedKeyfile(ctx context.Context, path, keeperURI string) error {
	start := time.Now()
	err := s.next.ExportWrappedKeyfile(ctx, path, keeperURI)
	record(ctx, s.metrics, "key_export_wrapped", start, err)
	return err
}

// Set records metrics for secret writes.
func (s *secretsManagerWithMetrics) Set(ctx context.Context, name string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, name, value)
	record(ctx, s.metrics, "secret_set", start, err)
	return err
}

// Get records metrics for secret reads.
func (s *secretsManagerWithMetrics) Get(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, name)
	record(ctx, s.metrics, "secret_get", start, err)
	return value, err
}

// Delete records metrics for secret deletions.
func (s *secretsManagerWithMetrics) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.next.Delete(ctx, name)
	record(ctx, s.metrics, "secret_delete", start, err)
	return err
}

// List records metrics for secret listings.
func (s *secretsManagerWithMetrics) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.next.List(ctx)
	record(ctx, s.metrics, "secret_list", start, err)
	return names, err
}
