// Package mocks provides mock implementations of the vault use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
	vaultUsecase "github.com/allisson/securevault/internal/vault/usecase"
)

// MockOpener is a mock implementation of Opener for testing.
type MockOpener struct {
	mock.Mock
}

var _ vaultUsecase.Opener = (*MockOpener)(nil)

// New mocks the New method of Opener.
func (m *MockOpener) New(
	ctx context.Context,
	path string,
	source cryptoDomain.KeySource,
	alg cryptoDomain.Algorithm,
) (vaultUsecase.SecretsManager, error) {
	args := m.Called(ctx, path, source, alg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(vaultUsecase.SecretsManager), args.Error(1)
}

// Load mocks the Load method of Opener.
func (m *MockOpener) Load(
	ctx context.Context,
	path string,
	source cryptoDomain.KeySource,
) (vaultUsecase.SecretsManager, error) {
	args := m.Called(ctx, path, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(vaultUsecase.SecretsManager), args.Error(1)
}

// MockSecretsManager is a mock implementation of SecretsManager for testing.
type MockSecretsManager struct {
	mock.Mock
}

var _ vaultUsecase.SecretsManager = (*MockSecretsManager)(nil)

// Path mocks the Path method of SecretsManager.
func (m *MockSecretsManager) Path() string {
	args := m.Called()
	return args.String(0)
}

// Keys mocks the Keys method of SecretsManager.
func (m *MockSecretsManager) Keys() *cryptoDomain.KeyMaterial {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*cryptoDomain.KeyMaterial)
}

// Info mocks the Info method of SecretsManager.
func (m *MockSecretsManager) Info(ctx context.Context) (*vaultDomain.Info, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Info), args.Error(1)
}

// Save mocks the Save method of SecretsManager.
func (m *MockSecretsManager) Save(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ExportKeyfile mocks the ExportKeyfile method of SecretsManager.
func (m *MockSecretsManager) ExportKeyfile(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// ExportWrappedKeyfile mocks the ExportWrappedKeyfile method of SecretsManager.
func (m *MockSecretsManager) ExportWrappedKeyfile(ctx context.Context, path, keeperURI string) error {
	args := m.Called(ctx, path, keeperURI)
	return args.Error(0)
}

// Set mocks the Set method of SecretsManager.
func (m *MockSecretsManager) Set(ctx context.Context, name string, value []byte) error {
	args := m.Called(ctx, name, value)
	return args.Error(0)
}

// Get mocks the Get method of SecretsManager.
func (m *MockSecretsManager) Get(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Delete mocks the Delete method of SecretsManager.
func (m *MockSecretsManager) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// List mocks the List method of SecretsManager.
func (m *MockSecretsManager) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Close mocks the Close method of SecretsManager.
func (m *MockSecretsManager) Close() {
	m.Called()
}
