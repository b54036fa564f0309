// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// Config holds all application configuration. Command-line flags override these
// values; the environment only supplies defaults.
type Config struct {
	// VaultPath is the vault file used when --vault is not given.
	VaultPath string
	// Keyfile is the raw key file used when no other key source is given.
	Keyfile string
	// Password is the vault password used when no other key source is given.
	Password string
	// Algorithm is the AEAD algorithm for newly created vaults.
	Algorithm string

	// KMSKeyURI is the gocloud.dev/secrets keeper URI for wrapped key files.
	KMSKeyURI string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsTextfile is where metrics are written at exit for the node_exporter
	// textfile collector. Empty disables the export.
	MetricsTextfile string

	// LockEnabled holds an advisory lock on the vault from load to save.
	LockEnabled bool
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Vault
		VaultPath: env.GetString("VAULT_PATH", "secrets.vault"),
		Keyfile:   env.GetString("VAULT_KEYFILE", ""),
		Password:  env.GetString("VAULT_PASSWORD", ""),
		Algorithm: env.GetString("VAULT_ALGORITHM", string(cryptoDomain.AESGCM)),

		// KMS configuration
		KMSKeyURI: env.GetString("KMS_KEY_URI", ""),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "securevault"),
		MetricsTextfile:  env.GetString("METRICS_TEXTFILE", ""),

		// Locking
		LockEnabled: env.GetBool("LOCK_ENABLED", true),
	}
}

// Validate checks the loaded values. The error wraps ErrInvalidInput.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.VaultPath, validation.Required, customValidation.NotBlank),
		validation.Field(&c.Algorithm, validation.Required,
			customValidation.OneOf(string(cryptoDomain.AESGCM), string(cryptoDomain.ChaCha20))),
		validation.Field(&c.KMSKeyURI, customValidation.KeeperURI),
		validation.Field(&c.LogLevel, customValidation.OneOf("debug", "info", "warn", "error")),
		validation.Field(&c.MetricsNamespace,
			validation.When(c.MetricsEnabled, validation.Required, customValidation.NoWhitespace)),
	)
	return customValidation.WrapValidationError(err)
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
