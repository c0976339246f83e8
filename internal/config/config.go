package config

import (
	"os"
	"strconv"

	"goimpute/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Limits   LimitConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// StorageConfig holds file storage settings
type StorageConfig struct {
	UploadDir string
}

// DatabaseConfig holds the optional transfer-ledger database settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// LimitConfig holds request and processing limits
type LimitConfig struct {
	MaxUploadBytes     int64
	MaxConcurrentProcs int64
	PreviewRows        int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "5000"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Storage: StorageConfig{
			UploadDir: getEnvOrDefault("UPLOAD_DIR", os.TempDir()),
		},
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Limits: LimitConfig{
			MaxUploadBytes:     getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 16<<20),
			MaxConcurrentProcs: getEnvInt64OrDefault("MAX_CONCURRENT_PROCS", 4),
			PreviewRows:        int(getEnvInt64OrDefault("PREVIEW_ROWS", 50)),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if config.Limits.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Limits.MaxConcurrentProcs <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_PROCS must be positive")
	}
	if config.Limits.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
