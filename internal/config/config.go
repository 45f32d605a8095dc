package config

import (
	"os"
	"strconv"

	"goutlier/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Detector DetectorConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. The URL is optional:
// without one the service runs with model persistence disabled.
type DatabaseConfig struct {
	URL     string
	Migrate bool
}

// DetectorConfig holds default detector parameters, overridable per request
type DetectorConfig struct {
	NBins         int
	Alpha         float64
	Tol           float64
	Contamination float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			Migrate: getEnvBoolOrDefault("DB_MIGRATE", true),
		},
		Detector: DetectorConfig{
			NBins:         getEnvIntOrDefault("HBOS_N_BINS", 10),
			Alpha:         getEnvFloatOrDefault("HBOS_ALPHA", 0.1),
			Tol:           getEnvFloatOrDefault("HBOS_TOL", 0.5),
			Contamination: getEnvFloatOrDefault("CONTAMINATION", 0.1),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Detector.NBins < 1 {
		return errors.ConfigInvalid("HBOS_N_BINS must be a positive integer")
	}
	if config.Detector.Alpha <= 0 || config.Detector.Alpha >= 1 {
		return errors.ConfigInvalid("HBOS_ALPHA must be in (0, 1)")
	}
	if config.Detector.Tol <= 0 || config.Detector.Tol >= 1 {
		return errors.ConfigInvalid("HBOS_TOL must be in (0, 1)")
	}
	if config.Detector.Contamination <= 0 || config.Detector.Contamination > 0.5 {
		return errors.ConfigInvalid("CONTAMINATION must be in (0, 0.5]")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
