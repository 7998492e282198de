package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/r0bertgabriel/inmet-belem/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Output   OutputConfig
	Analysis AnalysisConfig
	Server   ServerConfig
	Database DatabaseConfig
}

// DataConfig holds ingestion settings
type DataConfig struct {
	CSVFile string
}

// OutputConfig holds export destinations
type OutputConfig struct {
	Dir string
}

// AnalysisConfig holds the statistical parameters of a run
type AnalysisConfig struct {
	// Percentiles reported by every StatSummary, 0-100 exclusive.
	Percentiles []float64
	// HeatPercentile derives the heat-wave threshold (default 90).
	HeatPercentile float64
	// ColdPercentile derives the cold-wave threshold (default 10).
	ColdPercentile float64
	// MinRunLength is the minimum episode duration in days.
	MinRunLength int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds optional persistence settings. Persistence is
// enabled only when URL is set.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	percentiles, err := parsePercentiles("STAT_PERCENTILES", []float64{1, 5, 25, 50, 75, 95, 99})
	if err != nil {
		return nil, err
	}

	config := &Config{
		Data: DataConfig{
			CSVFile: getEnvOrDefault("CSV_FILE", "dados.CSV"),
		},
		Output: OutputConfig{
			Dir: getEnvOrDefault("OUTPUT_DIR", "output"),
		},
		Analysis: AnalysisConfig{
			Percentiles:    percentiles,
			HeatPercentile: getEnvFloatOrDefault("HEAT_PERCENTILE", 90),
			ColdPercentile: getEnvFloatOrDefault("COLD_PERCENTILE", 10),
			MinRunLength:   getEnvIntOrDefault("MIN_RUN_LENGTH", 3),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.CSVFile == "" {
		return errors.ConfigInvalid("CSV_FILE is required")
	}
	if config.Analysis.MinRunLength < 1 {
		return errors.ConfigInvalid("MIN_RUN_LENGTH must be at least 1")
	}
	if !validPercentile(config.Analysis.HeatPercentile) {
		return errors.ConfigInvalid("HEAT_PERCENTILE must be between 0 and 100 exclusive")
	}
	if !validPercentile(config.Analysis.ColdPercentile) {
		return errors.ConfigInvalid("COLD_PERCENTILE must be between 0 and 100 exclusive")
	}
	for _, p := range config.Analysis.Percentiles {
		if !validPercentile(p) {
			return errors.ConfigInvalid("STAT_PERCENTILES values must be between 0 and 100 exclusive")
		}
	}
	return nil
}

func validPercentile(p float64) bool {
	return p > 0 && p < 100
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

// parsePercentiles reads a comma-separated list from the environment.
// An unset variable yields the default; a malformed entry is an error
// rather than a silent fallback.
func parsePercentiles(key string, defaultValue []float64) ([]float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parts := strings.Split(value, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s entry %q is not a number", key, strings.TrimSpace(part))
		}
		out = append(out, f)
	}
	return out, nil
}
