package config

import (
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Output   OutputConfig
}

// DatabaseConfig holds database connection settings. URL is optional:
// without it the application falls back to the synthetic test cohort.
type DatabaseConfig struct {
	URL     string
	StudyID string
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Port string
}

// OutputConfig holds table output settings
type OutputConfig struct {
	Dir             string
	AlphabeticMarks bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			StudyID: getEnvOrDefault("STUDY_ID", "demo"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Output: OutputConfig{
			Dir:             getEnvOrDefault("OUTPUT_DIR", "."),
			AlphabeticMarks: getEnvBoolOrDefault("ALPHABETIC_MARKS", false),
		},
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
