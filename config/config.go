package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the report generator service
type Config struct {
	// Server configuration
	Port            string
	MaxRequestBytes int64
	AllowedOrigins  []string

	// Image acquisition
	ImageFetchTimeout time.Duration
	PrefetchWorkers   int
	MaxImageDimension int
	StampEvidence     bool
	ImageUserAgent    string

	// Branding printed on every page
	Organization string
	Vendor       string
	Recipient    string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// win over it.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env")
	}

	config := &Config{
		// Server defaults
		Port:            getEnv("PORT", "8080"),
		MaxRequestBytes: int64(getIntEnv("MAX_REQUEST_BYTES", 10<<20)),
		AllowedOrigins:  getStringSliceEnv("ALLOWED_ORIGINS", "*"),

		// Image acquisition defaults
		ImageFetchTimeout: getDurationEnv("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		PrefetchWorkers:   getIntEnv("PREFETCH_WORKERS", 4),
		MaxImageDimension: getIntEnv("MAX_IMAGE_DIMENSION", 1024),
		StampEvidence:     getBoolEnv("STAMP_EVIDENCE", false),
		ImageUserAgent:    getEnv("IMAGE_USER_AGENT", "ViolationReport/1.0"),

		// Branding defaults
		Organization: getEnv("ORGANIZATION", "Central Coalfields Limited (CCL)"),
		Vendor:       getEnv("VENDOR", "Aerovania Pvt. Ltd."),
		Recipient:    getEnv("RECIPIENT", "CCL Safety Division"),

		// Logging defaults
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if config.PrefetchWorkers < 1 {
		config.PrefetchWorkers = 1
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warnf("Ignoring invalid duration %s=%q", key, value)
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warnf("Ignoring invalid integer %s=%q", key, value)
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable or returns a default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		log.Warnf("Ignoring invalid boolean %s=%q", key, value)
	}
	return defaultValue
}

// getStringSliceEnv gets a comma-separated environment variable as a slice
func getStringSliceEnv(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
