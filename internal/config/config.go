// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the local development backend.
const DefaultAPIURL = "http://localhost:8000"

// Config holds application configuration
type Config struct {
	APIURL      string // Backend base URL, no trailing slash
	LogLevel    string
	LogFile     string // "-" logs to stderr
	LogPretty   bool
	HTTPTimeout time.Duration // 0 relies on the platform default
	StaleTime   time.Duration // How long fetched data counts as fresh
	GCTime      time.Duration // How long unobserved cache entries are kept
	QueryRetry  int           // Extra attempts for failed reads
	PageSize    int           // Default surge list page size
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:      strings.TrimRight(getEnv("SURGE_API_URL", DefaultAPIURL), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", "surgedash.log"),
		LogPretty:   getEnvAsBool("LOG_PRETTY", false),
		HTTPTimeout: time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 0)) * time.Second,
		StaleTime:   time.Duration(getEnvAsInt("QUERY_STALE_SECONDS", 30)) * time.Second,
		GCTime:      time.Duration(getEnvAsInt("QUERY_GC_SECONDS", 300)) * time.Second,
		QueryRetry:  getEnvAsInt("QUERY_RETRY", 3),
		PageSize:    getEnvAsInt("PAGE_SIZE", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid SURGE_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid SURGE_API_URL %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid SURGE_API_URL %q: missing host", c.APIURL)
	}
	if c.HTTPTimeout < 0 || c.StaleTime < 0 || c.GCTime < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.QueryRetry < 0 {
		return fmt.Errorf("QUERY_RETRY must not be negative, got %d", c.QueryRetry)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
