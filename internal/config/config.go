package config

import (
	"log"
	"os"
	"time"
)

const (
	defaultBlueskyBaseURL       = "https://clickhouse-public-datasets.s3.amazonaws.com/bluesky"
	defaultStackExchangeBaseURL = "https://archive.org/download/stackexchange"
)

// Config holds endpoint and HTTP settings shared by the setup tools, loaded
// from environment variables. Flags cover per-run choices; the environment
// covers things you override once, like pointing at a mirror.
type Config struct {
	BlueskyBaseURL       string
	StackExchangeBaseURL string
	HTTPTimeout          time.Duration
}

// Load reads configuration from environment variables and returns a new
// Config struct. It falls back to default values if environment variables are
// not set or invalid.
func Load() *Config {
	cfg := &Config{
		BlueskyBaseURL:       getEnv("BENCHDATA_BLUESKY_BASE_URL", defaultBlueskyBaseURL),
		StackExchangeBaseURL: getEnv("BENCHDATA_STACKEXCHANGE_BASE_URL", defaultStackExchangeBaseURL),
		// Archive downloads run for hours on slow links; no timeout by default.
		HTTPTimeout: getEnvAsDuration("BENCHDATA_HTTP_TIMEOUT", 0),
	}
	return cfg
}

// getEnv retrieves a string environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvAsDuration retrieves a time.Duration environment variable or returns
// a fallback value.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("config: invalid value for %s: %v. using fallback %v", key, err, fallback)
		return fallback
	}
	return value
}
