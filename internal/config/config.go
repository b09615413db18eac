package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type AppConfig struct {
	Port string

	// FetchDelay is the simulated latency of every weather fetch.
	FetchDelay time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of records per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of records (0 = unlimited)

	// FixturesFile overrides the embedded mock data when set.
	FixturesFile string

	// HomeLocation is the saved location distances are measured from.
	HomeLocation string

	LogLevel log.Level

	// Resilience around the snapshot source.
	BreakerMaxFailures int
	FetchMaxRetries    int

	// WaitTimeout bounds how long ?wait=true blocks on a pending fetch.
	WaitTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.FetchDelay, err = getenvDuration("FETCH_DELAY", "1s"); err != nil {
		return nil, err
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 100)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.FixturesFile = os.Getenv("FIXTURES_FILE")
	cfg.HomeLocation = getenvDefault("HOME_LOCATION", "New York")

	level, err := log.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	cfg.BreakerMaxFailures = getenvInt("BREAKER_MAX_FAILURES", 5)
	cfg.FetchMaxRetries = getenvInt("FETCH_MAX_RETRIES", 0)
	if cfg.BreakerMaxFailures < 0 || cfg.FetchMaxRetries < 0 {
		return nil, fmt.Errorf("BREAKER_MAX_FAILURES and FETCH_MAX_RETRIES must not be negative")
	}

	if cfg.WaitTimeout, err = getenvDuration("WAIT_TIMEOUT", "5s"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
