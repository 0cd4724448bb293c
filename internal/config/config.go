// Package config loads engine configuration from an optional YAML file with
// SPROUTMATH_* environment overrides. Everything has a working default; a
// missing file and an empty environment yield a fully offline setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the engine configuration.
type Config struct {
	// BackendDSN is the Postgres connection string for the remote recorder.
	// Empty means permanently offline: everything stays in the local mirror.
	BackendDSN string `yaml:"backend_dsn"`

	// DBPath overrides the local SQLite database location.
	DBPath string `yaml:"db_path"`

	// AnonymousAuth allows minting an anonymous user on first run.
	AnonymousAuth bool `yaml:"anonymous_auth"`

	// RequestsPerMinute caps the outbox drain rate against the backend.
	// Zero disables pacing.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// LocalBatchSize bounds how many outbox operations one drain processes.
	// Zero means unbounded.
	LocalBatchSize int `yaml:"local_batch_size"`

	// LogMode selects the logger preset: "production" or "development".
	LogMode string `yaml:"log_mode"`

	// SyncInterval is the background outbox drain period.
	SyncInterval time.Duration `yaml:"sync_interval"`

	// RemoteTimeout bounds a single backend call.
	RemoteTimeout time.Duration `yaml:"remote_timeout"`

	// RetryAttempts and RetryDelay bound outbox replay per operation.
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`

	// CacheTTL is the analytics cache freshness window.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Default returns a Config with working defaults.
func Default() Config {
	return Config{
		LogMode:           "production",
		AnonymousAuth:     true,
		RequestsPerMinute: 120,
		LocalBatchSize:    100,
		SyncInterval:      30 * time.Second,
		RemoteTimeout:     5 * time.Second,
		RetryAttempts:     3,
		RetryDelay:        time.Second,
		CacheTTL:          5 * time.Minute,
	}
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist) and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file.
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SPROUTMATH_BACKEND_DSN"); v != "" {
		cfg.BackendDSN = v
	}
	if v := os.Getenv("SPROUTMATH_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SPROUTMATH_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if b, ok := envBool("SPROUTMATH_ANONYMOUS_AUTH"); ok {
		cfg.AnonymousAuth = b
	}
	if n, ok := envInt("SPROUTMATH_REQUESTS_PER_MINUTE"); ok {
		cfg.RequestsPerMinute = n
	}
	if n, ok := envInt("SPROUTMATH_LOCAL_BATCH_SIZE"); ok {
		cfg.LocalBatchSize = n
	}
	if d, ok := envDuration("SPROUTMATH_SYNC_INTERVAL"); ok {
		cfg.SyncInterval = d
	}
	if d, ok := envDuration("SPROUTMATH_REMOTE_TIMEOUT"); ok {
		cfg.RemoteTimeout = d
	}
	if n, ok := envInt("SPROUTMATH_RETRY_ATTEMPTS"); ok {
		cfg.RetryAttempts = n
	}
	if d, ok := envDuration("SPROUTMATH_RETRY_DELAY"); ok {
		cfg.RetryDelay = d
	}
	if d, ok := envDuration("SPROUTMATH_CACHE_TTL"); ok {
		cfg.CacheTTL = d
	}
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
