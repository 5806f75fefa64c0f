// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

// Package config loads Aidhub configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/aidhub/config.yaml)
//  3. Environment variables (explicit mapping in envTransformFunc)
package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Geocode  GeocodeConfig  `koanf:"geocode"`
	Training TrainingConfig `koanf:"training"`
	Urgency  UrgencyConfig  `koanf:"urgency"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// RequestTimeout bounds handler work (geocoding + store access) per request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// DatabaseConfig holds DuckDB settings. Path may be ":memory:".
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`

	// CheckpointInterval flushes the WAL periodically. Zero disables it.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// GeocodeConfig holds settings for the location resolver.
type GeocodeConfig struct {
	URL       string        `koanf:"url"`
	UserAgent string        `koanf:"user_agent"`
	Timeout   time.Duration `koanf:"timeout"`
	// RateLimit is outbound requests per second; Nominatim's usage policy allows 1.
	RateLimit float64 `koanf:"rate_limit"`

	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
	// CachePath is the BadgerDB directory for persisted lookups. Empty disables it.
	CachePath string `koanf:"cache_path"`

	BreakerFailures    uint32        `koanf:"breaker_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// TrainingConfig holds model training and artifact settings.
type TrainingConfig struct {
	ModelDir         string        `koanf:"model_dir"`
	UrgencyModelFile string        `koanf:"urgency_model_file"`
	TrendModelFile   string        `koanf:"trend_model_file"`
	Seed             int64         `koanf:"seed"`
	TrainOnStartup   bool          `koanf:"train_on_startup"`
	TrainInterval    time.Duration `koanf:"train_interval"`
	TrainCron        string        `koanf:"train_cron"`
	JobTimeout       time.Duration `koanf:"job_timeout"`
}

// UrgencyModelPath returns the full path of the urgency artifact.
func (c TrainingConfig) UrgencyModelPath() string {
	return filepath.Join(c.ModelDir, c.UrgencyModelFile)
}

// TrendModelPath returns the full path of the trend artifact.
func (c TrainingConfig) TrendModelPath() string {
	return filepath.Join(c.ModelDir, c.TrendModelFile)
}

// UrgencyConfig tunes the urgency estimator.
type UrgencyConfig struct {
	NoiseSigma float64 `koanf:"noise_sigma"`
}

// SecurityConfig holds CORS and inbound rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load is the entry point used by main.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
