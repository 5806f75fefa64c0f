// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateGeocode(); err != nil {
		return err
	}
	if err := c.validateTraining(); err != nil {
		return err
	}
	if c.Urgency.NoiseSigma < 0 {
		return fmt.Errorf("URGENCY_NOISE_SIGMA must be >= 0, got %v", c.Urgency.NoiseSigma)
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateGeocode() error {
	u, err := url.Parse(c.Geocode.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GEOCODER_URL must be an http(s) URL, got %q", c.Geocode.URL)
	}
	if strings.TrimSpace(c.Geocode.UserAgent) == "" {
		return fmt.Errorf("GEOCODER_USER_AGENT is required")
	}
	if c.Geocode.Timeout <= 0 {
		return fmt.Errorf("GEOCODER_TIMEOUT must be positive")
	}
	if c.Geocode.RateLimit <= 0 {
		return fmt.Errorf("GEOCODER_RATE_LIMIT must be positive")
	}
	return nil
}

func (c *Config) validateTraining() error {
	if c.Training.ModelDir == "" {
		return fmt.Errorf("MODEL_DIR is required")
	}
	if c.Training.UrgencyModelFile == "" || c.Training.TrendModelFile == "" {
		return fmt.Errorf("model file names must not be empty")
	}
	if c.Training.UrgencyModelFile == c.Training.TrendModelFile {
		return fmt.Errorf("urgency and trend model files must differ")
	}
	if c.Training.TrainInterval < 0 {
		return fmt.Errorf("TRAIN_INTERVAL must be >= 0")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
