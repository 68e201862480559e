package main

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config validation errors
var (
	ErrInvalidCapacity     = errors.New("capacity must be positive")
	ErrInvalidOperations   = errors.New("operations must be positive")
	ErrInvalidOpsPerSec    = errors.New("ops_per_sec must be >= 0")
	ErrInvalidUpdateRatio  = errors.New("update_ratio must be in [0, 1]")
	ErrInvalidPopRatio     = errors.New("pop_ratio must be in [0, 1]")
	ErrInvalidRecentWindow = errors.New("recent_window must be positive")
	ErrInvalidLogFormat    = errors.New("log_format must be 'json' or 'console'")
)

// Config holds the simulator configuration, read from HEAPSIM_* env vars
type Config struct {
	// Capacity is the slot space of the heap under test
	Capacity int `envconfig:"CAPACITY" default:"1024"`
	// Operations is the number of scheduled operations before the drain
	Operations int `envconfig:"OPERATIONS" default:"100000"`
	// OpsPerSec paces the operation loop; 0 runs unpaced
	OpsPerSec int `envconfig:"OPS_PER_SEC" default:"0"`
	// UpdateRatio is the fraction of pushes aimed at already-present slots
	UpdateRatio float64 `envconfig:"UPDATE_RATIO" default:"0.25"`
	// PopRatio is the fraction of operations that pop instead of push
	PopRatio float64 `envconfig:"POP_RATIO" default:"0.3"`
	// RecentWindow is the capacity of the recent-pops ring buffer
	RecentWindow int `envconfig:"RECENT_WINDOW" default:"16"`
	// Seed makes runs reproducible
	Seed int64 `envconfig:"SEED" default:"1"`
	// MetricsAddr serves Prometheus metrics while running; empty disables
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`

	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Capacity:     1024,
		Operations:   100000,
		OpsPerSec:    0,
		UpdateRatio:  0.25,
		PopRatio:     0.3,
		RecentWindow: 16,
		Seed:         1,
		LogFormat:    "json",
		LogLevel:     "info",
	}
}

// LoadConfig reads the configuration from the environment, honoring a
// .env file when present
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("HEAPSIM", &cfg); err != nil {
		return Config{}, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if cfg.Operations <= 0 {
		return ErrInvalidOperations
	}
	if cfg.OpsPerSec < 0 {
		return ErrInvalidOpsPerSec
	}
	if cfg.UpdateRatio < 0 || cfg.UpdateRatio > 1 {
		return ErrInvalidUpdateRatio
	}
	if cfg.PopRatio < 0 || cfg.PopRatio > 1 {
		return ErrInvalidPopRatio
	}
	if cfg.RecentWindow <= 0 {
		return ErrInvalidRecentWindow
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	return nil
}
