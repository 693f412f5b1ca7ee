/*
Package config handles loading, saving, and validating tool-optimizer
configuration.

Configuration is stored in ~/.tool-optimizer.json. Every recognized
option is an explicit field with an explicit default; unknown options
are not carried. A missing or unreadable config file is never fatal:
callers fall back to defaults via LoadOrDefault.

Schema:
  {
    "defaultStrategy": "balanced",
    "defaultMethod": "hybrid",
    "cacheSize": 10000,
    "compressionThreshold": 0.8,
    "historySize": 1000,
    "metricHistorySize": 1000,
    "alertLogSize": 500,
    "thresholds": {
      "responseTime": 5.0,
      "errorRate": 0.1,
      "resourceUsage": 0.8
    },
    "archive": {"enabled": true}
  }
*/
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Thresholds are the per-metric alert limits.
type Thresholds struct {
	// ResponseTime is the alert limit in seconds.
	ResponseTime float64 `json:"responseTime"`

	// ErrorRate is the alert limit as a fraction in [0, 1].
	ErrorRate float64 `json:"errorRate"`

	// ResourceUsage is the alert limit as a fraction in [0, 1].
	ResourceUsage float64 `json:"resourceUsage"`
}

// ArchiveSettings controls the SQLite selection/telemetry archive.
type ArchiveSettings struct {
	// Enabled turns archiving on. The archive degrades gracefully when
	// the database cannot be opened.
	Enabled bool `json:"enabled"`

	// Path overrides the database location (default ~/.tool-optimizer/history.db).
	Path string `json:"path,omitempty"`
}

// Config is the root configuration for the optimization engine.
type Config struct {
	// DefaultStrategy is used when a selection call does not name one.
	DefaultStrategy string `json:"defaultStrategy"`

	// DefaultMethod is used when a selection call does not name one.
	DefaultMethod string `json:"defaultMethod"`

	// CacheSize is the knowledge cache entry capacity.
	CacheSize int `json:"cacheSize"`

	// CompressionThreshold is carried for the knowledge cache. It is a
	// recognized knob that no decision consumes yet.
	CompressionThreshold float64 `json:"compressionThreshold"`

	// HistorySize caps the optimization record history.
	HistorySize int `json:"historySize"`

	// MetricHistorySize caps each (tool, metric) sample history.
	MetricHistorySize int `json:"metricHistorySize"`

	// AlertLogSize caps the alert log.
	AlertLogSize int `json:"alertLogSize"`

	// Thresholds are the alert limits per metric.
	Thresholds *Thresholds `json:"thresholds,omitempty"`

	// Archive configures the optional SQLite archive.
	Archive *ArchiveSettings `json:"archive,omitempty"`
}

// Default returns a configuration with every option at its default.
func Default() *Config {
	return &Config{
		DefaultStrategy:      "balanced",
		DefaultMethod:        "hybrid",
		CacheSize:            10000,
		CompressionThreshold: 0.8,
		HistorySize:          1000,
		MetricHistorySize:    1000,
		AlertLogSize:         500,
		Thresholds: &Thresholds{
			ResponseTime:  5.0,
			ErrorRate:     0.1,
			ResourceUsage: 0.8,
		},
		Archive: &ArchiveSettings{Enabled: true},
	}
}

// GetDefaultConfigPath returns the path to ~/.tool-optimizer.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tool-optimizer.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				Path: path,
				Hint: "Run 'tool-optimizer config init' to create configuration",
			}
		}
		return nil, fmt.Errorf("failed to access config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &PermissionError{
				Path: path,
				Op:   "read",
				Fix:  fmt.Sprintf("Run: chmod 644 %s", path),
			}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("JSON parse error: %v", err),
			Hint:    "Restore from .bak file if available",
		}
	}

	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: err.Error(),
			Hint:    "Fix the option value and retry",
		}
	}

	return &cfg, nil
}

// LoadOrDefault loads the configuration from the default path, falling
// back to defaults when the file is missing or invalid. The failure is
// logged, never fatal.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		log.Printf("Warning: using default configuration: %v", err)
		return Default()
	}
	return cfg
}

// fillDefaults replaces zero-valued options with their defaults so a
// partial config file is usable.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.DefaultStrategy == "" {
		c.DefaultStrategy = defaults.DefaultStrategy
	}
	if c.DefaultMethod == "" {
		c.DefaultMethod = defaults.DefaultMethod
	}
	if c.CacheSize <= 0 {
		c.CacheSize = defaults.CacheSize
	}
	if c.CompressionThreshold <= 0 {
		c.CompressionThreshold = defaults.CompressionThreshold
	}
	if c.HistorySize <= 0 {
		c.HistorySize = defaults.HistorySize
	}
	if c.MetricHistorySize <= 0 {
		c.MetricHistorySize = defaults.MetricHistorySize
	}
	if c.AlertLogSize <= 0 {
		c.AlertLogSize = defaults.AlertLogSize
	}
	if c.Thresholds == nil {
		c.Thresholds = defaults.Thresholds
	}
	if c.Archive == nil {
		c.Archive = defaults.Archive
	}
}
