package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultStrategy != "balanced" {
		t.Errorf("expected default strategy balanced, got %s", cfg.DefaultStrategy)
	}
	if cfg.DefaultMethod != "hybrid" {
		t.Errorf("expected default method hybrid, got %s", cfg.DefaultMethod)
	}
	if cfg.CacheSize != 10000 {
		t.Errorf("expected cacheSize 10000, got %d", cfg.CacheSize)
	}
	if cfg.Thresholds == nil || cfg.Thresholds.ResponseTime != 5.0 {
		t.Error("expected responseTime threshold 5.0")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))

	var notFound *ConfigNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected ConfigNotFoundError, got %v", err)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	_, err := LoadFrom(path)

	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidConfigError, got %v", err)
	}
}

func TestLoadFrom_PartialConfigGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"defaultStrategy": "performance"}`), 0644)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultStrategy != "performance" {
		t.Errorf("expected performance, got %s", cfg.DefaultStrategy)
	}
	// Unset options fall back to defaults
	if cfg.DefaultMethod != "hybrid" {
		t.Errorf("expected default method hybrid, got %s", cfg.DefaultMethod)
	}
	if cfg.CacheSize != 10000 {
		t.Errorf("expected default cacheSize, got %d", cfg.CacheSize)
	}
}

func TestLoadFrom_RejectsUnknownStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"defaultStrategy": "cheapest"}`), 0644)

	_, err := LoadFrom(path)

	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidConfigError for unknown strategy, got %v", err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.DefaultStrategy = "accuracy"
	cfg.CacheSize = 42

	if err := Save(cfg, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.DefaultStrategy != "accuracy" {
		t.Errorf("expected accuracy, got %s", loaded.DefaultStrategy)
	}
	if loaded.CacheSize != 42 {
		t.Errorf("expected cacheSize 42, got %d", loaded.CacheSize)
	}
}

func TestSave_CreatesBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if err := Save(Default(), path); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	cfg := Default()
	cfg.CacheSize = 7
	if err := Save(cfg, path); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("expected backup file after overwrite: %v", err)
	}
}

func TestSave_RejectsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.CompressionThreshold = 2.5

	err := Save(cfg, filepath.Join(t.TempDir(), "config.json"))

	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidConfigError, got %v", err)
	}
}

func TestValidate_ThresholdBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero responseTime", func(c *Config) { c.Thresholds.ResponseTime = 0 }},
		{"errorRate above 1", func(c *Config) { c.Thresholds.ErrorRate = 1.5 }},
		{"negative resourceUsage", func(c *Config) { c.Thresholds.ResourceUsage = -0.1 }},
		{"zero historySize", func(c *Config) { c.HistorySize = 0 }},
		{"unknown method", func(c *Config) { c.DefaultMethod = "guess" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
