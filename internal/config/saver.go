package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Save writes config with atomic write + backup
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return &InvalidConfigError{
			Path:    path,
			Message: err.Error(),
			Hint:    "Fix the option value and try again",
		}
	}

	// 1. Backup existing config
	if err := backupConfig(path); err != nil {
		// Log warning but continue (first run = no backup needed)
		fmt.Fprintf(os.Stderr, "Warning: failed to create backup: %v\n", err)
	}

	// 2. Marshal JSON
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 3. Atomic write
	if err := atomicWrite(path, data); err != nil {
		if os.IsPermission(err) {
			return &PermissionError{
				Path:    path,
				Op:      "write",
				Fix:     getWritePermissionFix(path),
				Details: "Cannot write to config path",
			}
		}
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func backupConfig(path string) error {
	// Read existing file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // First run, no backup needed
		}
		return err
	}

	// Write to .bak
	bakPath := path + ".bak"
	return os.WriteFile(bakPath, data, 0644)
}

func atomicWrite(path string, data []byte) error {
	// Write to temp file in same directory
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, path)
}

func getWritePermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Grant 'Write' permission", path)
	default: // unix-like
		return fmt.Sprintf("Run: chmod u+w %s", path)
	}
}
