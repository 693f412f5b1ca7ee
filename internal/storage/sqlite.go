/*
Package storage provides SQLite database migrations and helper functions.

This file contains schema definitions, migration logic, and tool-list
serialization utilities for the archive layer.
*/
package storage

import (
	"encoding/json"
	"fmt"
	"log"
)

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	// Create migrations table
	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	// Get current version
	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	// Run migrations in order
	migrations := []migration{
		{version: 1, name: "initial_schema", up: s.migration001InitialSchema},
	}

	for _, m := range migrations {
		if version < m.version {
			log.Printf("Running migration %d: %s", m.version, m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := s.db.Exec(query)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	query := "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"
	row := s.db.QueryRow(query)

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *SQLiteStorage) setMigrationVersion(version int) error {
	query := "INSERT INTO schema_migrations (version, name) VALUES (?, ?)"
	_, err := s.db.Exec(query, version, fmt.Sprintf("migration_%d", version))
	return err
}

// migration001InitialSchema creates the initial database schema.
func (s *SQLiteStorage) migration001InitialSchema() error {
	// Create selection_events table
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS selection_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			selection_id TEXT NOT NULL UNIQUE,
			task_type TEXT NOT NULL,
			context_hash TEXT NOT NULL,
			selected_tools TEXT NOT NULL,
			confidence REAL NOT NULL,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create selection_events table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_selection_events_task
		ON selection_events(task_type)
	`); err != nil {
		return fmt.Errorf("failed to create selection_events task index: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_selection_events_timestamp
		ON selection_events(timestamp DESC)
	`); err != nil {
		return fmt.Errorf("failed to create selection_events timestamp index: %w", err)
	}

	// Create metric_samples table
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS metric_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			value REAL NOT NULL,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create metric_samples table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_metric_samples_tool_kind
		ON metric_samples(tool_id, kind)
	`); err != nil {
		return fmt.Errorf("failed to create metric_samples index: %w", err)
	}

	// Create alert_log table
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS alert_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			value REAL NOT NULL,
			threshold REAL NOT NULL,
			severity TEXT NOT NULL,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create alert_log table: %w", err)
	}

	return nil
}

// toolsToJSON serializes a tool list for storage.
func toolsToJSON(tools []string) string {
	data, err := json.Marshal(tools)
	if err != nil {
		log.Printf("Warning: failed to marshal tool list: %v", err)
		return "[]"
	}
	return string(data)
}

// jsonToTools parses a stored tool list.
func jsonToTools(jsonStr string) ([]string, error) {
	var tools []string
	if err := json.Unmarshal([]byte(jsonStr), &tools); err != nil {
		return nil, err
	}
	return tools, nil
}
