/*
Package storage implements a persistent archive for selections and telemetry.

This package provides SQLite-based storage for selection events, metric
samples, and alerts with graceful degradation if the database is
unavailable: a failed open disables the archive and every operation
becomes a warn-and-continue no-op.

The database is stored at ~/.tool-optimizer/history.db and uses
modernc.org/sqlite (a pure Go, CGo-free implementation).
*/
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Storage defines the interface for persistent archive operations.
type Storage interface {
	// Init initializes the database and runs migrations.
	Init() error

	// RecordSelection archives one selection event.
	RecordSelection(event SelectionEvent) error

	// SelectionHistory retrieves archived selections since a given time,
	// newest first.
	SelectionHistory(since time.Time) ([]SelectionEvent, error)

	// RecordSample archives one metric sample.
	RecordSample(sample MetricSample) error

	// RecordAlert archives one threshold alert.
	RecordAlert(alert AlertRecord) error

	// RecentSamples retrieves archived metric samples since a given time,
	// oldest first.
	RecentSamples(since time.Time) ([]MetricSample, error)

	// ToolSuccessScores aggregates the mean archived successRate per tool
	// since a given time.
	ToolSuccessScores(since time.Time) (map[string]float64, error)

	// Cleanup removes records older than the retention period.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStorage creates a new SQLite archive instance.
//
// The database is created at ~/.tool-optimizer/history.db. If the
// directory doesn't exist, it will be created. If the database cannot
// be opened, the archive is disabled but operations will not fail.
func NewStorage() *SQLiteStorage {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: failed to get home directory: %v", err)
		return &SQLiteStorage{enabled: false}
	}

	return NewStorageAt(filepath.Join(home, ".tool-optimizer", "history.db"))
}

// NewStorageAt creates an archive backed by a database at a specific path.
func NewStorageAt(dbPath string) *SQLiteStorage {
	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}
}

// Init initializes the database and runs migrations.
//
// If initialization fails, the archive is disabled and subsequent
// operations become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		// Ensure directory exists
		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
	})

	return initErr
}

// Enabled reports whether the archive is operational.
func (s *SQLiteStorage) Enabled() bool {
	return s.enabled
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}

// HashContext creates a SHA256 hash of a context fingerprint for privacy.
func HashContext(context string) string {
	hash := sha256.Sum256([]byte(context))
	return hex.EncodeToString(hash[:])
}
