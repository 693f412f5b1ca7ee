package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/khanglvm/tool-optimizer/internal/config"
)

// Snapshot is the exported engine state. The export is one-way: there
// is no corresponding import or restore operation.
type Snapshot struct {
	Config              *config.Config       `json:"config"`
	OptimizationHistory []OptimizationRecord `json:"optimizationHistory"`
	PerformanceSummary  Summary              `json:"performanceSummary"`
	Insights            Insights             `json:"insights"`
	Timestamp           string               `json:"timestamp"`
}

// BuildSnapshot assembles the current engine state for export.
func (e *Engine) BuildSnapshot() Snapshot {
	return Snapshot{
		Config:              e.cfg,
		OptimizationHistory: e.History(),
		PerformanceSummary:  e.PerformanceSummary(),
		Insights:            e.GetInsights(),
		Timestamp:           time.Now().UTC().Format(time.RFC3339),
	}
}

// ExportSnapshot serializes the engine state to a JSON file.
func (e *Engine) ExportSnapshot(path string) error {
	snapshot := e.BuildSnapshot()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// Write via a temp file so a crash cannot leave a torn snapshot
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	return nil
}
