/*
Package cli implements the tool-optimizer command-line interface.

Each command is constructed by a NewXxxCmd function returning a
*cobra.Command, and the root command in cmd/tool-optimizer wires them
together. Commands that need live state build an engine from the user
configuration and replay recent archived telemetry, so a one-shot
process sees the metrics recorded by earlier invocations.
*/
package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/khanglvm/tool-optimizer/internal/config"
	"github.com/khanglvm/tool-optimizer/internal/engine"
	"github.com/khanglvm/tool-optimizer/internal/storage"
)

// rehydrateWindow is how far back archived telemetry is replayed when a
// command starts.
const rehydrateWindow = 24 * time.Hour

// newEngine builds an engine from the user configuration, wires the
// archive, and replays recent telemetry. The returned archive is nil
// when archiving is disabled.
func newEngine() (*engine.Engine, *storage.SQLiteStorage) {
	cfg := config.LoadOrDefault()

	var archive *storage.SQLiteStorage
	if cfg.Archive != nil && cfg.Archive.Enabled {
		if cfg.Archive.Path != "" {
			archive = storage.NewStorageAt(cfg.Archive.Path)
		} else {
			archive = storage.NewStorage()
		}
		if err := archive.Init(); err != nil {
			log.Printf("Warning: selection archive unavailable: %v", err)
		}
	}

	var opts []engine.Option
	if archive != nil {
		opts = append(opts, engine.WithArchive(archive))
	}

	e := engine.New(cfg, opts...)
	if err := e.RehydrateFromArchive(rehydrateWindow); err != nil {
		log.Printf("Warning: failed to replay archived telemetry: %v", err)
	}

	return e, archive
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
