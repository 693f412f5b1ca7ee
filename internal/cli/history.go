package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/tool-optimizer/internal/config"
	"github.com/khanglvm/tool-optimizer/internal/storage"
)

// NewHistoryCmd creates the 'history' command for archived selections.
func NewHistoryCmd() *cobra.Command {
	var since time.Duration
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived selection events, newest first",
		Example: `  tool-optimizer history
  tool-optimizer history --since 1h
  tool-optimizer history --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(since, jsonOutput)
		},
	}

	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "Archive lookback window")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runHistory reads the archive directly; no engine is needed.
func runHistory(since time.Duration, jsonOutput bool) error {
	cfg := config.LoadOrDefault()

	if cfg.Archive == nil || !cfg.Archive.Enabled {
		fmt.Println("Selection archive is disabled.")
		fmt.Println("Enable it in ~/.tool-optimizer.json under \"archive\".")
		return nil
	}

	var archive *storage.SQLiteStorage
	if cfg.Archive.Path != "" {
		archive = storage.NewStorageAt(cfg.Archive.Path)
	} else {
		archive = storage.NewStorage()
	}
	if err := archive.Init(); err != nil {
		return fmt.Errorf("failed to open selection archive: %w", err)
	}
	defer archive.Close()

	events, err := archive.SelectionHistory(time.Now().Add(-since))
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(events)
	}

	if len(events) == 0 {
		fmt.Println("No archived selections in the window.")
		return nil
	}

	fmt.Printf("Archived selections (%d):\n\n", len(events))
	for _, event := range events {
		fmt.Printf("  %s  %-16s %.2f  %s\n",
			event.Timestamp.Format("2006-01-02 15:04:05"),
			event.TaskType,
			event.Confidence,
			strings.Join(event.SelectedTools, ", "),
		)
	}

	return nil
}
