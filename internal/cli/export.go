package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExportCmd creates the 'export' command for snapshotting engine state.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export an engine state snapshot as JSON",
		Long: `Serialize the configuration, optimization history, performance
summary, and insights to a JSON file. The export is one-way: there is
no corresponding import command.`,
		Example: `  tool-optimizer export
  tool-optimizer export /tmp/optimizer-snapshot.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "tool-optimizer-snapshot.json"
			if len(args) == 1 {
				path = args[0]
			}
			return runExport(path)
		},
	}

	return cmd
}

// runExport writes the snapshot file.
func runExport(path string) error {
	e, _ := newEngine()
	defer e.Close()

	if err := e.ExportSnapshot(path); err != nil {
		return err
	}

	fmt.Printf("Snapshot written to %s\n", path)
	return nil
}
