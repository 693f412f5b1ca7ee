package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSummaryCmd creates the 'summary' command for the performance report.
func NewSummaryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the aggregated performance state of all tools",
		Long: `Display per-tool performance state (success rate, response time,
error rate, resource usage), recent trends, and an overall health
classification derived from replayed telemetry.`,
		Example: `  tool-optimizer summary
  tool-optimizer summary --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runSummary prints the performance summary.
func runSummary(jsonOutput bool) error {
	e, _ := newEngine()
	defer e.Close()

	summary := e.PerformanceSummary()

	if jsonOutput {
		return printJSON(summary)
	}

	if len(summary.Tools) == 0 {
		fmt.Println("No telemetry recorded.")
		fmt.Println("Run 'tool-optimizer record <tool-id> <kind> <value>' to start collecting.")
		return nil
	}

	fmt.Printf("Overall health: %s (%d alerts retained)\n\n", summary.OverallHealth, summary.AlertCount)

	for _, tool := range summary.Tools {
		state := tool.State
		fmt.Printf("  %s\n", state.ToolID)
		fmt.Printf("    Success rate:   %.2f\n", state.SuccessRate)
		fmt.Printf("    Response time:  %.2fs\n", state.ResponseTime)
		fmt.Printf("    Error rate:     %.2f\n", state.ErrorRate)
		fmt.Printf("    Resource usage: %.2f\n", state.ResourceUsage)
		fmt.Println()
	}

	return nil
}
