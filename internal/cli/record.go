package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRecordCmd creates the 'record' command for ingesting telemetry.
func NewRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <tool-id> <kind> <value>",
		Short: "Record one telemetry sample for a tool",
		Long: `Record a metric sample into the performance store and the archive.

Metric kinds: responseTime, successRate, errorRate, throughput, resourceUsage.
Rate kinds are clamped to [0, 1]; negative or non-finite values are rejected.`,
		Example: `  tool-optimizer record test-runner successRate 0.95
  tool-optimizer record api-gateway responseTime 3.2`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid metric value %q: %w", args[2], err)
			}
			return runRecord(args[0], args[1], value)
		},
	}

	return cmd
}

// runRecord ingests the sample and reports any alert it raised.
func runRecord(toolID, kind string, value float64) error {
	e, _ := newEngine()
	defer e.Close()

	alert, err := e.RecordMetric(toolID, kind, value)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %s=%.3f for %s\n", kind, value, toolID)
	if alert != nil {
		fmt.Printf("⚠ Alert (%s): %s %.3f exceeds threshold %.3f\n",
			alert.Severity, alert.Kind, alert.Value, alert.Threshold)
	}

	return nil
}
