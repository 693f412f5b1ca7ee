package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/tool-optimizer/internal/benchmark"
	"github.com/khanglvm/tool-optimizer/internal/registry"
	"github.com/khanglvm/tool-optimizer/internal/telemetry"
)

// NewBenchmarkCmd creates the 'benchmark' command for strategy comparison.
func NewBenchmarkCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Compare optimization strategies on a synthetic workload",
		Long: `Replay a fixed task mix against every strategy using deterministic
seeded telemetry and report mean confidence and mean predicted response
time per strategy. Two runs produce identical reports.`,
		Example: `  tool-optimizer benchmark
  tool-optimizer benchmark --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runBenchmark seeds a fresh store and prints the strategy report.
func runBenchmark(jsonOutput bool) error {
	reg := registry.Default()
	store := telemetry.NewStore()

	if err := benchmark.SeedTelemetry(store); err != nil {
		return fmt.Errorf("failed to seed benchmark telemetry: %w", err)
	}

	report := benchmark.Run(reg, store)

	if jsonOutput {
		return printJSON(report)
	}

	fmt.Print(benchmark.FormatReport(report))
	return nil
}
