/*
Package main is the entry point for the tool-optimizer CLI.

tool-optimizer selects the best backend tools for a task by combining a
static capability registry with live performance telemetry, and keeps
the telemetry in a local SQLite archive so every invocation builds on
past observations.

Usage:
  tool-optimizer [command]

Available Commands:
  select      Select the best backend tools for a task
  record      Record one telemetry sample for a tool
  summary     Show the aggregated performance state of all tools
  insights    Show aggregated selection statistics and recommendations
  search      Search tools by capability
  history     List archived selection events
  export      Export an engine state snapshot as JSON
  benchmark   Compare optimization strategies on a synthetic workload
  tools       List the registered backend tools
  config      Manage configuration
  version     Show version information
  help        Help about any command

Examples:
  # Pick tools for a testing task
  tool-optimizer select testing --require automated_testing

  # Report an outcome back
  tool-optimizer record test-runner successRate 0.95

  # Inspect the pool
  tool-optimizer summary
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/tool-optimizer/internal/cli"
	"github.com/khanglvm/tool-optimizer/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tool-optimizer",
		Short: "Adaptive backend tool selection driven by live telemetry",
		Long: `tool-optimizer decides which backend tools should handle a task.

It combines a static capability registry with live performance metrics
(success rate, response time, error rate, resource usage) and supports
four optimization strategies:
  • performance    - favor fast, reliable tools
  • accuracy       - favor capability fit over raw speed
  • balanced       - weigh both equally
  • cost_effective - balanced selection at current pricing

Selections, telemetry, and alerts are archived in a local SQLite
database so each invocation learns from the ones before it.`,
		Version: version.GetVersion(),
	}

	// Add subcommands
	rootCmd.AddCommand(cli.NewSelectCmd())
	rootCmd.AddCommand(cli.NewRecordCmd())
	rootCmd.AddCommand(cli.NewSummaryCmd())
	rootCmd.AddCommand(cli.NewInsightsCmd())
	rootCmd.AddCommand(cli.NewSearchCmd())
	rootCmd.AddCommand(cli.NewHistoryCmd())
	rootCmd.AddCommand(cli.NewExportCmd())
	rootCmd.AddCommand(cli.NewBenchmarkCmd())
	rootCmd.AddCommand(cli.NewToolsCmd())
	rootCmd.AddCommand(cli.NewConfigCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
