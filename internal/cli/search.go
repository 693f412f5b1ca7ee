package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the 'search' command for capability search.
func NewSearchCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tools by capability and re-rank by live performance",
		Long: `Full-text search over the capability registry. Hits are fused with
each tool's current performance score, so a relevant but degraded tool
ranks below a relevant healthy one.`,
		Example: `  tool-optimizer search "automated testing"
  tool-optimizer search documentation --limit 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "), limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of results")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runSearch queries the capability index and prints the fused ranking.
func runSearch(query string, limit int, jsonOutput bool) error {
	e, _ := newEngine()
	defer e.Close()

	results, err := e.FindTools(query, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Printf("No tools match %q.\n", query)
		return nil
	}

	fmt.Printf("Tools matching %q (%d):\n\n", query, len(results))
	for _, result := range results {
		fmt.Printf("  %s (score %.3f)\n", result.ToolID, result.Score)
		fmt.Printf("    Capabilities: %s\n", result.Capabilities)
		if result.BestFor != "" {
			fmt.Printf("    Best for:     %s\n", result.BestFor)
		}
		fmt.Println()
	}

	return nil
}
