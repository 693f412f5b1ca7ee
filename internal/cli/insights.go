package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/tool-optimizer/internal/engine"
	"github.com/khanglvm/tool-optimizer/internal/storage"
)

// NewInsightsCmd creates the 'insights' command for aggregated selection
// statistics.
func NewInsightsCmd() *cobra.Command {
	var since time.Duration
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show aggregated selection statistics and recommendations",
		Long: `Aggregate archived selections into totals, mean confidence, the
most frequent task types, and threshold-triggered recommendations.`,
		Example: `  tool-optimizer insights
  tool-optimizer insights --since 72h --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(since, jsonOutput)
		},
	}

	cmd.Flags().DurationVar(&since, "since", 7*24*time.Hour, "Archive lookback window")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runInsights prints selection insights. A one-shot process has an
// empty in-memory history, so archived selections fill the totals.
func runInsights(since time.Duration, jsonOutput bool) error {
	e, archive := newEngine()
	defer e.Close()

	insights := e.GetInsights()

	if insights.TotalOptimizations == 0 && archive != nil && archive.Enabled() {
		events, err := archive.SelectionHistory(time.Now().Add(-since))
		if err == nil && len(events) > 0 {
			insights = foldArchivedSelections(insights, events)
		}
	}

	if jsonOutput {
		return printJSON(insights)
	}

	if insights.TotalOptimizations == 0 {
		fmt.Println("No selections recorded yet.")
		fmt.Println("Run 'tool-optimizer select <task-type>' to start optimizing.")
		return nil
	}

	fmt.Printf("Total optimizations: %d\n", insights.TotalOptimizations)
	fmt.Printf("Average confidence:  %.2f\n", insights.AverageConfidence)

	if len(insights.TopTaskTypes) > 0 {
		fmt.Println("\nTop task types:")
		for _, entry := range insights.TopTaskTypes {
			fmt.Printf("  %-20s %d\n", entry.TaskType, entry.Count)
		}
	}

	if len(insights.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range insights.Recommendations {
			fmt.Printf("  • %s\n", rec)
		}
	}

	return nil
}

// foldArchivedSelections rebuilds the selection totals from archived
// events, keeping the live recommendations.
func foldArchivedSelections(insights engine.Insights, events []storage.SelectionEvent) engine.Insights {
	insights.TotalOptimizations = len(events)

	sum := 0.0
	counts := make(map[string]int)
	for _, event := range events {
		sum += event.Confidence
		counts[event.TaskType]++
	}
	insights.AverageConfidence = sum / float64(len(events))

	insights.TopTaskTypes = insights.TopTaskTypes[:0]
	for taskType, count := range counts {
		insights.TopTaskTypes = append(insights.TopTaskTypes, engine.TaskTypeCount{TaskType: taskType, Count: count})
	}
	sort.Slice(insights.TopTaskTypes, func(i, j int) bool {
		if insights.TopTaskTypes[i].Count != insights.TopTaskTypes[j].Count {
			return insights.TopTaskTypes[i].Count > insights.TopTaskTypes[j].Count
		}
		return insights.TopTaskTypes[i].TaskType < insights.TopTaskTypes[j].TaskType
	})
	if len(insights.TopTaskTypes) > 5 {
		insights.TopTaskTypes = insights.TopTaskTypes[:5]
	}

	return insights
}
