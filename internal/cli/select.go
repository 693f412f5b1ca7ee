package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/tool-optimizer/internal/selector"
)

// NewSelectCmd creates the 'select' command for running a tool selection.
func NewSelectCmd() *cobra.Command {
	var requirements []string
	var constraints []string
	var strategyFlag string
	var methodFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "select <task-type>",
		Short: "Select the best backend tools for a task",
		Long: `Run one tool selection against the capability registry and the
replayed performance telemetry.

Strategies: performance, accuracy, balanced, cost_effective
Methods:    context_based, performance_based, hybrid, machine_learning

When --strategy or --method are omitted, the configured defaults apply.`,
		Example: `  tool-optimizer select testing --require automated_testing
  tool-optimizer select research --strategy performance
  tool-optimizer select integration -r api_integration --constraint timeLimit=30s --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseConstraints(constraints)
			if err != nil {
				return err
			}
			return runSelect(args[0], requirements, parsed, strategyFlag, methodFlag, jsonOutput)
		},
	}

	cmd.Flags().StringSliceVarP(&requirements, "require", "r", nil, "Capability tags the task requires (repeatable)")
	cmd.Flags().StringSliceVarP(&constraints, "constraint", "c", nil, "Advisory key=value constraint (repeatable)")
	cmd.Flags().StringVarP(&strategyFlag, "strategy", "s", "", "Optimization strategy")
	cmd.Flags().StringVarP(&methodFlag, "method", "m", "", "Selection method")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// parseConstraints splits key=value pairs into a map.
func parseConstraints(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	constraints := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid constraint %q: expected key=value", pair)
		}
		constraints[key] = value
	}
	return constraints, nil
}

// runSelect performs the selection and prints the result.
func runSelect(taskType string, requirements []string, constraints map[string]string, strategyFlag, methodFlag string, jsonOutput bool) error {
	e, _ := newEngine()
	defer e.Close()

	cfg := e.Config()
	if strategyFlag == "" {
		strategyFlag = cfg.DefaultStrategy
	}
	if methodFlag == "" {
		methodFlag = cfg.DefaultMethod
	}

	strategy, err := selector.ParseStrategy(strategyFlag)
	if err != nil {
		return err
	}
	method, err := selector.ParseMethod(methodFlag)
	if err != nil {
		return err
	}

	result, err := e.SelectToolsWith(taskType, requirements, constraints, nil, strategy, method)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}

	if len(result.SelectedTools) == 0 {
		fmt.Println("No tools selected.")
		fmt.Println("Record telemetry with 'tool-optimizer record' so tools pass the availability check.")
		return nil
	}

	fmt.Printf("Selected tools (%d):\n", len(result.SelectedTools))
	for _, toolID := range result.SelectedTools {
		fmt.Printf("  %s\n", toolID)
		if prediction, ok := result.PerformancePrediction[toolID]; ok {
			fmt.Printf("    Predicted success:  %.2f\n", prediction.PredictedSuccessRate)
			fmt.Printf("    Predicted response: %.2fs\n", prediction.PredictedResponseTime)
		}
	}
	fmt.Println()
	fmt.Printf("Confidence: %.2f\n", result.ConfidenceScore)
	fmt.Printf("Reasoning:  %s\n", result.Reasoning)

	for _, alt := range result.Alternatives {
		fmt.Printf("Alternative (%s): %v\n", alt.Label, alt.Tools)
	}

	return nil
}
