package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/tool-optimizer/internal/registry"
)

// NewToolsCmd creates the 'tools' command for listing the registry.
func NewToolsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "tools",
		Aliases: []string{"ls"},
		Short:   "List the registered backend tools and their capabilities",
		Example: `  tool-optimizer tools
  tool-optimizer ls
  tool-optimizer tools --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTools(jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runTools prints the capability registry in registration order.
func runTools(jsonOutput bool) error {
	reg := registry.Default()

	if jsonOutput {
		return printJSON(reg.Tools())
	}

	tools := reg.Tools()
	fmt.Printf("Registered tools (%d):\n\n", len(tools))
	for _, tool := range tools {
		fmt.Printf("  %s\n", tool.ToolID)
		fmt.Printf("    Capabilities: %s\n", strings.Join(tool.Capabilities, ", "))
		fmt.Printf("    Strengths:    %s\n", strings.Join(tool.Strengths, ", "))
		fmt.Printf("    Best for:     %s\n", strings.Join(tool.BestFor, ", "))
		fmt.Println()
	}

	return nil
}
