package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/tool-optimizer/internal/config"
)

// NewConfigCmd creates the 'config' command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tool-optimizer configuration",
		Long:  `Inspect and initialize the configuration stored in ~/.tool-optimizer.json.`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

// newConfigInitCmd creates the 'config init' subcommand.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Example: `  tool-optimizer config init
  tool-optimizer config init --force  # overwrite existing config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration")

	return cmd
}

func runConfigInit(force bool) error {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Printf("Configuration already exists at %s\n", path)
		fmt.Println("Use --force to overwrite (the old file is kept as .bak).")
		return nil
	}

	if err := config.Save(config.Default(), path); err != nil {
		return err
	}

	fmt.Printf("Default configuration written to %s\n", path)
	return nil
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  `Print the loaded configuration, falling back to defaults when the file is missing or invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(config.LoadOrDefault())
		},
	}
}
