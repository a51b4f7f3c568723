package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config <env>",
	Short: "Print the built-in configuration of an environment",
	Long: `Prints the embedded default YAML for an environment. Save it to
~/.arcade-gym/configs/<env>.yaml to override the defaults, or pass a copy
with --config.

Examples:
  gym config cartpole
  gym config runner > ~/.arcade-gym/configs/runner.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	envID := args[0]
	data, ok := config.Embedded(envID)
	if !ok {
		return fmt.Errorf("no built-in configuration for %q", envID)
	}
	_, err := os.Stdout.Write(data)
	return err
}
