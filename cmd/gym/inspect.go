package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/qlearn"
	"github.com/vovakirdan/arcade-gym/internal/qtable"
	"github.com/vovakirdan/arcade-gym/internal/registry"
	"github.com/vovakirdan/arcade-gym/internal/report"
)

var (
	flagInspectModel string
	flagNoColor      bool
	flagLimit        int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <env>",
	Short: "Print the visited states of a trained Q-table",
	Long: `Loads a Q-table and prints a summary followed by every state the agent
visited, with the greedy action highlighted.

Examples:
  gym inspect cartpole
  gym inspect runner --model runner.npy --limit 50
  gym inspect cartpole --no-color | less`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&flagInspectModel, "model", "", "Q-table .npy path (default ~/.arcade-gym/models/<env>.npy)")
	inspectCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	inspectCmd.Flags().IntVar(&flagLimit, "limit", 40, "Maximum number of states to print (0 = all)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	envID := args[0]
	if err := requireEnv(envID); err != nil {
		return err
	}

	cfg, err := config.LoadTraining(envID, "")
	if err != nil {
		return err
	}
	env, err := registry.Create(envID, registry.Options{})
	if err != nil {
		return err
	}
	agent, err := qlearn.NewAgent(env, cfg)
	if err != nil {
		return err
	}

	path := flagInspectModel
	if path == "" {
		path = defaultModelPath(envID)
	}
	table, err := qtable.LoadShaped(path, agent.Shape())
	if err != nil {
		return err
	}

	color := !flagNoColor && term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Printf("%s - %s\n\n", envTitle(envID), path)
	return report.DumpTable(os.Stdout, table, agent.Actions(), color, flagLimit)
}
