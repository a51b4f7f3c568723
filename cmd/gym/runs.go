package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/platform/tui"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

var (
	flagRunsLimit   int
	flagInteractive bool
	flagDeleteRun   string
)

var runsCmd = &cobra.Command{
	Use:   "runs [env]",
	Short: "Show recorded training runs",
	Long: `Lists training runs recorded by 'gym train', newest first.

Examples:
  gym runs
  gym runs cartpole --limit 5
  gym runs --interactive
  gym runs --delete 5f0c2b1e-8f0a-4c1e-9d52-3a7d1c7e9b10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum number of runs to show")
	runsCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in a table view")
	runsCmd.Flags().StringVar(&flagDeleteRun, "delete", "", "Delete the run with this id and its reports")
}

func runRuns(cmd *cobra.Command, args []string) error {
	envID := ""
	if len(args) == 1 {
		envID = args[0]
		if err := requireEnv(envID); err != nil {
			return err
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	if flagDeleteRun != "" {
		if err := store.DeleteRun(flagDeleteRun); err != nil {
			return err
		}
		fmt.Printf("Deleted run %s\n", flagDeleteRun)
		return nil
	}

	if flagInteractive {
		w, h := screenSize()
		return tui.RunBoard(store, envID, tui.ViewRuns, w, h)
	}

	runs, err := store.ListRuns(envID, flagRunsLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No training runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'gym train <env>' to record one.")
		return nil
	}

	fmt.Printf("  %-36s  %-10s  %-8s  %-9s  %-9s  %-8s  %s\n", "ID", "Env", "Episodes", "Mean", "Best", "Time", "Date")
	fmt.Printf("  %-36s  %-10s  %-8s  %-9s  %-9s  %-8s  %s\n", "--", "---", "--------", "----", "----", "----", "----")
	for _, r := range runs {
		fmt.Printf("  %-36s  %-10s  %-8d  %-9.2f  %-9.2f  %-8s  %s\n",
			r.ID, r.EnvID, r.Episodes, r.MeanReward, r.BestReward,
			r.Duration.Round(100*time.Millisecond), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
