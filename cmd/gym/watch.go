package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/platform/tui"
	"github.com/vovakirdan/arcade-gym/internal/qlearn"
	"github.com/vovakirdan/arcade-gym/internal/qtable"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

var (
	flagModels      []string
	flagWatchEps    int
	flagHeadless    bool
	flagWatchConfig string
)

var watchCmd = &cobra.Command{
	Use:   "watch <env>",
	Short: "Watch a trained agent play",
	Long: `Loads a Q-table and lets the greedy policy drive the environment in the
terminal. Several --model paths may be given; the first one that loads
with the expected shape is used.

Controls:
  P/Esc      - Pause
  +/-        - Speed up / slow down
  Q/Ctrl+C   - Quit

Examples:
  gym watch cartpole --model ~/.arcade-gym/models/cartpole.npy
  gym watch runner --model runner.npy --model backup.npy
  gym watch cartpole --model cartpole.npy --headless --episodes 20`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringArrayVar(&flagModels, "model", nil, "Q-table .npy path (repeatable, first loadable wins)")
	watchCmd.Flags().IntVar(&flagWatchEps, "episodes", 0, "Stop after this many episodes (0 = until quit; headless default 10)")
	watchCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without the TUI and print evaluation statistics")
	watchCmd.Flags().StringVar(&flagWatchConfig, "config", "", "Path to custom environment config YAML")
}

func runWatch(cmd *cobra.Command, args []string) error {
	envID := args[0]
	if err := requireEnv(envID); err != nil {
		return err
	}
	logger := newLogger("watch")

	cfg, err := config.LoadTraining(envID, flagWatchConfig)
	if err != nil {
		return err
	}
	env, err := registry.Create(envID, registry.Options{Seed: flagSeed, ConfigPath: flagWatchConfig})
	if err != nil {
		return err
	}
	agent, err := qlearn.NewAgent(env, cfg)
	if err != nil {
		return err
	}

	models := flagModels
	if len(models) == 0 {
		models = []string{defaultModelPath(envID)}
	}
	table, path, err := qtable.LoadAny(agent.Shape(), models...)
	if err != nil {
		return err
	}
	if err := agent.Use(table); err != nil {
		return err
	}
	logger.Info("model loaded", "path", path, "visited", table.Visited(), "states", table.States())

	if flagHeadless {
		n := flagWatchEps
		if n <= 0 {
			n = 10
		}
		ev, err := agent.Evaluate(n)
		if err != nil {
			return err
		}
		for _, ep := range ev.Episodes {
			fmt.Printf("  episode %3d  reward %8.2f  steps %5d  %s\n", ep.Episode+1, ep.Reward, ep.Steps, ep.Reason)
		}
		fmt.Printf("\nmean %.2f  stddev %.2f over %d episodes\n", ev.Mean, ev.StdDev, len(ev.Episodes))
		return nil
	}

	return tui.Run(env, runtimeConfig(), tui.Options{
		Mode:     tui.ModeWatch,
		Policy:   greedyPolicy(agent, agent.Actions()[0], logger),
		Episodes: flagWatchEps,
	})
}

// actionPicker is the part of the agent a watch policy needs.
type actionPicker interface {
	Greedy(obs core.Observation) (core.Action, error)
}

// greedyPolicy follows p and falls back to fallback when p cannot pick an
// action. The first such failure is logged; later ones are not.
func greedyPolicy(p actionPicker, fallback core.Action, logger *log.Logger) tui.Policy {
	var warned bool
	return func(obs core.Observation) core.Action {
		a, err := p.Greedy(obs)
		if err != nil {
			if !warned {
				logger.Error("policy failed, using fallback action", "fallback", fallback, "err", err)
				warned = true
			}
			return fallback
		}
		return a
	}
}
