package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/qlearn"
	"github.com/vovakirdan/arcade-gym/internal/qtable"
	"github.com/vovakirdan/arcade-gym/internal/registry"
	"github.com/vovakirdan/arcade-gym/internal/report"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagEpisodes   int
	flagOut        string
	flagResume     string
	flagChart      string
	flagProgress   bool
)

var trainCmd = &cobra.Command{
	Use:   "train <env>",
	Short: "Train a Q-table for an environment",
	Long: `Runs epsilon-greedy tabular Q-learning with the hyper-parameters in the
environment's config (training section), saves the table as a .npy file
and records the run in the database.

Examples:
  gym train cartpole
  gym train runner --episodes 2000 --progress
  gym train cartpole --resume ~/.arcade-gym/models/cartpole.npy
  gym train football --chart football.html --seed 7`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom environment config YAML")
	trainCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset for the runner: easy, normal, hard, fixed")
	trainCmd.Flags().IntVar(&flagEpisodes, "episodes", 0, "Override the number of training episodes")
	trainCmd.Flags().StringVar(&flagOut, "out", "", "Output .npy path (default ~/.arcade-gym/models/<env>.npy)")
	trainCmd.Flags().StringVar(&flagResume, "resume", "", "Continue training from an existing .npy table")
	trainCmd.Flags().StringVar(&flagChart, "chart", "", "Write an HTML reward chart to this path")
	trainCmd.Flags().BoolVar(&flagProgress, "progress", false, "Show a live progress line")
}

// reportCollector keeps the periodic episode reports for the run store.
type reportCollector struct {
	all      []qlearn.EpisodeStats
	reported []storage.EpisodeReport
	next     qlearn.Observer
}

func (c *reportCollector) OnEpisode(s qlearn.EpisodeStats) {
	c.all = append(c.all, s)
	if s.Reported {
		c.reported = append(c.reported, storage.EpisodeReport{
			Episode: s.Episode,
			Reward:  s.Reward,
			Epsilon: s.Epsilon,
			Steps:   s.Steps,
		})
	}
	if c.next != nil {
		c.next.OnEpisode(s)
	}
}

func runTrain(cmd *cobra.Command, args []string) error {
	envID := args[0]
	if err := requireEnv(envID); err != nil {
		return err
	}
	logger := newLogger("train")

	cfg, err := config.LoadTraining(envID, flagConfig)
	if err != nil {
		return err
	}
	if flagEpisodes > 0 {
		cfg.Episodes = flagEpisodes
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}

	env, err := registry.Create(envID, registry.Options{
		Seed:       cfg.Seed,
		ConfigPath: flagConfig,
		Difficulty: flagDifficulty,
	})
	if err != nil {
		return err
	}

	collector := &reportCollector{}
	var progress *report.Progress
	if flagProgress {
		progress = report.NewProgress(os.Stdout, cfg.Episodes)
		collector.next = progress
	}

	opts := []qlearn.Option{qlearn.WithObserver(collector)}
	if !flagProgress {
		opts = append(opts, qlearn.WithLogger(logger))
	}
	agent, err := qlearn.NewAgent(env, cfg, opts...)
	if err != nil {
		return err
	}

	var res qlearn.Result
	if flagResume != "" {
		table, loadErr := qtable.LoadShaped(flagResume, agent.Shape())
		if loadErr != nil {
			return loadErr
		}
		logger.Info("resuming", "from", flagResume, "visited", table.Visited())
		res, err = agent.TrainFrom(table)
	} else {
		res, err = agent.Train()
	}
	if progress != nil {
		progress.Close()
	}
	if err != nil {
		return err
	}

	out := flagOut
	if out == "" {
		out = defaultModelPath(envID)
	}
	if err := agent.Save(out); err != nil {
		return err
	}

	logger.Info("training complete",
		"env", envID,
		"episodes", len(res.Episodes),
		"mean", fmt.Sprintf("%.2f", res.Mean()),
		"best", res.Best(),
		"duration", res.Duration,
		"model", out,
	)

	if flagChart != "" {
		if err := report.SaveChart(flagChart, fmt.Sprintf("%s training", envID), collector.all); err != nil {
			return err
		}
		logger.Info("chart written", "path", flagChart)
	}

	if store := openStore(logger); store != nil {
		defer store.Close()
		if err := recordRun(store, envID, cfg, res, out, collector.reported); err != nil {
			logger.Warn("could not record run", "err", err)
		}
	}
	return nil
}

func recordRun(store *storage.Store, envID string, cfg config.TrainingConfig, res qlearn.Result, model string, reports []storage.EpisodeReport) error {
	id, err := store.SaveRun(storage.Run{
		EnvID:      envID,
		Episodes:   len(res.Episodes),
		Alpha:      cfg.Alpha,
		Gamma:      cfg.Gamma,
		Seed:       cfg.Seed,
		MeanReward: res.Mean(),
		BestReward: res.Best(),
		ModelPath:  model,
		Duration:   res.Duration,
	})
	if err != nil {
		return err
	}
	for i := range reports {
		reports[i].RunID = id
	}
	return store.AddReports(reports)
}
