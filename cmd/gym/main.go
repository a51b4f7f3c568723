// gym trains tabular Q-learning agents on small arcade simulations and lets
// you watch them, or play the games yourself, in the terminal.
//
// Usage:
//
//	gym list                      - List available environments
//	gym train <env>               - Train a Q-table and record the run
//	gym watch <env> --model f     - Watch a trained agent play
//	gym play <env>                - Play an environment by hand
//	gym inspect <env> --model f   - Dump a trained Q-table
//	gym runs [env]                - Show recorded training runs
//	gym scores <env>              - Show manual-play high scores
//	gym config <env>              - Print the default configuration
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible runs
//	--db <path>          - Set database path (default: ~/.arcade-gym/gym.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/registry"
	"github.com/vovakirdan/arcade-gym/internal/storage"

	// Import environments to register them
	_ "github.com/vovakirdan/arcade-gym/internal/games/cartpole"
	_ "github.com/vovakirdan/arcade-gym/internal/games/ctf"
	_ "github.com/vovakirdan/arcade-gym/internal/games/football"
	_ "github.com/vovakirdan/arcade-gym/internal/games/runner"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gym",
	Short: "Arcade Gym - train Q-learning agents on terminal arcade games",
	Long: `Arcade Gym bundles four small simulations (cart-pole, an endless
runner, football and capture-the-flag) with a tabular Q-learning trainer.

Examples:
  gym list
  gym train cartpole --progress --chart cartpole.html
  gym watch cartpole --model ~/.arcade-gym/models/cartpole.npy
  gym play football
  gym runs cartpole`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config value, then time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade-gym/gym.db", "Path to the runs and scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger returns a stderr logger honoring --log-level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
	}
	return logger
}

// requireEnv fails with a hint when id is not registered.
func requireEnv(id string) error {
	if !registry.Exists(id) {
		return fmt.Errorf("unknown environment %q (run 'gym list' to see available environments)", id)
	}
	return nil
}

// runtimeConfig builds the front-end config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.ScreenW, cfg.ScreenH = screenSize()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the database; failures are logged and yield nil.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, continuing without it", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// envTitle returns the display title of a registered environment.
func envTitle(id string) string {
	for _, info := range registry.List() {
		if info.ID == id {
			return info.Title
		}
	}
	return id
}

// defaultModelPath is where train saves a table when --out is not given.
func defaultModelPath(envID string) string {
	return filepath.Join(config.DataDir(), "models", envID+".npy")
}

// screenSize returns the terminal size, defaulting to 80x24.
func screenSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80, 24
	}
	return w, h
}
