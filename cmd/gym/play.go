package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/platform/tui"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

var (
	flagPlayConfig     string
	flagPlayDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play <env>",
	Short: "Play an environment by hand",
	Long: `Start playing the specified environment.

Controls (one player):
  Space/W/Up   - Jump (runner) or move up
  S/Down       - Duck (runner) or move down
  A/D, arrows  - Move left/right
Controls (two players):
  W/A/S/D      - Player 1
  Arrows       - Player 2
Common:
  P/Esc        - Pause
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options (runner):
  easy   - Start at lowest obstacle speed, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  gym play runner
  gym play runner --difficulty hard
  gym play football
  gym play ctf --config ./my-ctf.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayConfig, "config", "", "Path to custom environment config YAML")
	playCmd.Flags().StringVar(&flagPlayDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(cmd *cobra.Command, args []string) error {
	envID := args[0]
	if err := requireEnv(envID); err != nil {
		return err
	}
	logger := newLogger("play")

	env, err := registry.Create(envID, registry.Options{
		Seed:       flagSeed,
		ConfigPath: flagPlayConfig,
		Difficulty: flagPlayDifficulty,
	})
	if err != nil {
		return err
	}
	if _, ok := env.(registry.Playable); !ok {
		return fmt.Errorf("%s has no manual controls; try 'gym watch %s'", envID, envID)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	return tui.Run(env, runtimeConfig(), tui.Options{Mode: tui.ModePlay, Store: store})
}
