// Package config provides YAML-based configuration for every environment:
// simulation constants and the Q-learning hyper-parameters used to train
// against it.
package config

import (
	"errors"
	"fmt"
)

// BoundsConfig defines the per-dimension discretization of an observation.
type BoundsConfig struct {
	Lower   []float64 `yaml:"lower"`
	Upper   []float64 `yaml:"upper"`
	Buckets []int     `yaml:"buckets"`
}

// EpsilonConfig defines the exponential exploration decay.
type EpsilonConfig struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Decay float64 `yaml:"decay"`
}

// TrainingConfig contains the tabular Q-learning hyper-parameters.
type TrainingConfig struct {
	Bounds      BoundsConfig  `yaml:"bounds"`
	Episodes    int           `yaml:"episodes"`
	MaxSteps    int           `yaml:"max_steps"` // 0 = only the environment ends episodes
	Alpha       float64       `yaml:"alpha"`
	Gamma       float64       `yaml:"gamma"`
	Epsilon     EpsilonConfig `yaml:"epsilon"`
	ReportEvery int           `yaml:"report_every"`
	Seed        int64         `yaml:"seed"`
}

// Validate checks that the hyper-parameters describe a usable run.
func (c TrainingConfig) Validate() error {
	var errs []error
	n := len(c.Bounds.Buckets)
	if n == 0 {
		errs = append(errs, errors.New("bounds: no dimensions"))
	}
	if len(c.Bounds.Lower) != n || len(c.Bounds.Upper) != n {
		errs = append(errs, fmt.Errorf("bounds: lower/upper/buckets lengths %d/%d/%d differ",
			len(c.Bounds.Lower), len(c.Bounds.Upper), n))
	}
	if c.Episodes < 0 {
		errs = append(errs, fmt.Errorf("episodes: %d is negative", c.Episodes))
	}
	if c.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max_steps: %d is negative", c.MaxSteps))
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		errs = append(errs, fmt.Errorf("alpha: %g not in (0, 1]", c.Alpha))
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		errs = append(errs, fmt.Errorf("gamma: %g not in [0, 1]", c.Gamma))
	}
	if c.Epsilon.Min < 0 || c.Epsilon.Max > 1 || c.Epsilon.Min > c.Epsilon.Max {
		errs = append(errs, fmt.Errorf("epsilon: need 0 <= min (%g) <= max (%g) <= 1",
			c.Epsilon.Min, c.Epsilon.Max))
	}
	if c.Epsilon.Decay < 0 {
		errs = append(errs, fmt.Errorf("epsilon: decay %g is negative", c.Epsilon.Decay))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid training section: %w", err)
	}
	return nil
}

// CartPoleConfig contains all configuration for the cart-pole simulation.
type CartPoleConfig struct {
	Physics  CartPolePhysics `yaml:"physics"`
	Training TrainingConfig  `yaml:"training"`
}

// CartPolePhysics defines the classic cart-pole constants.
type CartPolePhysics struct {
	Gravity        float64 `yaml:"gravity"`
	CartMass       float64 `yaml:"cart_mass"`
	PoleMass       float64 `yaml:"pole_mass"`
	Length         float64 `yaml:"length"` // half the pole length
	Force          float64 `yaml:"force"`
	Tau            float64 `yaml:"tau"` // seconds per tick
	XThreshold     float64 `yaml:"x_threshold"`
	ThetaThreshold float64 `yaml:"theta_threshold"` // radians
	MaxSteps       int     `yaml:"max_steps"`
	ResetNoise     float64 `yaml:"reset_noise"`
}

// RunnerConfig contains all configuration for the endless runner.
type RunnerConfig struct {
	World      RunnerWorld      `yaml:"world"`
	Player     RunnerPlayer     `yaml:"player"`
	Obstacle   RunnerObstacle   `yaml:"obstacle"`
	Physics    RunnerPhysics    `yaml:"physics"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Training   TrainingConfig   `yaml:"training"`
}

// RunnerWorld defines the playfield.
type RunnerWorld struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	FloorY     float64 `yaml:"floor_y"`
	ScoreEvery int     `yaml:"score_every"` // frames per score point
	MaxSteps   int     `yaml:"max_steps"`
}

// RunnerPlayer defines player parameters for the endless runner.
type RunnerPlayer struct {
	X          float64 `yaml:"x"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	DuckHeight float64 `yaml:"duck_height"`
	JumpForce  float64 `yaml:"jump_force"`
}

// RunnerObstacle defines obstacle parameters for the endless runner.
type RunnerObstacle struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"`
}

// RunnerPhysics defines physics parameters for the endless runner.
type RunnerPhysics struct {
	Gravity float64 `yaml:"gravity"`
}

// FootballConfig contains all configuration for the football game.
type FootballConfig struct {
	World    FootballWorld  `yaml:"world"`
	Player   ArenaPlayer    `yaml:"player"`
	Ball     FootballBall   `yaml:"ball"`
	Match    MatchConfig    `yaml:"match"`
	Training TrainingConfig `yaml:"training"`
}

// FootballWorld defines the screen and pitch proportions.
type FootballWorld struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	PitchScale float64 `yaml:"pitch_scale"`
	GoalWidth  float64 `yaml:"goal_width"`  // fraction of the pitch width
	GoalHeight float64 `yaml:"goal_height"` // fraction of the pitch height
}

// FootballBall defines ball parameters.
type FootballBall struct {
	Size     float64 `yaml:"size"`
	Friction float64 `yaml:"friction"`
}

// ArenaPlayer defines a square player moving in 8 directions.
type ArenaPlayer struct {
	Size  float64 `yaml:"size"`
	Speed float64 `yaml:"speed"`
}

// MatchConfig defines how a two-player match ends and how the CPU plays.
type MatchConfig struct {
	WinScore int     `yaml:"win_score"`
	MaxSteps int     `yaml:"max_steps"`
	CPUSkill float64 `yaml:"cpu_skill"` // chance per tick that the CPU reacts (0-1)
}

// CTFConfig contains all configuration for capture-the-flag.
type CTFConfig struct {
	World    CTFWorld       `yaml:"world"`
	Player   ArenaPlayer    `yaml:"player"`
	Flag     CTFFlag        `yaml:"flag"`
	Match    MatchConfig    `yaml:"match"`
	Training TrainingConfig `yaml:"training"`
}

// CTFWorld defines the field.
type CTFWorld struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// CTFFlag defines the flags in opposite corners.
type CTFFlag struct {
	Size float64 `yaml:"size"`
}

// DifficultyConfig defines the obstacle speed progression.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ParsePreset validates a preset name.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (easy, normal, hard, fixed)", name)
}

// ApplyPreset modifies a difficulty section based on a preset.
// The fixed preset disables progression, which is what training expects.
func ApplyPreset(cfg *DifficultyConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Enabled = false
		return
	}
	cfg.Enabled = true
	cfg.InitialLevel = InitialLevelForPreset(preset)
}
