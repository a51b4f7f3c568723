package config

import (
	_ "embed"
)

//go:embed defaults/cartpole.yaml
var defaultCartPoleYAML []byte

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

//go:embed defaults/football.yaml
var defaultFootballYAML []byte

//go:embed defaults/ctf.yaml
var defaultCTFYAML []byte

// DefaultCartPoleConfig returns the default cart-pole configuration.
func DefaultCartPoleConfig() CartPoleConfig {
	return CartPoleConfig{
		Physics: CartPolePhysics{
			Gravity:        9.8,
			CartMass:       1.0,
			PoleMass:       0.1,
			Length:         0.5,
			Force:          10.0,
			Tau:            0.02,
			XThreshold:     4.8,
			ThetaThreshold: 0.42,
			MaxSteps:       500,
			ResetNoise:     0.05,
		},
		Training: TrainingConfig{
			Bounds: BoundsConfig{
				Lower:   []float64{-4.8, -3.4, -0.42, -3.4},
				Upper:   []float64{4.8, 3.4, 0.42, 3.4},
				Buckets: []int{1, 1, 6, 5},
			},
			Episodes:    501,
			Alpha:       0.1,
			Gamma:       0.9,
			Epsilon:     EpsilonConfig{Min: 0.1, Max: 1.0, Decay: 0.01},
			ReportEvery: 100,
		},
	}
}

// DefaultRunnerConfig returns the default endless runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		World: RunnerWorld{
			Width:      800,
			Height:     400,
			FloorY:     350,
			ScoreEvery: 2,
			MaxSteps:   5000,
		},
		Player: RunnerPlayer{
			X:          100,
			Width:      50,
			Height:     50,
			DuckHeight: 30,
			JumpForce:  20,
		},
		Obstacle: RunnerObstacle{
			Width:  50,
			Height: 50,
			Speed:  7.5,
		},
		Physics: RunnerPhysics{
			Gravity: 1.5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 40,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
		Training: TrainingConfig{
			Bounds: BoundsConfig{
				Lower:   []float64{0, -60, 0},
				Upper:   []float64{120, 700, 1},
				Buckets: []int{6, 20, 2},
			},
			Episodes:    1000,
			Alpha:       0.1,
			Gamma:       0.9,
			Epsilon:     EpsilonConfig{Min: 0.05, Max: 1.0, Decay: 0.005},
			ReportEvery: 100,
		},
	}
}

// DefaultFootballConfig returns the default football configuration.
func DefaultFootballConfig() FootballConfig {
	return FootballConfig{
		World: FootballWorld{
			Width:      640,
			Height:     480,
			PitchScale: 0.8,
			GoalWidth:  1.0 / 16,
			GoalHeight: 1.0 / 4,
		},
		Player: ArenaPlayer{Size: 25, Speed: 5},
		Ball:   FootballBall{Size: 10, Friction: 0.95},
		Match:  MatchConfig{WinScore: 5, MaxSteps: 3600, CPUSkill: 0.6},
		Training: TrainingConfig{
			Bounds: BoundsConfig{
				Lower:   []float64{-512, -384, -10, -10},
				Upper:   []float64{512, 384, 10, 10},
				Buckets: []int{9, 7, 3, 3},
			},
			Episodes:    400,
			Alpha:       0.1,
			Gamma:       0.95,
			Epsilon:     EpsilonConfig{Min: 0.05, Max: 1.0, Decay: 0.01},
			ReportEvery: 100,
		},
	}
}

// DefaultCTFConfig returns the default capture-the-flag configuration.
func DefaultCTFConfig() CTFConfig {
	return CTFConfig{
		World:  CTFWorld{Width: 800, Height: 600},
		Player: ArenaPlayer{Size: 50, Speed: 5},
		Flag:   CTFFlag{Size: 20},
		Match:  MatchConfig{WinScore: 3, MaxSteps: 3600, CPUSkill: 0.5},
		Training: TrainingConfig{
			Bounds: BoundsConfig{
				Lower:   []float64{-800, -600, -800, -600},
				Upper:   []float64{800, 600, 800, 600},
				Buckets: []int{9, 9, 5, 5},
			},
			Episodes:    400,
			Alpha:       0.1,
			Gamma:       0.95,
			Epsilon:     EpsilonConfig{Min: 0.05, Max: 1.0, Decay: 0.01},
			ReportEvery: 100,
		},
	}
}
