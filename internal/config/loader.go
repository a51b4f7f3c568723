package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DataDirName is the per-user directory holding configs, models and the
// run database.
const DataDirName = ".arcade-gym"

// LoadCartPole loads cart-pole configuration.
// Search order: customPath -> ~/.arcade-gym/configs/cartpole.yaml -> ./configs/cartpole.yaml -> embedded default
func LoadCartPole(customPath string) (CartPoleConfig, error) {
	return load("cartpole", customPath, defaultCartPoleYAML, DefaultCartPoleConfig)
}

// LoadRunner loads endless runner configuration.
// Search order: customPath -> ~/.arcade-gym/configs/runner.yaml -> ./configs/runner.yaml -> embedded default
func LoadRunner(customPath string) (RunnerConfig, error) {
	return load("runner", customPath, defaultRunnerYAML, DefaultRunnerConfig)
}

// LoadFootball loads football configuration.
// Search order: customPath -> ~/.arcade-gym/configs/football.yaml -> ./configs/football.yaml -> embedded default
func LoadFootball(customPath string) (FootballConfig, error) {
	return load("football", customPath, defaultFootballYAML, DefaultFootballConfig)
}

// LoadCTF loads capture-the-flag configuration.
// Search order: customPath -> ~/.arcade-gym/configs/ctf.yaml -> ./configs/ctf.yaml -> embedded default
func LoadCTF(customPath string) (CTFConfig, error) {
	return load("ctf", customPath, defaultCTFYAML, DefaultCTFConfig)
}

// load resolves one environment's configuration. Every file layer is decoded
// on top of the hard-coded defaults, so a partial YAML file only overrides
// the keys it names. Only an explicit custom path may fail the load.
func load[T any](id, customPath string, embedded []byte, fallback func() T) (T, error) {
	filename := id + ".yaml"

	// Try custom path first
	if customPath != "" {
		cfg := fallback()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if cfg, ok := decodeFile(userCfgPath, fallback); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := decodeFile(filepath.Join("configs", filename), fallback); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg := fallback()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return fallback(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func decodeFile[T any](path string, fallback func() T) (T, bool) {
	cfg := fallback()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := DataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// DataDir returns ~/.arcade-gym, or empty if home is unavailable.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DataDirName)
}

// Embedded returns the embedded default YAML for an environment ID.
func Embedded(id string) ([]byte, bool) {
	switch id {
	case "cartpole":
		return defaultCartPoleYAML, true
	case "runner":
		return defaultRunnerYAML, true
	case "football":
		return defaultFootballYAML, true
	case "ctf":
		return defaultCTFYAML, true
	}
	return nil, false
}

// LoadTraining returns the training section for an environment ID using the
// same search order as the per-game loaders.
func LoadTraining(id, customPath string) (TrainingConfig, error) {
	switch id {
	case "cartpole":
		cfg, err := LoadCartPole(customPath)
		return cfg.Training, err
	case "runner":
		cfg, err := LoadRunner(customPath)
		return cfg.Training, err
	case "football":
		cfg, err := LoadFootball(customPath)
		return cfg.Training, err
	case "ctf":
		cfg, err := LoadCTF(customPath)
		return cfg.Training, err
	}
	return TrainingConfig{}, fmt.Errorf("config: no configuration for %q", id)
}
