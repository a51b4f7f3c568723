package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// isolate points the user config directory at an empty temp dir.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		load func() (any, error)
		want any
	}{
		{"cartpole", func() (any, error) { return LoadCartPole("") }, DefaultCartPoleConfig()},
		{"runner", func() (any, error) { return LoadRunner("") }, DefaultRunnerConfig()},
		{"football", func() (any, error) { return LoadFootball("") }, DefaultFootballConfig()},
		{"ctf", func() (any, error) { return LoadCTF("") }, DefaultCTFConfig()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.load()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("embedded YAML differs from hardcoded defaults:\n got %+v\nwant %+v", got, tc.want)
			}
		})
	}
}

func TestLoadCustomPathOverridesOnlyNamedKeys(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "cp.yaml")
	data := "physics:\n  force: 20\ntraining:\n  episodes: 7\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCartPole(path)
	if err != nil {
		t.Fatalf("LoadCartPole: %v", err)
	}
	if cfg.Physics.Force != 20 {
		t.Errorf("Force = %v, expected 20", cfg.Physics.Force)
	}
	if cfg.Training.Episodes != 7 {
		t.Errorf("Episodes = %d, expected 7", cfg.Training.Episodes)
	}
	if cfg.Physics.Gravity != 9.8 {
		t.Errorf("Gravity = %v, expected default 9.8", cfg.Physics.Gravity)
	}
	if !reflect.DeepEqual(cfg.Training.Bounds.Buckets, []int{1, 1, 6, 5}) {
		t.Errorf("Buckets = %v, expected defaults", cfg.Training.Bounds.Buckets)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	isolate(t)

	_, err := LoadRunner(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, expected os.ErrNotExist", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("world: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRunner(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("bad YAML error = %v, expected a parse error", err)
	}
}

func TestLoadUserConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, DataDirName, "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ctf.yaml"), []byte("match:\n  win_score: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCTF("")
	if err != nil {
		t.Fatalf("LoadCTF: %v", err)
	}
	if cfg.Match.WinScore != 9 {
		t.Errorf("WinScore = %d, expected 9 from the user config", cfg.Match.WinScore)
	}
	if cfg.Player.Size != 50 {
		t.Errorf("Player.Size = %v, expected default 50", cfg.Player.Size)
	}
}

func TestTrainingValidate(t *testing.T) {
	valid := DefaultCartPoleConfig().Training
	if err := valid.Validate(); err != nil {
		t.Fatalf("default training config should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*TrainingConfig)
	}{
		{"length mismatch", func(c *TrainingConfig) { c.Bounds.Upper = c.Bounds.Upper[:2] }},
		{"no dimensions", func(c *TrainingConfig) { c.Bounds = BoundsConfig{} }},
		{"alpha zero", func(c *TrainingConfig) { c.Alpha = 0 }},
		{"gamma above one", func(c *TrainingConfig) { c.Gamma = 1.5 }},
		{"epsilon inverted", func(c *TrainingConfig) { c.Epsilon.Min = 0.9; c.Epsilon.Max = 0.1 }},
		{"negative episodes", func(c *TrainingConfig) { c.Episodes = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultCartPoleConfig().Training
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DefaultRunnerConfig().Difficulty

	off := NewDifficultyManager(cfg)
	if got := off.Speed(7.5, 100, 100); got != 7.5 {
		t.Errorf("disabled Speed() = %v, expected base 7.5", got)
	}

	ApplyPreset(&cfg, DifficultyEasy)
	on := NewDifficultyManager(cfg)
	if !on.IsEnabled() {
		t.Fatal("easy preset should enable progression")
	}
	if got := on.Speed(7.5, 0, 0); got != 7.5 {
		t.Errorf("Speed() at score 0 = %v, expected 7.5", got)
	}
	if got := on.Speed(7.5, 20, 0); got != 7.5*1.5 {
		t.Errorf("Speed() halfway = %v, expected %v", got, 7.5*1.5)
	}
	if got := on.Speed(7.5, 1000, 0); got != 15 {
		t.Errorf("Speed() past max_at = %v, expected 15", got)
	}

	ApplyPreset(&cfg, DifficultyFixed)
	if NewDifficultyManager(cfg).IsEnabled() {
		t.Error("fixed preset should disable progression")
	}
}

func TestEmbeddedLookup(t *testing.T) {
	for _, id := range []string{"cartpole", "runner", "football", "ctf"} {
		if data, ok := Embedded(id); !ok || len(data) == 0 {
			t.Errorf("Embedded(%q) missing", id)
		}
	}
	if _, ok := Embedded("pong"); ok {
		t.Error("Embedded(pong) should not exist")
	}
}

func TestLoadTraining(t *testing.T) {
	isolate(t)

	for _, id := range []string{"cartpole", "runner", "football", "ctf"} {
		cfg, err := LoadTraining(id, "")
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: default training section invalid: %v", id, err)
		}
	}

	if _, err := LoadTraining("snake", ""); err == nil {
		t.Error("expected an error for an unknown environment")
	}
}
