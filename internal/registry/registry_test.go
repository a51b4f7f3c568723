package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

type fakeEnv struct {
	id   string
	seed int64
}

func (f *fakeEnv) ID() string { return f.id }
func (f *fakeEnv) Title() string { return strings.ToUpper(f.id) }
func (f *fakeEnv) Actions() []core.Action { return []core.Action{core.ActionNone, core.ActionJump} }
func (f *fakeEnv) Reset() core.Observation { return core.Observation{0} }
func (f *fakeEnv) Render(*core.Screen) {}
func (f *fakeEnv) Players() int { return 1 }
func (f *fakeEnv) Step(core.Action) (core.StepResult, error) {
	return core.StepResult{Observation: core.Observation{0}}, nil
}

type playableEnv struct{ fakeEnv }

func (p *playableEnv) Play(core.MultiInputFrame) (core.StepResult, error) {
	return core.StepResult{}, nil
}

func fakeFactory(id string) Factory {
	return func(opts Options) (Environment, error) {
		return &fakeEnv{id: id, seed: opts.Seed}, nil
	}
}

func TestRegisterAndCreate(t *testing.T) {
	Register("test-zeta", fakeFactory("test-zeta"))
	Register("test-alpha", func(opts Options) (Environment, error) {
		return &playableEnv{fakeEnv{id: "test-alpha", seed: opts.Seed}}, nil
	})

	if !Exists("test-alpha") || Exists("test-missing") {
		t.Fatal("Exists reports wrong membership")
	}

	env, err := Create("test-zeta", Options{Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	if got := env.(*fakeEnv).seed; got != 42 {
		t.Errorf("factory got seed %d, want 42", got)
	}

	var ids []string
	byID := make(map[string]Info)
	for _, info := range List() {
		ids = append(ids, info.ID)
		byID[info.ID] = info
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("List not sorted: %v", ids)
		}
	}
	if info := byID["test-alpha"]; !info.Playable || info.Title != "TEST-ALPHA" || len(info.Actions) != 2 {
		t.Errorf("info = %+v", info)
	}
	if byID["test-zeta"].Playable {
		t.Error("test-zeta should not be playable")
	}
}

func TestCreateErrors(t *testing.T) {
	if _, err := Create("no-such-env", Options{}); err == nil {
		t.Error("expected an error for an unknown id")
	}

	sentinel := errors.New("bad config")
	Register("test-flaky", func(opts Options) (Environment, error) {
		if opts.ConfigPath != "" {
			return nil, sentinel
		}
		return &fakeEnv{id: "test-flaky"}, nil
	})
	if _, err := Create("test-flaky", Options{ConfigPath: "x.yaml"}); !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want wrapped factory error", err)
	}
}

func TestRegisterPanics(t *testing.T) {
	Register("test-dup", fakeFactory("test-dup"))

	tests := []struct {
		name string
		id   string
		f    Factory
	}{
		{"duplicate id", "test-dup", fakeFactory("test-dup")},
		{"failing factory", "test-broken", func(Options) (Environment, error) {
			return nil, errors.New("boom")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			Register(tt.id, tt.f)
		})
	}
}
