package ctf

import (
	"errors"
	"slices"
	"testing"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	return New(config.DefaultCTFConfig(), 5)
}

func press(id core.PlayerID, acts ...core.Action) core.MultiInputFrame {
	in := core.NewMultiInputFrame()
	for _, a := range acts {
		in.Press(id, a)
	}
	return in
}

func TestStartingLayout(t *testing.T) {
	e := newTestEnv(t)

	if want := core.NewRect(0, 300, 50, 50); e.players[0] != want {
		t.Errorf("player 1 = %+v, want %+v", e.players[0], want)
	}
	if want := core.NewRect(750, 300, 50, 50); e.players[1] != want {
		t.Errorf("player 2 = %+v, want %+v", e.players[1], want)
	}
	if want := core.NewRect(0, 0, 20, 20); e.flags[0] != want {
		t.Errorf("flag 1 = %+v, want %+v", e.flags[0], want)
	}
	if want := core.NewRect(780, 580, 20, 20); e.flags[1] != want {
		t.Errorf("flag 2 = %+v, want %+v", e.flags[1], want)
	}
}

func TestMoveRefusesEdge(t *testing.T) {
	e := newTestEnv(t)

	e.Play(press(core.Player1, core.ActionLeft, core.ActionUp))
	if p := e.players[0]; p.X != 0 || p.Y != 295 {
		t.Errorf("player 1 = %+v, expected blocked on x and moved up", p)
	}

	for i := 0; i < 100; i++ {
		e.Play(press(core.Player1, core.ActionUp))
	}
	if y := e.players[0].Y; y != 5 {
		t.Errorf("player 1 y = %v, expected to stop one step short of the edge", y)
	}
}

func TestCaptures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(e *Env)
		reward float64
		p1, p2 int
	}{
		{
			name:   "player 1 touches enemy flag",
			setup:  func(e *Env) { e.players[0] = core.NewRect(745, 545, 50, 50) },
			reward: 1,
			p1:     1,
		},
		{
			name:   "player 2 touches enemy flag",
			setup:  func(e *Env) { e.players[1] = core.NewRect(5, 5, 50, 50) },
			reward: -1,
			p2:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			tt.setup(e)

			res, err := e.Play(core.NewMultiInputFrame())
			if err != nil {
				t.Fatal(err)
			}
			if res.Reward != tt.reward {
				t.Errorf("reward = %v, want %v", res.Reward, tt.reward)
			}
			if p1, p2 := e.Scores(); p1 != tt.p1 || p2 != tt.p2 {
				t.Errorf("scores = %d-%d, want %d-%d", p1, p2, tt.p1, tt.p2)
			}
			if e.players != e.homes {
				t.Errorf("players not sent home: %+v", e.players)
			}
		})
	}
}

func TestTagSendsIntruderHome(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 core.Rect
		home1  bool
		home2  bool
	}{
		{"player 1 caught on the right half", core.NewRect(420, 300, 50, 50), core.NewRect(440, 300, 50, 50), true, false},
		{"player 2 caught on the left half", core.NewRect(350, 300, 50, 50), core.NewRect(330, 300, 50, 50), false, true},
		{"no contact", core.NewRect(200, 100, 50, 50), core.NewRect(600, 400, 50, 50), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.players = [2]core.Rect{tt.p1, tt.p2}

			e.Play(core.NewMultiInputFrame())

			if got := e.players[0] == e.homes[0]; got != tt.home1 {
				t.Errorf("player 1 home = %v, want %v", got, tt.home1)
			}
			if got := e.players[1] == e.homes[1]; got != tt.home2 {
				t.Errorf("player 2 home = %v, want %v", got, tt.home2)
			}
		})
	}
}

func TestWinScoreEndsMatch(t *testing.T) {
	e := newTestEnv(t)
	e.scores[0] = e.cfg.Match.WinScore - 1
	e.players[0] = core.NewRect(745, 545, 50, 50)

	res, _ := e.Play(core.NewMultiInputFrame())
	if !res.Done || res.Reason != core.ReasonWon {
		t.Fatalf("result = %+v, expected a won match", res)
	}
	res, _ = e.Play(press(core.Player1, core.ActionRight))
	if !res.Done || res.Reward != 0 {
		t.Errorf("step after game over = %+v", res)
	}
}

func TestStepCap(t *testing.T) {
	cfg := config.DefaultCTFConfig()
	cfg.Match.MaxSteps = 2
	e := New(cfg, 1)

	e.Play(core.NewMultiInputFrame())
	res, _ := e.Play(core.NewMultiInputFrame())
	if !res.Done || res.Reason != core.ReasonStepCap {
		t.Errorf("result = %+v, expected step cap", res)
	}
}

func TestInvalidAction(t *testing.T) {
	e := newTestEnv(t)
	if _, err := e.Step(core.ActionDuck); !errors.Is(err, core.ErrInvalidAction) {
		t.Errorf("err = %v, want ErrInvalidAction", err)
	}
}

func TestCPUHeadsForFlag(t *testing.T) {
	cfg := config.DefaultCTFConfig()
	cfg.Match.CPUSkill = 1
	e := New(cfg, 1)

	start := e.players[1]
	for i := 0; i < 20; i++ {
		e.Step(core.ActionNone)
	}
	if p := e.players[1]; p.X >= start.X || p.Y >= start.Y {
		t.Errorf("cpu at %+v, expected to move up-left from %+v", p, start)
	}
}

func TestDeterministic(t *testing.T) {
	a := New(config.DefaultCTFConfig(), 11)
	b := New(config.DefaultCTFConfig(), 11)

	for i := 0; i < 500; i++ {
		act := actions[i%len(actions)]
		ra, _ := a.Step(act)
		rb, _ := b.Step(act)
		if !slices.Equal(ra.Observation, rb.Observation) || ra.Reward != rb.Reward {
			t.Fatalf("tick %d: runs diverged", i)
		}
	}
}

func TestRender(t *testing.T) {
	e := newTestEnv(t)
	s := core.NewScreen(80, 24)
	e.Render(s)

	if c := s.GetCell(0, 12); c.Rune != PlayerChar || c.Color != core.ColorAgent {
		t.Errorf("cell at player 1 = %+v", c)
	}
	if c := s.GetCell(79, 12); c.Rune != PlayerChar || c.Color != core.ColorOpponent {
		t.Errorf("cell at player 2 = %+v", c)
	}
	if c := s.GetCell(79, 23); c.Rune != FlagChar {
		t.Errorf("cell at flag 2 = %+v", c)
	}
	if r := s.Get(40, 5); r != MidChar {
		t.Errorf("halfway line = %q", r)
	}
}

func TestRegistered(t *testing.T) {
	env, err := registry.Create(ID, registry.Options{Seed: 2})
	if err != nil {
		t.Fatal(err)
	}
	if p, ok := env.(registry.Playable); !ok || p.Players() != 2 {
		t.Fatal("ctf should be a two-player playable environment")
	}
}
