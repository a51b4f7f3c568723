// Package ctf implements two-player capture-the-flag. Each player guards a
// flag in its own corner and scores by touching the enemy flag. A player
// tagged on the enemy half is sent home.
package ctf

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

// ID is the registry identifier.
const ID = "ctf"

// Visual characters for rendering
const (
	PlayerChar = '█'
	FlagChar   = '▲'
	MidChar    = '┆'
)

var actions = []core.Action{
	core.ActionNone,
	core.ActionUp,
	core.ActionDown,
	core.ActionLeft,
	core.ActionRight,
}

func init() {
	registry.Register(ID, func(opts registry.Options) (registry.Environment, error) {
		cfg, err := config.LoadCTF(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		return New(cfg, opts.Seed), nil
	})
}

// Env is the capture-the-flag environment. Player 1 owns the left half and
// the top-left flag.
type Env struct {
	cfg config.CTFConfig
	rng *rand.Rand

	field   core.Rect
	homes   [2]core.Rect
	players [2]core.Rect
	flags   [2]core.Rect
	scores  [2]int

	steps  int
	done   bool
	reason core.Reason
}

var _ registry.Playable = (*Env)(nil)

// New creates a match. A zero seed picks one from the clock.
func New(cfg config.CTFConfig, seed int64) *Env {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, h := cfg.World.Width, cfg.World.Height
	size, flag := cfg.Player.Size, cfg.Flag.Size

	e := &Env{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		field: core.NewRect(0, 0, w, h),
		homes: [2]core.Rect{
			core.NewRect(0, h/2, size, size),
			core.NewRect(w-size, h/2, size, size),
		},
		flags: [2]core.Rect{
			core.NewRect(0, 0, flag, flag),
			core.NewRect(w-flag, h-flag, flag, flag),
		},
	}
	e.Reset()
	return e
}

// ID returns the unique identifier for this environment.
func (e *Env) ID() string {
	return ID
}

// Title returns the display name for this environment.
func (e *Env) Title() string {
	return "Capture the Flag"
}

// Actions returns {none, up, down, left, right} for player 1.
func (e *Env) Actions() []core.Action {
	return actions
}

// Players returns the number of seats.
func (e *Env) Players() int {
	return 2
}

// Reset sends both players home and clears the scores.
func (e *Env) Reset() core.Observation {
	e.players = e.homes
	e.scores = [2]int{}
	e.steps = 0
	e.done = false
	e.reason = core.ReasonNone
	return e.observe()
}

// Step moves player 1 by the agent's action and player 2 by the CPU.
// Reward is +1 when player 1 captures and -1 when player 2 does.
func (e *Env) Step(a core.Action) (core.StepResult, error) {
	if core.IndexOf(actions, a) < 0 {
		return core.StepResult{}, core.InvalidAction(ID, a)
	}
	in := core.NewMultiInputFrame()
	if a != core.ActionNone {
		in.Press(core.Player1, a)
	}
	e.cpu(&in)
	return e.tick(in), nil
}

// Play advances one tick with both seats driven by the given input.
func (e *Env) Play(in core.MultiInputFrame) (core.StepResult, error) {
	return e.tick(in), nil
}

func (e *Env) tick(in core.MultiInputFrame) core.StepResult {
	if e.done {
		return e.result(0)
	}

	e.players[0] = e.move(e.players[0], in.Player(core.Player1))
	e.players[1] = e.move(e.players[1], in.Player(core.Player2))

	reward := 0.0
	switch {
	case e.players[0].Intersects(e.flags[1]):
		e.capture(0)
		reward = 1
	case e.players[1].Intersects(e.flags[0]):
		e.capture(1)
		reward = -1
	}
	e.tag()
	e.steps++

	switch win := e.cfg.Match.WinScore; {
	case win > 0 && e.scores[0] >= win:
		e.finish(core.ReasonWon)
	case win > 0 && e.scores[1] >= win:
		e.finish(core.ReasonLost)
	case e.cfg.Match.MaxSteps > 0 && e.steps >= e.cfg.Match.MaxSteps:
		e.finish(core.ReasonStepCap)
	}
	return e.result(reward)
}

// move steps a player one speed unit per pressed direction. A step that
// would touch the field edge is refused.
func (e *Env) move(p core.Rect, in core.InputFrame) core.Rect {
	speed := e.cfg.Player.Speed
	if in.Has(core.ActionUp) && p.Y-speed > e.field.Y {
		p.Y -= speed
	}
	if in.Has(core.ActionDown) && p.Bottom()+speed < e.field.Bottom() {
		p.Y += speed
	}
	if in.Has(core.ActionLeft) && p.X-speed > e.field.X {
		p.X -= speed
	}
	if in.Has(core.ActionRight) && p.Right()+speed < e.field.Right() {
		p.X += speed
	}
	return p
}

// capture credits player i and sends both players home.
func (e *Env) capture(i int) {
	e.scores[i]++
	e.players = e.homes
}

// tag sends home a player caught on the enemy half.
func (e *Env) tag() {
	half := e.field.X + e.field.W/2
	if e.players[0].Intersects(e.players[1]) {
		if cx, _ := e.players[0].Center(); cx > half {
			e.players[0] = e.homes[0]
		}
	}
	if e.players[1].Intersects(e.players[0]) {
		if cx, _ := e.players[1].Center(); cx < half {
			e.players[1] = e.homes[1]
		}
	}
}

func (e *Env) finish(r core.Reason) {
	e.done = true
	e.reason = r
}

// cpu drives player 2. It chases player 1 while player 1 is on its half and
// heads for the enemy flag otherwise. It reacts on a tick with probability
// cpu_skill.
func (e *Env) cpu(in *core.MultiInputFrame) {
	if e.rng.Float64() >= e.cfg.Match.CPUSkill {
		return
	}
	half := e.field.X + e.field.W/2
	px, py := e.players[1].Center()
	tx, ty := e.flags[0].Center()
	if ex, ey := e.players[0].Center(); ex > half {
		tx, ty = ex, ey
	}

	deadzone := e.cfg.Player.Speed / 2
	if diff := tx - px; math.Abs(diff) > deadzone {
		if diff < 0 {
			in.Press(core.Player2, core.ActionLeft)
		} else {
			in.Press(core.Player2, core.ActionRight)
		}
	}
	if diff := ty - py; math.Abs(diff) > deadzone {
		if diff < 0 {
			in.Press(core.Player2, core.ActionUp)
		} else {
			in.Press(core.Player2, core.ActionDown)
		}
	}
}

// Scores returns both players' captures.
func (e *Env) Scores() (int, int) {
	return e.scores[0], e.scores[1]
}

// observe returns the enemy flag and the opponent relative to player 1.
func (e *Env) observe() core.Observation {
	px, py := e.players[0].Center()
	fx, fy := e.flags[1].Center()
	ox, oy := e.players[1].Center()
	return core.Observation{fx - px, fy - py, ox - px, oy - py}
}

func (e *Env) result(reward float64) core.StepResult {
	return core.StepResult{
		Observation: e.observe(),
		Reward:      reward,
		Done:        e.done,
		Reason:      e.reason,
		Score:       e.scores[0],
	}
}

// Render draws the halfway line, both flags, both players and the score.
func (e *Env) Render(dst *core.Screen) {
	view := core.ViewportFor(e.field, dst)

	mid, _ := view.Point(e.field.X+e.field.W/2, 0)
	dst.DrawVLine(mid, 0, dst.Height(), MidChar, core.ColorGround)

	view.Fill(dst, e.flags[0], FlagChar, core.ColorAgent)
	view.Fill(dst, e.flags[1], FlagChar, core.ColorOpponent)
	view.Fill(dst, e.players[0], PlayerChar, core.ColorAgent)
	view.Fill(dst, e.players[1], PlayerChar, core.ColorOpponent)

	dst.DrawTextColored(2, 0, fmt.Sprintf("Player 1: %d  Player 2: %d", e.scores[0], e.scores[1]), core.ColorHUD)

	if e.done {
		dst.DrawMessage("GAME OVER", fmt.Sprintf("%d - %d  (%s)", e.scores[0], e.scores[1], e.reason))
	}
}
