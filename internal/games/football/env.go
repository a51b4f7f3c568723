// Package football implements a two-player top-down ball game: each player
// tries to push the ball into the goal on the opponent's side. In
// environment mode player 2 is driven by a CPU.
package football

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
const ID = "football"

// Visual characters for rendering
const (
	PitchChar  = '·'
	GoalChar   = '▒'
	PlayerChar = '█'
	BallChar   = '●'
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
		cfg, err := config.LoadFootball(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		return New(cfg, opts.Seed), nil
	})
}

// Env is the football environment. Player 1 defends the left goal.
type Env struct {
	cfg config.FootballConfig
	rng *rand.Rand

	pitch   core.Rect
	goals   [2]core.Rect // left, right
	players [2]*Player
	ball    *Ball

	steps  int
	done   bool
	reason core.Reason
}

var _ registry.Playable = (*Env)(nil)

// New creates a football match. A zero seed picks one from the clock.
func New(cfg config.FootballConfig, seed int64) *Env {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	screen := core.NewRect(0, 0, cfg.World.Width, cfg.World.Height)
	pitch := screen.Scale(cfg.World.PitchScale, cfg.World.PitchScale)
	leftGoal, rightGoal := goals(pitch, cfg.World.GoalWidth, cfg.World.GoalHeight)
	left, right := kickOff(pitch, cfg.Player.Size)
	cx, cy := pitch.Center()

	e := &Env{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		pitch:   pitch,
		goals:   [2]core.Rect{leftGoal, rightGoal},
		players: [2]*Player{newPlayer(left), newPlayer(right)},
		ball:    newBall(core.Vec{X: cx, Y: cy}, cfg.Ball.Size),
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
	return "Football"
}

// Actions returns {none, up, down, left, right} for player 1.
func (e *Env) Actions() []core.Action {
	return actions
}

// Players returns the number of seats.
func (e *Env) Players() int {
	return 2
}

// Reset puts everything at kick-off and clears the scores.
func (e *Env) Reset() core.Observation {
	e.kickOff()
	for _, p := range e.players {
		p.Score = 0
	}
	e.steps = 0
	e.done = false
	e.reason = core.ReasonNone
	return e.observe()
}

func (e *Env) kickOff() {
	e.ball.reset()
	for _, p := range e.players {
		p.reset()
	}
}

// Step moves player 1 by the agent's action and player 2 by the CPU.
// Reward is +1 when player 1 scores and -1 when player 2 does.
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

	e.players[0].move(e.pitch, e.cfg.Player.Speed, in.Player(core.Player1))
	e.players[1].move(e.pitch, e.cfg.Player.Speed, in.Player(core.Player2))
	e.moveBall()
	scorer := e.checkScoring()
	e.ensureNoClipping()
	e.steps++

	reward := 0.0
	switch scorer {
	case 0:
		reward = 1
	case 1:
		reward = -1
	}

	switch win := e.cfg.Match.WinScore; {
	case win > 0 && e.players[0].Score >= win:
		e.finish(core.ReasonWon)
	case win > 0 && e.players[1].Score >= win:
		e.finish(core.ReasonLost)
	case e.cfg.Match.MaxSteps > 0 && e.steps >= e.cfg.Match.MaxSteps:
		e.finish(core.ReasonStepCap)
	}
	return e.result(reward)
}

func (e *Env) finish(r core.Reason) {
	e.done = true
	e.reason = r
}

// moveBall integrates the ball, bounces it off the walls and the players,
// and applies friction.
func (e *Env) moveBall() {
	b := e.ball
	b.Rect = b.Rect.Move(b.Vel.X, b.Vel.Y)

	b.bounce(
		b.Rect.X < e.pitch.X || b.Rect.Right() > e.pitch.Right(),
		b.Rect.Y < e.pitch.Y || b.Rect.Bottom() > e.pitch.Bottom(),
	)

	for _, p := range e.players {
		if !b.Rect.Intersects(p.Rect) {
			continue
		}
		if p.Vel.Len() == 0 {
			bx, _ := b.Rect.Center()
			px, _ := p.Rect.Center()
			b.bounce(true, false)
			if bx < px {
				b.Rect.X = p.Rect.X - b.Rect.W
			} else {
				b.Rect.X = p.Rect.Right()
			}
			b.bounce(false, true)
		} else {
			b.Vel = b.Vel.Add(p.Vel)
		}
	}

	b.Vel = b.Vel.Mul(e.cfg.Ball.Friction)
}

// checkScoring resets the field after a goal and credits the attacker.
// It returns the index of the scoring player, or -1.
func (e *Env) checkScoring() int {
	for i, g := range e.goals {
		if e.ball.Rect.Intersects(g) {
			e.kickOff()
			scorer := 1 - i
			e.players[scorer].Score++
			return scorer
		}
	}
	return -1
}

// ensureNoClipping pulls the ball back inside the pitch and pushes any
// player it now overlaps off the wall side.
func (e *Env) ensureNoClipping() {
	b := e.ball
	if e.pitch.Contains(b.Rect) {
		return
	}
	b.Rect = b.Rect.ClampInto(e.pitch)

	for _, p := range e.players {
		if !b.Rect.Intersects(p.Rect) {
			continue
		}
		if b.Rect.X == e.pitch.X {
			p.Rect.X = b.Rect.Right()
		} else if b.Rect.Right() == e.pitch.Right() {
			p.Rect.X = b.Rect.X - p.Rect.W
		}
		if b.Rect.Y == e.pitch.Y {
			p.Rect.Y = b.Rect.Bottom()
		} else if b.Rect.Bottom() == e.pitch.Bottom() {
			p.Rect.Y = b.Rect.Y - p.Rect.H
		}
	}
}

// cpu drives player 2: it lines up on the right of the ball and pushes it
// towards the left goal. It reacts on a tick with probability cpu_skill.
func (e *Env) cpu(in *core.MultiInputFrame) {
	if e.rng.Float64() >= e.cfg.Match.CPUSkill {
		return
	}
	p := e.players[1]
	bx, by := e.ball.Rect.Center()
	px, py := p.Rect.Center()

	targetX := bx + p.Rect.W/2
	deadzone := e.cfg.Player.Speed / 2

	if diff := targetX - px; math.Abs(diff) > deadzone {
		if diff < 0 {
			in.Press(core.Player2, core.ActionLeft)
		} else {
			in.Press(core.Player2, core.ActionRight)
		}
	}
	if diff := by - py; math.Abs(diff) > deadzone {
		if diff < 0 {
			in.Press(core.Player2, core.ActionUp)
		} else {
			in.Press(core.Player2, core.ActionDown)
		}
	}
}

// Scores returns both players' goals.
func (e *Env) Scores() (int, int) {
	return e.players[0].Score, e.players[1].Score
}

// observe returns (ball dx, ball dy) relative to player 1 and the ball
// velocity.
func (e *Env) observe() core.Observation {
	bx, by := e.ball.Rect.Center()
	px, py := e.players[0].Rect.Center()
	return core.Observation{bx - px, by - py, e.ball.Vel.X, e.ball.Vel.Y}
}

func (e *Env) result(reward float64) core.StepResult {
	return core.StepResult{
		Observation: e.observe(),
		Reward:      reward,
		Done:        e.done,
		Reason:      e.reason,
		Score:       e.players[0].Score,
	}
}

// Render draws the pitch, goals, players, ball and score line.
func (e *Env) Render(dst *core.Screen) {
	view := core.ViewportFor(core.NewRect(0, 0, e.cfg.World.Width, e.cfg.World.Height), dst)

	view.Fill(dst, e.pitch, PitchChar, core.ColorGreen)
	for _, g := range e.goals {
		view.Fill(dst, g, GoalChar, core.ColorGoal)
	}
	view.Fill(dst, e.players[0].Rect, PlayerChar, core.ColorAgent)
	view.Fill(dst, e.players[1].Rect, PlayerChar, core.ColorOpponent)
	view.Fill(dst, e.ball.Rect, BallChar, core.ColorBall)

	s1, s2 := e.Scores()
	dst.DrawTextColored(2, 0, fmt.Sprintf("Player 1: %d  Player 2: %d", s1, s2), core.ColorHUD)

	if e.done {
		dst.DrawMessage("FULL TIME", fmt.Sprintf("%d - %d  (%s)", s1, s2, e.reason))
	}
}
