// Package cartpole implements the classic cart-pole balancing task: a pole
// hinged on a cart moving along a frictionless track, pushed left or right
// with a fixed force every tick.
package cartpole

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
const ID = "cartpole"

// Visual characters for rendering
const (
	CartChar  = '█'
	PoleChar  = '●'
	TrackChar = '─'
	WheelChar = 'o'
)

var actions = []core.Action{core.ActionPushLeft, core.ActionPushRight}

func init() {
	registry.Register(ID, func(opts registry.Options) (registry.Environment, error) {
		cfg, err := config.LoadCartPole(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		return New(cfg.Physics, opts.Seed), nil
	})
}

// State is the full physical state of the system.
type State struct {
	X        float64 // cart position
	XDot     float64 // cart velocity
	Theta    float64 // pole angle, radians from upright
	ThetaDot float64 // pole angular velocity
}

// Observation returns the state as (x, x_dot, theta, theta_dot).
func (s State) Observation() core.Observation {
	return core.Observation{s.X, s.XDot, s.Theta, s.ThetaDot}
}

// Env is the cart-pole environment.
type Env struct {
	phys   config.CartPolePhysics
	rng    *rand.Rand
	state  State
	length int // rewarded steps this episode
	done   bool
	reason core.Reason
	last   core.Action
}

// New creates a cart-pole environment. A zero seed picks one from the clock.
func New(phys config.CartPolePhysics, seed int64) *Env {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Env{
		phys: phys,
		rng:  rand.New(rand.NewSource(seed)),
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
	return "Cart-Pole"
}

// Actions returns {push-left, push-right}.
func (e *Env) Actions() []core.Action {
	return actions
}

// Reset draws every state element uniformly from [-noise, noise].
func (e *Env) Reset() core.Observation {
	n := e.phys.ResetNoise
	e.state = State{
		X:        e.uniform(-n, n),
		XDot:     e.uniform(-n, n),
		Theta:    e.uniform(-n, n),
		ThetaDot: e.uniform(-n, n),
	}
	e.length = 0
	e.done = false
	e.reason = core.ReasonNone
	e.last = core.ActionNone
	return e.state.Observation()
}

func (e *Env) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*e.rng.Float64()
}

// SetState places the system in an exact state and starts a new episode
// from it.
func (e *Env) SetState(s State) {
	e.state = s
	e.length = 0
	e.done = false
	e.reason = core.ReasonNone
}

// State returns the current physical state.
func (e *Env) State() State {
	return e.state
}

// Length returns the number of rewarded steps in the current episode.
func (e *Env) Length() int {
	return e.length
}

// Step integrates one tau with Euler's method and checks termination in
// order: episode length cap, cart off the track, pole fallen. Each of those
// yields reward 0; surviving yields +1.
func (e *Env) Step(a core.Action) (core.StepResult, error) {
	if core.IndexOf(actions, a) < 0 {
		return core.StepResult{}, core.InvalidAction(ID, a)
	}
	if e.done {
		return e.result(0), nil
	}
	e.last = a

	force := e.phys.Force
	if a == core.ActionPushLeft {
		force = -force
	}
	e.state = e.integrate(e.state, force)

	switch {
	case e.length >= e.phys.MaxSteps:
		return e.finish(core.ReasonStepCap), nil
	case math.Abs(e.state.X) > e.phys.XThreshold:
		return e.finish(core.ReasonOutOfBounds), nil
	case math.Abs(e.state.Theta) > e.phys.ThetaThreshold:
		return e.finish(core.ReasonPoleFell), nil
	}

	e.length++
	return e.result(1), nil
}

// integrate applies the cart-pole equations of motion for one tick.
func (e *Env) integrate(s State, force float64) State {
	p := e.phys
	totalMass := p.CartMass + p.PoleMass
	poleMassLength := p.PoleMass * p.Length

	cos, sin := math.Cos(s.Theta), math.Sin(s.Theta)

	temp := (force + poleMassLength*s.ThetaDot*s.ThetaDot*sin) / totalMass
	thetaAcc := (p.Gravity*sin - cos*temp) /
		(p.Length * (4.0/3.0 - p.PoleMass*cos*cos/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cos/totalMass

	return State{
		X:        s.X + p.Tau*s.XDot,
		XDot:     s.XDot + p.Tau*xAcc,
		Theta:    s.Theta + p.Tau*s.ThetaDot,
		ThetaDot: s.ThetaDot + p.Tau*thetaAcc,
	}
}

func (e *Env) finish(r core.Reason) core.StepResult {
	e.done = true
	e.reason = r
	return e.result(0)
}

func (e *Env) result(reward float64) core.StepResult {
	return core.StepResult{
		Observation: e.state.Observation(),
		Reward:      reward,
		Done:        e.done,
		Reason:      e.reason,
		Score:       e.length,
	}
}

// Render draws the track, the cart and the pole.
func (e *Env) Render(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	if w < 10 || h < 6 {
		return
	}

	trackY := h * 2 / 3
	dst.DrawHLine(0, trackY+1, w, TrackChar, core.ColorGround)

	// Threshold markers at both ends of the track
	view := core.NewViewport(core.NewRect(-e.phys.XThreshold, 0, 2*e.phys.XThreshold, 1), w, 1)
	leftX, _ := view.Point(-e.phys.XThreshold, 0)
	rightX, _ := view.Point(e.phys.XThreshold, 0)
	dst.SetColored(leftX, trackY, '|', core.ColorHazard)
	dst.SetColored(rightX-1, trackY, '|', core.ColorHazard)

	cx, _ := view.Point(e.state.X, 0)
	cartHalf := max(w/20, 2)
	dst.FillCells(cx-cartHalf, trackY-1, cx+cartHalf+1, trackY+1, CartChar, core.ColorAgent)
	dst.SetColored(cx-cartHalf+1, trackY+1, WheelChar, core.ColorWhite)
	dst.SetColored(cx+cartHalf-1, trackY+1, WheelChar, core.ColorWhite)

	// Terminal cells are roughly twice as tall as wide.
	poleLen := float64(trackY-2) * 0.9
	tipX := cx + int(math.Round(2*poleLen*math.Sin(e.state.Theta)))
	tipY := trackY - 2 - int(math.Round(poleLen*math.Cos(e.state.Theta)))
	dst.DrawLine(cx, trackY-2, tipX, tipY, PoleChar, core.ColorFlag)

	hud := fmt.Sprintf("Steps: %d  x: %+.2f  θ: %+.3f  push: %s", e.length, e.state.X, e.state.Theta, e.last)
	dst.DrawTextColored(1, 0, hud, core.ColorHUD)
	if e.done {
		dst.DrawMessage("EPISODE OVER", fmt.Sprintf("%s after %d steps", e.reason, e.length))
	}
}
