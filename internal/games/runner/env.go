// Package runner implements an endless runner: the player stands at a fixed
// x and must jump over ground obstacles or duck under raised ones as they
// scroll in from the right.
package runner

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

// ID is the registry identifier.
const ID = "runner"

// Visual characters for rendering
const (
	PlayerChar   = '█'
	ObstacleChar = '▓'
	GroundChar   = '▒'
)

var actions = []core.Action{core.ActionNone, core.ActionJump, core.ActionDuck}

func init() {
	registry.Register(ID, func(opts registry.Options) (registry.Environment, error) {
		cfg, err := config.LoadRunner(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		if opts.Difficulty != "" {
			preset, err := config.ParsePreset(opts.Difficulty)
			if err != nil {
				return nil, err
			}
			config.ApplyPreset(&cfg.Difficulty, preset)
		}
		return New(cfg, opts.Seed), nil
	})
}

// Env is the endless runner environment.
type Env struct {
	cfg        config.RunnerConfig
	rng        *rand.Rand
	spawner    *Spawner
	difficulty *config.DifficultyManager

	playerY   float64 // top edge of the player
	playerVel float64 // vertical velocity, negative = up
	playerH   float64 // current height (standing or ducking)
	obstacle  Obstacle

	frames int // ticks since reset
	score  int // one point every score_every frames
	dodges int // obstacles that passed the player
	done   bool
	reason core.Reason
}

var _ registry.Playable = (*Env)(nil)

// New creates an endless runner. A zero seed picks one from the clock.
func New(cfg config.RunnerConfig, seed int64) *Env {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Env{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}
	e.spawner = NewSpawner(e.rng, &e.cfg)
	e.Reset()
	return e
}

// ID returns the unique identifier for this environment.
func (e *Env) ID() string {
	return ID
}

// Title returns the display name for this environment.
func (e *Env) Title() string {
	return "Endless Runner"
}

// Actions returns {none, jump, duck}.
func (e *Env) Actions() []core.Action {
	return actions
}

// Players returns the number of seats.
func (e *Env) Players() int {
	return 1
}

// Reset stands the player on the floor and spawns a new obstacle.
func (e *Env) Reset() core.Observation {
	e.playerH = e.cfg.Player.Height
	e.playerY = e.cfg.World.FloorY - e.playerH
	e.playerVel = 0
	e.obstacle = e.spawner.Next()
	e.frames = 0
	e.score = 0
	e.dodges = 0
	e.done = false
	e.reason = core.ReasonNone
	return e.observe()
}

// Step applies one agent action.
func (e *Env) Step(a core.Action) (core.StepResult, error) {
	if core.IndexOf(actions, a) < 0 {
		return core.StepResult{}, core.InvalidAction(ID, a)
	}
	return e.tick(a == core.ActionJump, a == core.ActionDuck), nil
}

// Play maps player 1 keys to a tick: jump/up jumps, duck/down ducks.
func (e *Env) Play(in core.MultiInputFrame) (core.StepResult, error) {
	p1 := in.Player(core.Player1)
	jump := p1.Has(core.ActionJump) || p1.Has(core.ActionUp)
	duck := p1.Has(core.ActionDuck) || p1.Has(core.ActionDown)
	return e.tick(jump, duck), nil
}

func (e *Env) tick(jump, duck bool) core.StepResult {
	if e.done {
		return e.result(0)
	}

	floor := e.cfg.World.FloorY
	gravity := e.cfg.Physics.Gravity

	// Jumping is only allowed when standing on the floor
	if jump && e.playerY == floor-e.playerH {
		e.playerVel = -e.cfg.Player.JumpForce
	}
	if duck {
		e.playerH = e.cfg.Player.DuckHeight
	} else {
		e.playerH = e.cfg.Player.Height
	}

	e.playerVel += gravity
	e.playerY += e.playerVel

	e.obstacle.X -= e.difficulty.Speed(e.cfg.Obstacle.Speed, e.dodges, e.frames)

	// Floor clamp
	if e.playerY > floor-e.playerH {
		e.playerY = floor - e.playerH
		e.playerVel = 0
	}

	reward := 0.0
	if e.PlayerRect().Intersects(e.obstacle.Rect(&e.cfg)) {
		reward = -1
		e.done = true
		e.reason = core.ReasonCollision
	}

	// Extra pull while airborne
	if e.playerY < floor-e.playerH {
		e.playerY += gravity
	}

	e.frames++
	if every := e.cfg.World.ScoreEvery; every > 0 && e.frames%every == 0 {
		e.score++
	}

	if !e.done && e.obstacle.X+e.cfg.Obstacle.Width < e.cfg.Player.X {
		e.dodges++
		reward = 1
		e.obstacle = e.spawner.Next()
	}

	if !e.done && e.cfg.World.MaxSteps > 0 && e.frames >= e.cfg.World.MaxSteps {
		e.done = true
		e.reason = core.ReasonStepCap
	}

	return e.result(reward)
}

// PlayerRect returns the current collision rectangle of the player.
func (e *Env) PlayerRect() core.Rect {
	return core.NewRect(e.cfg.Player.X, e.playerY, e.cfg.Player.Width, e.playerH)
}

// Obstacle returns the current obstacle.
func (e *Env) Obstacle() Obstacle {
	return e.obstacle
}

// Dodges returns the number of obstacles passed this episode.
func (e *Env) Dodges() int {
	return e.dodges
}

// Score returns the frame-based score.
func (e *Env) Score() int {
	return e.score
}

// observe returns (elevation above floor, obstacle distance, obstacle class).
func (e *Env) observe() core.Observation {
	elevation := e.cfg.World.FloorY - (e.playerY + e.playerH)
	distance := e.obstacle.X - e.cfg.Player.X
	return core.Observation{elevation, distance, float64(e.obstacle.Class)}
}

func (e *Env) result(reward float64) core.StepResult {
	return core.StepResult{
		Observation: e.observe(),
		Reward:      reward,
		Done:        e.done,
		Reason:      e.reason,
		Score:       e.dodges,
	}
}

// Render draws the floor, the player, the obstacle and the HUD.
func (e *Env) Render(dst *core.Screen) {
	world := core.NewRect(0, 0, e.cfg.World.Width, e.cfg.World.Height)
	view := core.ViewportFor(world, dst)

	floor := core.NewRect(0, e.cfg.World.FloorY, e.cfg.World.Width, e.cfg.World.Height-e.cfg.World.FloorY)
	view.Fill(dst, floor, GroundChar, core.ColorGround)

	obstacleColor := core.ColorHazard
	if e.obstacle.Class == ClassAir {
		obstacleColor = core.ColorGoal
	}
	if e.obstacle.X < e.cfg.World.Width {
		view.Fill(dst, e.obstacle.Rect(&e.cfg), ObstacleChar, obstacleColor)
	}
	view.Fill(dst, e.PlayerRect(), PlayerChar, core.ColorAgent)

	hud := fmt.Sprintf("Score: %d  Dodges: %d", e.score, e.dodges)
	dst.DrawTextColored(dst.Width()-len(hud)-2, 0, hud, core.ColorHUD)

	if e.done {
		dst.DrawMessage("GAME OVER", fmt.Sprintf("Dodges: %d  (%s)", e.dodges, e.reason))
	}
}
