package qlearn

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/qtable"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

// Trainable is the capability set of a tabular model.
type Trainable interface {
	Discretize(obs core.Observation) (State, error)
	Train() (Result, error)
	Save(path string) error
	Load(path string) error
}

var _ Trainable = (*Agent)(nil)

// EpisodeStats summarizes one training or evaluation episode.
type EpisodeStats struct {
	Episode  int
	Reward   float64
	Steps    int
	Epsilon  float64
	Reason   core.Reason
	Reported bool // true on report_every boundaries
}

// Result is the outcome of a training run.
type Result struct {
	Episodes []EpisodeStats
	Duration time.Duration
}

// Rewards returns the per-episode accumulated rewards.
func (r Result) Rewards() []float64 {
	out := make([]float64, len(r.Episodes))
	for i, e := range r.Episodes {
		out[i] = e.Reward
	}
	return out
}

// Best returns the highest episode reward, or 0 for an empty run.
func (r Result) Best() float64 {
	if len(r.Episodes) == 0 {
		return 0
	}
	return slices.Max(r.Rewards())
}

// Mean returns the mean episode reward, or 0 for an empty run.
func (r Result) Mean() float64 {
	if len(r.Episodes) == 0 {
		return 0
	}
	return stat.Mean(r.Rewards(), nil)
}

// Evaluation is the outcome of greedy rollouts.
type Evaluation struct {
	Episodes []EpisodeStats
	Mean     float64
	StdDev   float64
}

// Observer receives every finished episode.
type Observer interface {
	OnEpisode(s EpisodeStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s EpisodeStats)

// OnEpisode calls f(s).
func (f ObserverFunc) OnEpisode(s EpisodeStats) { f(s) }

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the structured logger used for periodic reports.
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// WithObserver registers an episode observer.
func WithObserver(o Observer) Option {
	return func(a *Agent) { a.observer = o }
}

// Agent owns a Q-table and trains it against one environment.
// The table is written only by Train and TrainFrom.
type Agent struct {
	env      registry.Environment
	actions  []core.Action
	disc     *Discretizer
	table    *qtable.Table
	cfg      config.TrainingConfig
	rng      *rand.Rand
	logger   *log.Logger
	observer Observer
}

// NewAgent creates an agent with a zero-filled table shaped
// (buckets..., len(env.Actions())). A zero seed picks one from the clock.
func NewAgent(env registry.Environment, cfg config.TrainingConfig, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	disc, err := NewDiscretizer(BoundsFrom(cfg.Bounds))
	if err != nil {
		return nil, err
	}
	actions := env.Actions()
	if len(actions) == 0 {
		return nil, fmt.Errorf("qlearn: %s has an empty action space", env.ID())
	}
	table, err := qtable.New(disc.Buckets(), len(actions))
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &Agent{
		env:     env,
		actions: slices.Clone(actions),
		disc:    disc,
		table:   table,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("env", env.ID())
	return a, nil
}

// Table returns the agent's Q-table.
func (a *Agent) Table() *qtable.Table {
	return a.table
}

// Shape returns the table shape this agent expects.
func (a *Agent) Shape() []int {
	return append(a.disc.Buckets(), len(a.actions))
}

// Discretize maps an observation to a bucket tuple.
func (a *Agent) Discretize(obs core.Observation) (State, error) {
	return a.disc.Discretize(obs)
}

// Epsilon returns the exploration rate for an episode index:
// min + (max - min) * exp(-decay * episode).
func (a *Agent) Epsilon(episode int) float64 {
	e := a.cfg.Epsilon
	return e.Min + (e.Max-e.Min)*math.Exp(-e.Decay*float64(episode))
}

// Train runs cfg.Episodes epsilon-greedy episodes, updating the table with
// Q[s][a] += alpha * (r + gamma * max Q[s'] - Q[s][a]).
func (a *Agent) Train() (Result, error) {
	start := time.Now()
	res := Result{Episodes: make([]EpisodeStats, 0, a.cfg.Episodes)}
	reportEvery := a.cfg.ReportEvery
	if reportEvery <= 0 {
		reportEvery = 100
	}

	a.logger.Debug("training started", "episodes", a.cfg.Episodes, "alpha", a.cfg.Alpha, "gamma", a.cfg.Gamma)

	for ep := 0; ep < a.cfg.Episodes; ep++ {
		s, err := a.runEpisode(ep, a.Epsilon(ep), true)
		if err != nil {
			return res, fmt.Errorf("qlearn: episode %d: %w", ep, err)
		}
		s.Reported = ep%reportEvery == 0
		if s.Reported {
			a.logger.Info("episode", "episode", ep, "reward", s.Reward, "epsilon", s.Epsilon, "steps", s.Steps)
		}
		res.Episodes = append(res.Episodes, s)
		if a.observer != nil {
			a.observer.OnEpisode(s)
		}
	}

	res.Duration = time.Since(start)
	a.logger.Debug("training finished", "duration", res.Duration, "visited", a.table.Visited())
	return res, nil
}

// TrainFrom replaces the table with t (which must match Shape) and
// continues training it.
func (a *Agent) TrainFrom(t *qtable.Table) (Result, error) {
	if err := a.adopt(t); err != nil {
		return Result{}, err
	}
	return a.Train()
}

// Use replaces the table with t, which must match Shape.
func (a *Agent) Use(t *qtable.Table) error {
	return a.adopt(t)
}

// Actions returns the action space the table columns map to.
func (a *Agent) Actions() []core.Action {
	return slices.Clone(a.actions)
}

// Evaluate runs greedy episodes without touching the table.
func (a *Agent) Evaluate(episodes int) (Evaluation, error) {
	var ev Evaluation
	for ep := 0; ep < episodes; ep++ {
		s, err := a.runEpisode(ep, 0, false)
		if err != nil {
			return ev, fmt.Errorf("qlearn: evaluation episode %d: %w", ep, err)
		}
		ev.Episodes = append(ev.Episodes, s)
		if a.observer != nil {
			a.observer.OnEpisode(s)
		}
	}
	if len(ev.Episodes) > 0 {
		rewards := Result{Episodes: ev.Episodes}.Rewards()
		ev.Mean = stat.Mean(rewards, nil)
		if len(rewards) > 1 {
			ev.StdDev = stat.StdDev(rewards, nil)
		}
	}
	return ev, nil
}

// Greedy returns the best known action for an observation.
func (a *Agent) Greedy(obs core.Observation) (core.Action, error) {
	s, err := a.disc.Discretize(obs)
	if err != nil {
		return core.ActionNone, err
	}
	return a.actions[a.table.Argmax(a.disc.Index(s))], nil
}

// Save writes the table as a .npy file.
func (a *Agent) Save(path string) error {
	return qtable.Save(a.table, path)
}

// Load replaces the table with the one stored at path. The stored shape
// must match Shape.
func (a *Agent) Load(path string) error {
	t, err := qtable.LoadShaped(path, a.Shape())
	if err != nil {
		return err
	}
	a.table = t
	return nil
}

func (a *Agent) adopt(t *qtable.Table) error {
	if t == nil {
		return errors.New("qlearn: nil table")
	}
	if !slices.Equal(t.Shape(), a.Shape()) {
		return fmt.Errorf("%w: table %v, agent %v", qtable.ErrShapeMismatch, t.Shape(), a.Shape())
	}
	a.table = t
	return nil
}

// runEpisode plays one episode. With learn set, actions are epsilon-greedy
// and the table is updated after every step; otherwise play is greedy.
func (a *Agent) runEpisode(ep int, epsilon float64, learn bool) (EpisodeStats, error) {
	stats := EpisodeStats{Episode: ep, Epsilon: epsilon}

	cur, err := a.disc.Discretize(a.env.Reset())
	if err != nil {
		return stats, err
	}
	state := a.disc.Index(cur)

	for {
		if a.cfg.MaxSteps > 0 && stats.Steps >= a.cfg.MaxSteps {
			stats.Reason = core.ReasonStepCap
			return stats, nil
		}

		action := a.table.Argmax(state)
		if learn && a.rng.Float64() <= epsilon {
			action = a.rng.Intn(len(a.actions))
		}

		res, err := a.env.Step(a.actions[action])
		if err != nil {
			return stats, err
		}
		next, err := a.disc.Discretize(res.Observation)
		if err != nil {
			return stats, err
		}
		nextState := a.disc.Index(next)

		if learn {
			q := a.table.At(state, action)
			target := res.Reward + a.cfg.Gamma*a.table.Max(nextState)
			a.table.Set(state, action, q+a.cfg.Alpha*(target-q))
		}

		stats.Reward += res.Reward
		stats.Steps++
		state = nextState

		if res.Done {
			stats.Reason = res.Reason
			return stats, nil
		}
	}
}
