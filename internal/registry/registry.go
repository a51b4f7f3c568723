// Package registry provides a global registry for environment factories.
// Games register themselves in init() functions, allowing the trainer and
// the front end to discover and instantiate environments without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

// Environment is the interface every simulation implements.
// Environments contain pure logic with no UI dependencies; they advance by
// one fixed tick per Step call.
type Environment interface {
	// ID returns a unique identifier (e.g., "cartpole", "runner").
	// Used for CLI commands, config files and the run store.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Actions returns the ordered action space. The position of an action in
	// this slice is its column in a Q-table.
	Actions() []core.Action

	// Reset re-initializes all state, clears the step counter and returns the
	// initial observation.
	Reset() core.Observation

	// Step applies one action and advances the simulation by one tick.
	// Actions outside Actions() return an error wrapping
	// core.ErrInvalidAction.
	Step(a core.Action) (core.StepResult, error)

	// Render draws the current state into the screen buffer.
	// The screen is pre-cleared before this call; Render never mutates state.
	Render(dst *core.Screen)
}

// Playable is implemented by environments that support manual play.
// Input for every seat is supplied explicitly; seats without input idle.
type Playable interface {
	Environment
	Play(in core.MultiInputFrame) (core.StepResult, error)
	Players() int
}

// Options configure a new environment instance.
type Options struct {
	Seed       int64  // RNG seed; 0 picks one from the clock
	ConfigPath string // explicit YAML file, empty for the search order
	Difficulty string // progression preset for games that have one; empty keeps the config
}

// Info contains metadata about a registered environment.
type Info struct {
	ID       string
	Title    string
	Actions  []core.Action
	Playable bool
}

// Factory creates a new instance of an environment.
type Factory func(opts Options) (Environment, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds an environment factory to the registry.
// Typically called from a game's init() function.
// Panics if an environment with the same ID is already registered or if the
// factory cannot build an instance with default options.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: environment %q already registered", id))
	}

	// Get metadata by creating a temporary instance
	env, err := f(Options{Seed: 1})
	if err != nil {
		panic(fmt.Sprintf("registry: environment %q: %v", id, err))
	}
	_, playable := env.(Playable)

	factories[id] = f
	infos[id] = Info{
		ID:       id,
		Title:    env.Title(),
		Actions:  env.Actions(),
		Playable: playable,
	}
}

// List returns information about all registered environments, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new environment by its ID.
// Returns an error if the ID is not registered or the factory fails.
func Create(id string, opts Options) (Environment, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown environment %q", id)
	}

	env, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", id, err)
	}
	return env, nil
}

// Exists checks if an environment with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
