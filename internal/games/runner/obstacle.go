package runner

import (
	"math/rand"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
)

// Class tells whether an obstacle sits on the ground or floats at head
// height.
type Class int

const (
	ClassGround Class = iota // jump over it
	ClassAir                 // duck under it
)

// Obstacle is the single box scrolling towards the player.
type Obstacle struct {
	X     float64
	Y     float64
	Class Class
}

// Spawner places obstacles at the right edge of the world.
type Spawner struct {
	rng *rand.Rand
	cfg *config.RunnerConfig
}

// NewSpawner creates a spawner drawing classes from rng.
func NewSpawner(rng *rand.Rand, cfg *config.RunnerConfig) *Spawner {
	return &Spawner{rng: rng, cfg: cfg}
}

// Next returns a fresh obstacle at the right edge, on the ground or raised
// by two thirds of the standing player height.
func (s *Spawner) Next() Obstacle {
	class := Class(s.rng.Intn(2))
	return Obstacle{
		X:     s.cfg.World.Width,
		Y:     s.heightFor(class),
		Class: class,
	}
}

func (s *Spawner) heightFor(c Class) float64 {
	ground := s.cfg.World.FloorY - s.cfg.Obstacle.Height
	if c == ClassAir {
		return ground - s.cfg.Player.Height/1.5
	}
	return ground
}

// Rect returns the collision rectangle of o.
func (o Obstacle) Rect(cfg *config.RunnerConfig) core.Rect {
	return core.NewRect(o.X, o.Y, cfg.Obstacle.Width, cfg.Obstacle.Height)
}
