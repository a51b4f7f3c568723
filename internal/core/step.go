package core

import (
	"errors"
	"fmt"
)

// ErrInvalidAction is returned by Step when the action is not part of the
// environment's action space. State is left untouched.
var ErrInvalidAction = errors.New("invalid action")

// InvalidAction wraps ErrInvalidAction with the offending action and env.
func InvalidAction(envID string, a Action) error {
	return fmt.Errorf("%s: %w %s", envID, ErrInvalidAction, a)
}

// Observation is an ordered tuple of continuous scalars describing the
// simulation state as an agent sees it.
type Observation []float64

// Reason explains why an episode ended.
type Reason int

const (
	ReasonNone        Reason = iota // episode still running
	ReasonCollision                 // runner hit an obstacle
	ReasonOutOfBounds               // cart left the track
	ReasonPoleFell                  // pole angle exceeded the threshold
	ReasonStepCap                   // episode length limit reached
	ReasonWon                       // player 1 reached the win score
	ReasonLost                      // player 2 reached the win score
)

// String returns a short label for the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "running"
	case ReasonCollision:
		return "collision"
	case ReasonOutOfBounds:
		return "out-of-bounds"
	case ReasonPoleFell:
		return "pole-fell"
	case ReasonStepCap:
		return "step-cap"
	case ReasonWon:
		return "won"
	case ReasonLost:
		return "lost"
	default:
		return "unknown"
	}
}

// StepResult contains the outcome of a single simulation tick.
type StepResult struct {
	Observation Observation
	Reward      float64
	Done        bool
	Reason      Reason
	Score       int // game score shown to humans (dodges, goals, captures...)
}
