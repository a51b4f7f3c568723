// Package qlearn implements tabular Q-learning against any registered
// environment: observation discretization, the epsilon-greedy training loop
// and greedy evaluation.
package qlearn

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
)

// ErrDimension is returned when an observation does not match the bounds.
var ErrDimension = errors.New("qlearn: observation dimension mismatch")

// State is a tuple of bucket indices, one per observation dimension.
type State []int

// Bounds are the per-dimension lower bound, upper bound and bucket count.
type Bounds struct {
	Lower   []float64
	Upper   []float64
	Buckets []int
}

// BoundsFrom converts the YAML bounds section.
func BoundsFrom(c config.BoundsConfig) Bounds {
	return Bounds{
		Lower:   slices.Clone(c.Lower),
		Upper:   slices.Clone(c.Upper),
		Buckets: slices.Clone(c.Buckets),
	}
}

// Discretizer maps continuous observations to bucket index tuples.
type Discretizer struct {
	b Bounds
}

// NewDiscretizer validates b: equal lengths, at least one dimension,
// upper > lower and at least one bucket per dimension.
func NewDiscretizer(b Bounds) (*Discretizer, error) {
	n := len(b.Buckets)
	if n == 0 {
		return nil, errors.New("qlearn: bounds have no dimensions")
	}
	if len(b.Lower) != n || len(b.Upper) != n {
		return nil, fmt.Errorf("qlearn: bounds lengths differ: lower %d, upper %d, buckets %d",
			len(b.Lower), len(b.Upper), n)
	}
	for i := 0; i < n; i++ {
		if !(b.Upper[i] > b.Lower[i]) {
			return nil, fmt.Errorf("qlearn: dimension %d: upper %g must exceed lower %g", i, b.Upper[i], b.Lower[i])
		}
		if b.Buckets[i] < 1 {
			return nil, fmt.Errorf("qlearn: dimension %d: %d buckets", i, b.Buckets[i])
		}
	}
	return &Discretizer{b: Bounds{
		Lower:   slices.Clone(b.Lower),
		Upper:   slices.Clone(b.Upper),
		Buckets: slices.Clone(b.Buckets),
	}}, nil
}

// Dims returns the observation dimensionality.
func (d *Discretizer) Dims() int {
	return len(d.b.Buckets)
}

// Buckets returns the bucket count per dimension.
func (d *Discretizer) Buckets() []int {
	return slices.Clone(d.b.Buckets)
}

// States returns the number of distinct discretized states.
func (d *Discretizer) States() int {
	n := 1
	for _, b := range d.b.Buckets {
		n *= b
	}
	return n
}

// Discretize maps obs to a bucket tuple. For each dimension the ratio
// (obs + |lower|) / (upper - lower) is scaled by buckets-1, rounded half to
// even and clamped into [0, buckets-1]. NaN maps to bucket 0.
func (d *Discretizer) Discretize(obs core.Observation) (State, error) {
	if len(obs) != d.Dims() {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrDimension, len(obs), d.Dims())
	}
	s := make(State, len(obs))
	for i, v := range obs {
		s[i] = d.bucket(i, v)
	}
	return s, nil
}

func (d *Discretizer) bucket(i int, v float64) int {
	top := d.b.Buckets[i] - 1
	if top == 0 || math.IsNaN(v) {
		return 0
	}
	ratio := (v - d.b.Lower[i]) / (d.b.Upper[i] - d.b.Lower[i])
	scaled := math.RoundToEven(float64(top) * ratio)
	if math.IsNaN(scaled) {
		return 0
	}
	// Clamp before converting so that huge values and infinities stay in range.
	return int(core.ClampF(scaled, 0, float64(top)))
}

// Index flattens a state in row-major order, matching qtable row layout.
func (d *Discretizer) Index(s State) int {
	idx := 0
	for i, b := range d.b.Buckets {
		idx = idx*b + s[i]
	}
	return idx
}
