// Package qtable holds the dense action-value table shared by every agent
// and persists it as a NumPy .npy array.
//
// A table shaped (b1, ..., bn, actions) is stored as a gonum matrix with one
// row per flattened state (row-major over the bucket dimensions) and one
// column per action, so the flat backing slice is exactly the C-order layout
// of the N-dimensional array.
package qtable

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned when a shape is empty, has a non-positive dimension
// or holds more cells than an int can count.
var ErrShape = errors.New("qtable: invalid shape")

// Table is a dense array shaped (buckets..., actions) of float64.
type Table struct {
	shape []int
	m     *mat.Dense
}

// New returns a zero-filled table for the given bucket counts and number of
// actions.
func New(buckets []int, actions int) (*Table, error) {
	shape := append(slices.Clone(buckets), actions)
	return FromData(shape, nil)
}

// FromData builds a table of the given full shape over data, which must hold
// exactly prod(shape) values in C order. A nil data slice allocates zeros.
// The table takes ownership of data.
func FromData(shape []int, data []float64) (*Table, error) {
	if len(shape) < 2 {
		return nil, fmt.Errorf("%w: %v needs at least one state dimension and the action dimension", ErrShape, shape)
	}
	size, ok := cells(shape)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrShape, shape)
	}
	actions := shape[len(shape)-1]
	states := size / actions

	if data != nil && len(data) != states*actions {
		return nil, fmt.Errorf("%w: %v needs %d values, got %d", ErrShape, shape, states*actions, len(data))
	}

	return &Table{
		shape: slices.Clone(shape),
		m:     mat.NewDense(states, actions, data),
	}, nil
}

// cells returns the product of shape. It reports false for non-positive
// dimensions or a product that overflows int.
func cells(shape []int) (int, bool) {
	n := 1
	for _, d := range shape {
		if d <= 0 || n > math.MaxInt/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// Shape returns the full shape (buckets..., actions).
func (t *Table) Shape() []int {
	return slices.Clone(t.shape)
}

// Buckets returns the state dimensions of the table.
func (t *Table) Buckets() []int {
	return slices.Clone(t.shape[:len(t.shape)-1])
}

// States returns the number of flattened states.
func (t *Table) States() int {
	r, _ := t.m.Dims()
	return r
}

// Actions returns the number of actions.
func (t *Table) Actions() int {
	_, c := t.m.Dims()
	return c
}

// Row returns the action values of a flattened state. The slice aliases the
// table.
func (t *Table) Row(state int) []float64 {
	return t.m.RawRowView(state)
}

// At returns Q[state][action].
func (t *Table) At(state, action int) float64 {
	return t.m.At(state, action)
}

// Set assigns Q[state][action].
func (t *Table) Set(state, action int, v float64) {
	t.m.Set(state, action, v)
}

// Argmax returns the best action of a state; the first index wins ties.
func (t *Table) Argmax(state int) int {
	return floats.MaxIdx(t.Row(state))
}

// Max returns the best action value of a state.
func (t *Table) Max(state int) float64 {
	return floats.Max(t.Row(state))
}

// Data returns the C-order backing slice. It aliases the table.
func (t *Table) Data() []float64 {
	return t.m.RawMatrix().Data
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c, _ := FromData(t.shape, slices.Clone(t.Data()))
	return c
}

// Equal reports whether both tables have the same shape and bit-identical
// values.
func (t *Table) Equal(o *Table) bool {
	if !slices.Equal(t.shape, o.shape) {
		return false
	}
	a, b := t.Data(), o.Data()
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

// IsZero reports whether every value is exactly zero.
func (t *Table) IsZero() bool {
	for _, v := range t.Data() {
		if v != 0 {
			return false
		}
	}
	return true
}

// Visited returns the number of states with at least one non-zero value.
func (t *Table) Visited() int {
	n := 0
	for s := 0; s < t.States(); s++ {
		if floats.Norm(t.Row(s), math.Inf(1)) != 0 {
			n++
		}
	}
	return n
}

// Unravel converts a flattened state index back into bucket coordinates.
func (t *Table) Unravel(state int) []int {
	buckets := t.shape[:len(t.shape)-1]
	idx := make([]int, len(buckets))
	for i := len(buckets) - 1; i >= 0; i-- {
		idx[i] = state % buckets[i]
		state /= buckets[i]
	}
	return idx
}
