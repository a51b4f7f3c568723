package qlearn

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

func mustDiscretizer(t *testing.T, b Bounds) *Discretizer {
	t.Helper()
	d, err := NewDiscretizer(b)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDiscretize(t *testing.T) {
	d := mustDiscretizer(t, Bounds{
		Lower:   []float64{-1},
		Upper:   []float64{1},
		Buckets: []int{5},
	})

	tests := []struct {
		name string
		v    float64
		want int
	}{
		{"lower bound", -1, 0},
		{"upper bound", 1, 4},
		{"middle", 0, 2},
		{"above upper clamps", 100, 4},
		{"below lower clamps", -100, 0},
		{"positive infinity", math.Inf(1), 4},
		{"negative infinity", math.Inf(-1), 0},
		{"nan", math.NaN(), 0},
		{"half rounds to even 0.5", -0.75, 0},
		{"half rounds to even 1.5", -0.25, 2},
		{"half rounds to even 2.5", 0.25, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := d.Discretize(core.Observation{tt.v})
			if err != nil {
				t.Fatal(err)
			}
			if s[0] != tt.want {
				t.Errorf("Discretize(%v) = %d, want %d", tt.v, s[0], tt.want)
			}
		})
	}
}

func TestDiscretizeOffsetBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
		v      float64
		want   int
	}{
		{"positive lower at lower", Bounds{[]float64{10}, []float64{20}, []int{11}}, 10, 0},
		{"positive lower midpoint", Bounds{[]float64{10}, []float64{20}, []int{11}}, 15, 5},
		{"positive lower at upper", Bounds{[]float64{10}, []float64{20}, []int{11}}, 20, 10},
		{"positive lower interior", Bounds{[]float64{10}, []float64{20}, []int{11}}, 12.3, 2},
		{"asymmetric at lower", Bounds{[]float64{-2}, []float64{6}, []int{9}}, -2, 0},
		{"asymmetric zero", Bounds{[]float64{-2}, []float64{6}, []int{9}}, 0, 2},
		{"asymmetric at upper", Bounds{[]float64{-2}, []float64{6}, []int{9}}, 6, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDiscretizer(t, tt.bounds)
			s, err := d.Discretize(core.Observation{tt.v})
			if err != nil {
				t.Fatal(err)
			}
			if s[0] != tt.want {
				t.Errorf("Discretize(%v) = %d, want %d", tt.v, s[0], tt.want)
			}
		})
	}
}

func TestSingleBucketAlwaysZero(t *testing.T) {
	d := mustDiscretizer(t, Bounds{
		Lower:   []float64{-4.8, -3.4},
		Upper:   []float64{4.8, 3.4},
		Buckets: []int{1, 1},
	})
	for _, v := range []float64{-4.8, 0, 4.8, 1e9, math.Inf(1), math.Inf(-1), math.NaN()} {
		s, _ := d.Discretize(core.Observation{v, v})
		if !slices.Equal(s, State{0, 0}) {
			t.Errorf("Discretize(%v) = %v, want [0 0]", v, s)
		}
	}
}

func TestDiscretizeDimensionMismatch(t *testing.T) {
	d := mustDiscretizer(t, Bounds{
		Lower:   []float64{-1, -1},
		Upper:   []float64{1, 1},
		Buckets: []int{3, 3},
	})
	if _, err := d.Discretize(core.Observation{0}); !errors.Is(err, ErrDimension) {
		t.Errorf("err = %v, want ErrDimension", err)
	}
}

func TestNewDiscretizerValidation(t *testing.T) {
	tests := []struct {
		name string
		b    Bounds
	}{
		{"no dimensions", Bounds{}},
		{"length mismatch", Bounds{Lower: []float64{0}, Upper: []float64{1, 2}, Buckets: []int{2}}},
		{"upper equals lower", Bounds{Lower: []float64{1}, Upper: []float64{1}, Buckets: []int{2}}},
		{"zero buckets", Bounds{Lower: []float64{0}, Upper: []float64{1}, Buckets: []int{0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDiscretizer(tt.b); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDiscretizerCopiesBounds(t *testing.T) {
	b := Bounds{Lower: []float64{-1}, Upper: []float64{1}, Buckets: []int{3}}
	d := mustDiscretizer(t, b)
	b.Buckets[0] = 99

	if d.States() != 3 {
		t.Errorf("States() = %d after caller mutation, want 3", d.States())
	}
}

func TestIndexRowMajor(t *testing.T) {
	d := mustDiscretizer(t, Bounds{
		Lower:   []float64{-1, -1, -1},
		Upper:   []float64{1, 1, 1},
		Buckets: []int{2, 3, 4},
	})
	if d.States() != 24 {
		t.Fatalf("States() = %d, want 24", d.States())
	}

	seen := make(map[int]bool)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				idx := d.Index(State{i, j, k})
				if want := i*12 + j*4 + k; idx != want {
					t.Errorf("Index(%d,%d,%d) = %d, want %d", i, j, k, idx, want)
				}
				seen[idx] = true
			}
		}
	}
	if len(seen) != 24 {
		t.Errorf("indices not unique: %d distinct", len(seen))
	}
}
