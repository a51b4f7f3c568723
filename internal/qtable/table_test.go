package qtable

import (
	"errors"
	"slices"
	"testing"
)

func TestNewShape(t *testing.T) {
	tbl, err := New([]int{1, 1, 6, 5}, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := tbl.Shape(); !slices.Equal(got, []int{1, 1, 6, 5, 2}) {
		t.Errorf("Shape() = %v", got)
	}
	if tbl.States() != 30 || tbl.Actions() != 2 {
		t.Errorf("States/Actions = %d/%d, expected 30/2", tbl.States(), tbl.Actions())
	}
	if !tbl.IsZero() {
		t.Error("new table should be zero-filled")
	}
}

func TestNewRejectsBadShape(t *testing.T) {
	tests := []struct {
		name    string
		buckets []int
		actions int
	}{
		{"no state dims", nil, 2},
		{"zero bucket", []int{3, 0}, 2},
		{"zero actions", []int{3}, 0},
		{"negative bucket", []int{-1}, 2},
		{"overflowing product", []int{1 << 40, 1 << 30}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.buckets, tc.actions); !errors.Is(err, ErrShape) {
				t.Errorf("New() error = %v, expected ErrShape", err)
			}
		})
	}
}

func TestFromDataLength(t *testing.T) {
	if _, err := FromData([]int{2, 3}, make([]float64, 5)); !errors.Is(err, ErrShape) {
		t.Errorf("FromData() error = %v, expected ErrShape", err)
	}
}

func TestArgmaxFirstIndexWinsTies(t *testing.T) {
	tbl, _ := New([]int{2}, 3)
	tbl.Set(0, 1, 5)
	tbl.Set(0, 2, 5)

	if got := tbl.Argmax(0); got != 1 {
		t.Errorf("Argmax(0) = %d, expected 1", got)
	}
	if got := tbl.Argmax(1); got != 0 {
		t.Errorf("Argmax(1) on an all-zero row = %d, expected 0", got)
	}
	if got := tbl.Max(0); got != 5 {
		t.Errorf("Max(0) = %v, expected 5", got)
	}
}

func TestRowAliasesTable(t *testing.T) {
	tbl, _ := New([]int{2, 2}, 2)
	tbl.Row(3)[1] = 7

	if tbl.At(3, 1) != 7 {
		t.Error("Row() should alias the table")
	}
	// C order: state 3, action 1 is the last element.
	if d := tbl.Data(); d[len(d)-1] != 7 {
		t.Errorf("Data() tail = %v, expected 7", d[len(d)-1])
	}
	if tbl.Visited() != 1 {
		t.Errorf("Visited() = %d, expected 1", tbl.Visited())
	}
}

func TestCloneAndEqual(t *testing.T) {
	tbl, _ := New([]int{3}, 2)
	tbl.Set(1, 1, 0.5)

	c := tbl.Clone()
	if !c.Equal(tbl) {
		t.Fatal("clone should equal the original")
	}
	c.Set(1, 1, 0.25)
	if c.Equal(tbl) {
		t.Error("modifying the clone should not touch the original")
	}

	other, _ := New([]int{2}, 3)
	if other.Equal(tbl) {
		t.Error("tables with different shapes are not equal")
	}
}

func TestUnravel(t *testing.T) {
	tbl, _ := New([]int{2, 3, 4}, 2)
	if got := tbl.Unravel(0); !slices.Equal(got, []int{0, 0, 0}) {
		t.Errorf("Unravel(0) = %v", got)
	}
	// 1*12 + 2*4 + 3
	if got := tbl.Unravel(23); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("Unravel(23) = %v", got)
	}
}
