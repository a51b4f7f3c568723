package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/logrusorgru/aurora"
	"gonum.org/v1/gonum/floats"

	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/qtable"
)

// TableSummary describes a Q-table at a glance.
type TableSummary struct {
	Shape   []int
	States  int
	Visited int
	Min     float64
	Max     float64
}

// Summarize computes a TableSummary.
func Summarize(t *qtable.Table) TableSummary {
	s := TableSummary{Shape: t.Shape(), States: t.States(), Visited: t.Visited()}
	for i, v := range t.Data() {
		if i == 0 || v < s.Min {
			s.Min = v
		}
		if i == 0 || v > s.Max {
			s.Max = v
		}
	}
	return s
}

// DumpTable prints the summary and then one line per visited state: the
// bucket tuple followed by the value of each action. The greedy action is
// highlighted when color is set. At most limit rows are printed; zero means
// all of them.
func DumpTable(w io.Writer, t *qtable.Table, actions []core.Action, color bool, limit int) error {
	au := aurora.NewAurora(color)
	sum := Summarize(t)

	if _, err := fmt.Fprintf(w, "%s %v  %s %d/%d  %s [%.4g, %.4g]\n",
		au.Bold("shape"), sum.Shape,
		au.Bold("visited"), sum.Visited, sum.States,
		au.Bold("range"), sum.Min, sum.Max); err != nil {
		return err
	}

	header := make([]string, len(actions))
	for i, a := range actions {
		header[i] = fmt.Sprintf("%10s", a)
	}
	fmt.Fprintf(w, "%-20s %s\n", "state", au.Cyan(strings.Join(header, " ")))

	printed := 0
	for state := 0; state < t.States(); state++ {
		row := t.Row(state)
		if floats.Norm(row, math.Inf(1)) == 0 {
			continue
		}
		if limit > 0 && printed == limit {
			_, err := fmt.Fprintf(w, "%s\n", au.Gray(12, fmt.Sprintf("... %d more", sum.Visited-printed)))
			return err
		}
		best := t.Argmax(state)
		cells := make([]string, len(row))
		for a, v := range row {
			cell := fmt.Sprintf("%10.4f", v)
			switch {
			case a == best:
				cells[a] = au.Green(cell).Bold().String()
			case v < 0:
				cells[a] = au.Red(cell).String()
			default:
				cells[a] = cell
			}
		}
		if _, err := fmt.Fprintf(w, "%-20s %s\n", fmt.Sprint(t.Unravel(state)), strings.Join(cells, " ")); err != nil {
			return err
		}
		printed++
	}
	return nil
}
