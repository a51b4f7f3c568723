package core

import "math"

// Viewport projects a world rectangle onto a character screen.
// Simulations work in world units (pixels in the classic versions); the
// viewport turns those into cells when rendering.
type Viewport struct {
	World Rect
	Cols  int
	Rows  int
}

// NewViewport maps world onto a cols x rows grid.
func NewViewport(world Rect, cols, rows int) Viewport {
	return Viewport{World: world, Cols: max(cols, 1), Rows: max(rows, 1)}
}

// ViewportFor fits world onto the whole screen.
func ViewportFor(world Rect, s *Screen) Viewport {
	return NewViewport(world, s.Width(), s.Height())
}

// Point converts a world position to a cell position.
func (v Viewport) Point(x, y float64) (int, int) {
	return int(math.Floor(v.col(x))), int(math.Floor(v.row(y)))
}

// Cells converts a world rectangle to the half-open cell range it covers.
// Every non-empty rectangle covers at least one cell.
func (v Viewport) Cells(r Rect) (x0, y0, x1, y1 int) {
	x0, y0 = v.Point(r.X, r.Y)
	x1 = int(math.Ceil(v.col(r.Right())))
	y1 = int(math.Ceil(v.row(r.Bottom())))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

// Fill paints a world rectangle onto the screen.
func (v Viewport) Fill(s *Screen, r Rect, fill rune, c Color) {
	x0, y0, x1, y1 := v.Cells(r)
	s.FillCells(x0, y0, x1, y1, fill, c)
}

func (v Viewport) col(x float64) float64 {
	return (x - v.World.X) * float64(v.Cols) / v.World.W
}

func (v Viewport) row(y float64) float64 {
	return (y - v.World.Y) * float64(v.Rows) / v.World.H
}
