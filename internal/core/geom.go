// Package core provides fundamental types and utilities shared by every
// simulation. It has no UI dependencies so that game logic stays pure and
// testable from plain unit tests and from the training loop.
package core

import "math"

// Rect represents an axis-aligned bounding box in world units.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as an overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if other lies completely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Right() <= r.Right() &&
		other.Y >= r.Y && other.Bottom() <= r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Move returns the rectangle translated by (dx, dy).
func (r Rect) Move(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// CenteredOn returns a copy of r whose center is (cx, cy).
func (r Rect) CenteredOn(cx, cy float64) Rect {
	r.X = cx - r.W/2
	r.Y = cy - r.H/2
	return r
}

// ClampInto moves r the minimum distance needed to lie inside bounds.
// A rectangle larger than bounds is centered on that axis.
func (r Rect) ClampInto(bounds Rect) Rect {
	if r.W >= bounds.W {
		r.X = bounds.X + (bounds.W-r.W)/2
	} else {
		r.X = ClampF(r.X, bounds.X, bounds.Right()-r.W)
	}
	if r.H >= bounds.H {
		r.Y = bounds.Y + (bounds.H-r.H)/2
	} else {
		r.Y = ClampF(r.Y, bounds.Y, bounds.Bottom()-r.H)
	}
	return r
}

// Scale returns a rectangle with the same center and its size multiplied
// by (sx, sy).
func (r Rect) Scale(sx, sy float64) Rect {
	cx, cy := r.Center()
	return Rect{W: r.W * sx, H: r.H * sy}.CenteredOn(cx, cy)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Vec is a 2D velocity or offset.
type Vec struct {
	X, Y float64
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Mul returns v scaled by k.
func (v Vec) Mul(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}
