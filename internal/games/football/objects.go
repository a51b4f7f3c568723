package football

import (
	"math"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

// Player is a square that moves in 8 directions inside the pitch.
type Player struct {
	Rect  core.Rect
	Vel   core.Vec
	Score int
	home  core.Rect
}

func newPlayer(home core.Rect) *Player {
	return &Player{Rect: home, home: home}
}

// reset returns the player to its kick-off spot.
func (p *Player) reset() {
	p.Rect = p.home
	p.Vel = core.Vec{}
}

// move sets the velocity from the pressed directions, moves and clamps the
// player into the pitch.
func (p *Player) move(pitch core.Rect, speed float64, in core.InputFrame) {
	p.Vel = core.Vec{}
	if in.Has(core.ActionLeft) {
		p.Vel.X -= speed
	}
	if in.Has(core.ActionRight) {
		p.Vel.X += speed
	}
	if in.Has(core.ActionUp) {
		p.Vel.Y -= speed
	}
	if in.Has(core.ActionDown) {
		p.Vel.Y += speed
	}
	p.Rect = p.Rect.Move(p.Vel.X, p.Vel.Y).ClampInto(pitch)
}

// Ball bounces off walls and still players and picks up the velocity of
// moving ones.
type Ball struct {
	Rect core.Rect
	Vel  core.Vec
	home core.Rect
}

func newBall(center core.Vec, size float64) *Ball {
	home := core.NewRect(0, 0, size, size).CenteredOn(center.X, center.Y)
	return &Ball{Rect: home, home: home}
}

func (b *Ball) reset() {
	b.Rect = b.home
	b.Vel = core.Vec{}
}

func (b *Ball) bounce(x, y bool) {
	if x {
		b.Vel.X = -b.Vel.X
	}
	if y {
		b.Vel.Y = -b.Vel.Y
	}
}

// kickOff returns the left and right players' starting rectangles.
func kickOff(pitch core.Rect, size float64) (left, right core.Rect) {
	_, cy := pitch.Center()
	half := math.Floor(size / 2)
	left = core.NewRect(pitch.X+half, cy-half, size, size)
	right = core.NewRect(pitch.Right()-size*1.5, cy-half, size, size)
	return left, right
}

// goals returns the left and right goal mouths just outside the pitch.
func goals(pitch core.Rect, w, h float64) (left, right core.Rect) {
	g := pitch.Scale(w, h)
	left, right = g, g
	left.X = pitch.X - g.W
	right.X = pitch.Right()
	return left, right
}
