package core

import (
	"fmt"
	"math"
)

// Point2D is a mutable integer coordinate.
type Point2D struct {
	X, Y int
}

// Pt is shorthand for Point2D{X: x, Y: y}.
func Pt(x, y int) Point2D {
	return Point2D{X: x, Y: y}
}

// Set moves the point to (x, y).
func (p *Point2D) Set(x, y int) {
	p.X, p.Y = x, y
}

// Translate moves the point by (dx, dy).
func (p *Point2D) Translate(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// Distance returns the euclidean distance to other.
func (p Point2D) Distance(other Point2D) float64 {
	return math.Hypot(float64(other.X-p.X), float64(other.Y-p.Y))
}

// Rotate rotates the point in place about (cx, cy). See [Rotate].
func (p *Point2D) Rotate(cx, cy int, angle float64) {
	Rotate(p, cx, cy, angle)
}

// String implements fmt.Stringer.
func (p Point2D) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
