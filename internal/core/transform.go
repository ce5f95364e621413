package core

import "math"

// RotateX returns the x-coordinate of (x, y) rotated by angle radians about
// (cx, cy). The result is truncated toward zero.
func RotateX(x, y, cx, cy int, angle float64) int {
	sin, cos := math.Sincos(angle)
	dx, dy := float64(x-cx), float64(y-cy)
	return cx + int(dx*cos-dy*sin)
}

// RotateY returns the y-coordinate of (x, y) rotated by angle radians about
// (cx, cy). The result is truncated toward zero.
func RotateY(x, y, cx, cy int, angle float64) int {
	sin, cos := math.Sincos(angle)
	dx, dy := float64(x-cx), float64(y-cy)
	return cy + int(dx*sin+dy*cos)
}

// Rotate rotates p in place by angle radians about (cx, cy).
//
// Coordinates are truncated to integers on every call, so chaining rotations
// accumulates up to one unit of error per call on each axis.
func Rotate(p *Point2D, cx, cy int, angle float64) {
	x := RotateX(p.X, p.Y, cx, cy, angle)
	y := RotateY(p.X, p.Y, cx, cy, angle)
	p.X, p.Y = x, y
}
