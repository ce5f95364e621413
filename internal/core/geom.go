// Package core provides the geometric model of the engine: points, rotation
// math, rectangles and rotatable bounds, plus the configuration and input
// types shared by every layer. It has no terminal or rendering dependencies
// so geometry stays pure and testable.
package core

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned by mutating calls that would break a
// geometric invariant. The receiver is left unchanged.
var ErrInvalidArgument = errors.New("invalid argument")

// Rect is an axis-aligned rectangle stored as its four edges.
// Bottom and right are derived from width and height whenever the rect is set,
// so Width() and Height() are never negative.
type Rect struct {
	top, left     int
	bottom, right int
}

// NewRect creates a rectangle from its top-left corner and dimensions.
func NewRect(top, left, width, height int) (Rect, error) {
	var r Rect
	if err := r.Set(top, left, width, height); err != nil {
		return Rect{}, err
	}
	return r, nil
}

// Set replaces the rectangle. Negative width or height fails with
// ErrInvalidArgument and keeps the previous value.
func (r *Rect) Set(top, left, width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("rect: negative size %dx%d: %w", width, height, ErrInvalidArgument)
	}
	r.top = top
	r.left = left
	r.bottom = top + height
	r.right = left + width
	return nil
}

// SetWidth resizes the rect horizontally, keeping the left edge.
func (r *Rect) SetWidth(width int) error {
	return r.Set(r.top, r.left, width, r.Height())
}

// SetHeight resizes the rect vertically, keeping the top edge.
func (r *Rect) SetHeight(height int) error {
	return r.Set(r.top, r.left, r.Width(), height)
}

// SetPosition moves the rect so its top-left corner is at (left, top).
func (r *Rect) SetPosition(top, left int) {
	w, h := r.Width(), r.Height()
	r.top = top
	r.left = left
	r.bottom = top + h
	r.right = left + w
}

// Translate moves the rect by (dx, dy).
func (r *Rect) Translate(dx, dy int) {
	r.SetPosition(r.top+dy, r.left+dx)
}

// Top returns the y-coordinate of the top edge.
func (r Rect) Top() int { return r.top }

// Left returns the x-coordinate of the left edge.
func (r Rect) Left() int { return r.left }

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.bottom }

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int { return r.right }

// Width returns right - left.
func (r Rect) Width() int { return r.right - r.left }

// Height returns bottom - top.
func (r Rect) Height() int { return r.bottom - r.top }

// CenterX returns the x-coordinate of the unrotated centre.
func (r Rect) CenterX() int { return r.left + r.Width()/2 }

// CenterY returns the y-coordinate of the unrotated centre.
func (r Rect) CenterY() int { return r.top + r.Height()/2 }

// RelativeX maps a fraction of the width to an absolute x-coordinate.
// 0 is the left edge, 1 the right edge.
func (r Rect) RelativeX(f float64) int {
	return r.left + int(f*float64(r.Width()))
}

// RelativeY maps a fraction of the height to an absolute y-coordinate.
// 0 is the top edge, 1 the bottom edge.
func (r Rect) RelativeY(f float64) int {
	return r.top + int(f*float64(r.Height()))
}

// ContainsPoint reports whether (x, y) lies inside the rect.
// All four edges are inclusive.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.left && x <= r.right && y >= r.top && y <= r.bottom
}

// OverlapsRect reports whether any corner of other lies inside r.
//
// The test is corner based and therefore not symmetric: when other fully
// encloses r none of its corners are inside r, so r.OverlapsRect(other) is
// false while other.OverlapsRect(r) is true. Two rects crossing like a plus
// sign report false in both directions.
func (r Rect) OverlapsRect(other Rect) bool {
	return r.ContainsPoint(other.left, other.top) ||
		r.ContainsPoint(other.right, other.top) ||
		r.ContainsPoint(other.left, other.bottom) ||
		r.ContainsPoint(other.right, other.bottom)
}

// IsInRect reports whether r lies entirely within outer.
// Shared edges count, so a rect is in an identical rect.
func (r Rect) IsInRect(outer Rect) bool {
	return r.left >= outer.left && r.right <= outer.right &&
		r.top >= outer.top && r.bottom <= outer.bottom
}

// IsUnder reports whether r is below other (y grows downward) and lies
// within other's horizontal extent. Touching edges count.
func (r Rect) IsUnder(other Rect) bool {
	return r.top >= other.bottom && r.withinColumns(other)
}

// IsAbove reports whether r is above other and lies within other's
// horizontal extent. Touching edges count.
func (r Rect) IsAbove(other Rect) bool {
	return r.bottom <= other.top && r.withinColumns(other)
}

func (r Rect) withinColumns(other Rect) bool {
	return r.left >= other.left && r.right <= other.right
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(top=%d left=%d %dx%d)", r.top, r.left, r.Width(), r.Height())
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
