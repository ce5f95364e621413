package core

import (
	"fmt"
	"math"
)

// DefaultRotationAxis places the pivot at the centre of the rect.
const DefaultRotationAxis = 0.5

// Bounds places and orients a drawable: a rect, a rotation axis expressed as
// fractions of the rect, and a rotation angle in radians.
//
// The axis is stored as fractions rather than absolute coordinates so the
// pivot follows the rect when it is moved or resized. Every query that needs
// the pivot derives it from the current rect.
type Bounds struct {
	rect  Rect
	axisX float64
	axisY float64
	angle float64
}

// NewBounds creates bounds around the given rect with a centred rotation axis
// and no rotation.
func NewBounds(top, left, width, height int) (*Bounds, error) {
	r, err := NewRect(top, left, width, height)
	if err != nil {
		return nil, fmt.Errorf("bounds: %w", err)
	}
	return &Bounds{
		rect:  r,
		axisX: DefaultRotationAxis,
		axisY: DefaultRotationAxis,
	}, nil
}

// Rect returns the owned rect. Mutations through the pointer are visible to
// the bounds.
func (b *Bounds) Rect() *Rect {
	return &b.rect
}

// Width returns the rect width.
func (b *Bounds) Width() int { return b.rect.Width() }

// Height returns the rect height.
func (b *Bounds) Height() int { return b.rect.Height() }

// Top returns the unrotated top edge.
func (b *Bounds) Top() int { return b.rect.Top() }

// Left returns the unrotated left edge.
func (b *Bounds) Left() int { return b.rect.Left() }

// SetPosition moves the rect keeping its size.
func (b *Bounds) SetPosition(top, left int) {
	b.rect.SetPosition(top, left)
}

// Translate moves the rect by (dx, dy).
func (b *Bounds) Translate(dx, dy int) {
	b.rect.Translate(dx, dy)
}

// SetSize resizes the rect keeping its top-left corner.
func (b *Bounds) SetSize(width, height int) error {
	if err := b.rect.Set(b.rect.Top(), b.rect.Left(), width, height); err != nil {
		return fmt.Errorf("bounds: %w", err)
	}
	return nil
}

// SetRotationAxis sets the pivot as fractions of the rect. Both fractions
// must be in [0, 1]; otherwise ErrInvalidArgument is returned and the axis
// is unchanged.
func (b *Bounds) SetRotationAxis(fx, fy float64) error {
	if !(fx >= 0 && fx <= 1) || !(fy >= 0 && fy <= 1) {
		return fmt.Errorf("bounds: rotation axis (%g, %g) outside [0,1]: %w", fx, fy, ErrInvalidArgument)
	}
	b.axisX = fx
	b.axisY = fy
	return nil
}

// RotationAxisFractions returns the pivot as fractions of the rect.
func (b *Bounds) RotationAxisFractions() (float64, float64) {
	return b.axisX, b.axisY
}

// RotationAxisX returns the absolute x-coordinate of the pivot.
func (b *Bounds) RotationAxisX() int {
	return b.rect.RelativeX(b.axisX)
}

// RotationAxisY returns the absolute y-coordinate of the pivot.
func (b *Bounds) RotationAxisY() int {
	return b.rect.RelativeY(b.axisY)
}

// SetAngle sets the rotation in radians. Any exact multiple of 2π, and any
// non-finite value, is stored as 0 so "no rotation" is a distinct state.
func (b *Bounds) SetAngle(angle float64) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		b.angle = 0
		return
	}
	turns := angle / (2 * math.Pi)
	if turns == math.Trunc(turns) {
		b.angle = 0
		return
	}
	b.angle = angle
}

// Rotate adds delta radians to the current angle.
func (b *Bounds) Rotate(delta float64) {
	b.SetAngle(b.angle + delta)
}

// Angle returns the stored angle in radians.
func (b *Bounds) Angle() float64 {
	return b.angle
}

// HasRotation reports whether a non-zero angle is set.
func (b *Bounds) HasRotation() bool {
	return b.angle != 0
}

// CenterX returns the x-coordinate of the rect centre after rotation about
// the pivot.
func (b *Bounds) CenterX() int {
	return b.rotated(b.rect.CenterX(), b.rect.CenterY()).X
}

// CenterY returns the y-coordinate of the rect centre after rotation about
// the pivot.
func (b *Bounds) CenterY() int {
	return b.rotated(b.rect.CenterX(), b.rect.CenterY()).Y
}

// TopLeft returns the rotated top-left corner.
func (b *Bounds) TopLeft() Point2D {
	return b.rotated(b.rect.Left(), b.rect.Top())
}

// TopRight returns the rotated top-right corner.
func (b *Bounds) TopRight() Point2D {
	return b.rotated(b.rect.Right(), b.rect.Top())
}

// BottomRight returns the rotated bottom-right corner.
func (b *Bounds) BottomRight() Point2D {
	return b.rotated(b.rect.Right(), b.rect.Bottom())
}

// BottomLeft returns the rotated bottom-left corner.
func (b *Bounds) BottomLeft() Point2D {
	return b.rotated(b.rect.Left(), b.rect.Bottom())
}

// Corners returns the rotated corners clockwise from the top-left.
func (b *Bounds) Corners() [4]Point2D {
	return [4]Point2D{b.TopLeft(), b.TopRight(), b.BottomRight(), b.BottomLeft()}
}

// Scale resizes the rect to width*sx by height*sy keeping the pivot fixed.
// A negative factor on either axis collapses both dimensions to zero at the
// pivot.
func (b *Bounds) Scale(sx, sy float64) {
	px, py := b.RotationAxisX(), b.RotationAxisY()

	w, h := 0, 0
	if sx >= 0 && sy >= 0 {
		w = int(float64(b.rect.Width()) * sx)
		h = int(float64(b.rect.Height()) * sy)
	}

	left := px - int(b.axisX*float64(w))
	top := py - int(b.axisY*float64(h))
	// w and h are non-negative here, Set cannot fail.
	_ = b.rect.Set(top, left, w, h)
}

// rotated rotates (x, y) about the live pivot, or returns it unchanged when
// there is no rotation.
func (b *Bounds) rotated(x, y int) Point2D {
	p := Pt(x, y)
	if b.HasRotation() {
		p.Rotate(b.RotationAxisX(), b.RotationAxisY(), b.angle)
	}
	return p
}
