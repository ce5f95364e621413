// Package render provides the drawing side of the engine: an immediate-mode
// drawing context, pixel bitmaps that draw themselves through their Bounds,
// and the double-buffered surface a host displays.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/vovakirdan/tui-engine/internal/core"
)

// Hints are rendering-quality settings for a DrawContext.
type Hints struct {
	// AntiAlias selects bilinear filtering for scaled and rotated blits
	// instead of nearest-neighbour sampling.
	AntiAlias bool
}

// DrawContext is an immediate-mode 2D drawing surface.
//
// The transform is a single current matrix: Rotate composes onto it,
// Transform and SetTransform save and restore it, ResetTransform returns to
// identity.
type DrawContext interface {
	// FillRect fills r with c under the current transform.
	FillRect(r image.Rectangle, c color.Color)

	// DrawImage draws the sr region of src scaled into dr under the current
	// transform.
	DrawImage(src image.Image, sr image.Rectangle, dr image.Rectangle)

	// Rotate composes a rotation of angle radians about (cx, cy).
	Rotate(angle float64, cx, cy int)

	// ResetTransform restores the identity transform.
	ResetTransform()

	// Transform returns the current transform.
	Transform() f64.Aff3

	// SetTransform replaces the current transform.
	SetTransform(m f64.Aff3)

	// SetHints sets rendering-quality hints for subsequent draws.
	SetHints(h Hints)
}

// Drawable is anything placed by Bounds that can render itself.
type Drawable interface {
	Bounds() *core.Bounds
	Draw(ctx DrawContext)
}

// RectOf converts bounds to the unrotated destination rectangle.
func RectOf(b *core.Bounds) image.Rectangle {
	r := b.Rect()
	return image.Rect(r.Left(), r.Top(), r.Right(), r.Bottom())
}

// DrawRotated composes the rotation held by b onto the current transform,
// calls draw, and restores the previous transform. Drawables use it to honour
// their Bounds angle inside contexts that are already rotated.
func DrawRotated(ctx DrawContext, b *core.Bounds, draw func()) {
	if !b.HasRotation() {
		draw()
		return
	}
	saved := ctx.Transform()
	ctx.Rotate(b.Angle(), b.RotationAxisX(), b.RotationAxisY())
	defer ctx.SetTransform(saved)
	draw()
}
