package render

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/tui-engine/internal/core"
)

// Bitmap is an owned pixel surface that draws itself through its Bounds.
// The Bounds start at the origin with the pixel dimensions of the surface;
// moving, rotating or scaling the Bounds changes where and how the pixels are
// blitted, never the pixels themselves.
type Bitmap struct {
	img    *image.RGBA
	bounds *core.Bounds
}

// NewBitmap creates a transparent bitmap of the given pixel size.
func NewBitmap(width, height int) (*Bitmap, error) {
	b, err := core.NewBounds(0, 0, width, height)
	if err != nil {
		return nil, fmt.Errorf("bitmap: %w", err)
	}
	return &Bitmap{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		bounds: b,
	}, nil
}

// NewBitmapFromImage copies src into a new bitmap anchored at the origin.
func NewBitmapFromImage(src image.Image) *Bitmap {
	sb := src.Bounds()
	bm, _ := NewBitmap(sb.Dx(), sb.Dy()) // image sizes are never negative
	xdraw.Copy(bm.img, image.Point{}, src, sb, xdraw.Src, nil)
	return bm
}

// Image returns the pixel surface.
func (b *Bitmap) Image() *image.RGBA {
	return b.img
}

// Bounds implements Drawable.
func (b *Bitmap) Bounds() *core.Bounds {
	return b.bounds
}

// Width returns the pixel width.
func (b *Bitmap) Width() int {
	return b.img.Rect.Dx()
}

// Height returns the pixel height.
func (b *Bitmap) Height() int {
	return b.img.Rect.Dy()
}

// Canvas returns a drawing context over the bitmap's own pixels.
func (b *Bitmap) Canvas() *Canvas {
	return NewCanvas(b.img)
}

// Set places a pixel. Out-of-bounds coordinates are silently ignored.
func (b *Bitmap) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(b.img.Rect)) {
		return
	}
	b.img.Set(x, y, c)
}

// At returns the pixel at (x, y), transparent when out of bounds.
func (b *Bitmap) At(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(b.img.Rect)) {
		return color.RGBA{}
	}
	return b.img.RGBAAt(x, y)
}

// Fill sets every pixel to c.
func (b *Bitmap) Fill(c color.Color) {
	xdraw.Draw(b.img, b.img.Rect, image.NewUniform(c), image.Point{}, xdraw.Src)
}

// Clear makes every pixel transparent.
func (b *Bitmap) Clear() {
	clear(b.img.Pix)
}

// Draw implements Drawable: the whole surface is blitted into the Bounds
// rect, rotated about the Bounds pivot when an angle is set.
func (b *Bitmap) Draw(ctx DrawContext) {
	dr := RectOf(b.bounds)
	if dr.Empty() {
		return
	}
	DrawRotated(ctx, b.bounds, func() {
		ctx.DrawImage(b.img, b.img.Rect, dr)
	})
}

var _ Drawable = (*Bitmap)(nil)
