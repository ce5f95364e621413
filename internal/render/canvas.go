package render

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Canvas is a DrawContext backed by an *image.RGBA. Transformed blits go
// through golang.org/x/image/draw.
type Canvas struct {
	dst   *image.RGBA
	m     f64.Aff3
	hints Hints
}

// NewCanvas creates a canvas drawing into dst with an identity transform.
func NewCanvas(dst *image.RGBA) *Canvas {
	return &Canvas{dst: dst, m: identity}
}

// Image returns the destination image.
func (c *Canvas) Image() *image.RGBA {
	return c.dst
}

// Transform implements DrawContext. The matrix maps source to destination.
func (c *Canvas) Transform() f64.Aff3 {
	return c.m
}

// SetTransform implements DrawContext.
func (c *Canvas) SetTransform(m f64.Aff3) {
	c.m = m
}

// Clear fills the whole destination with col, ignoring the transform.
func (c *Canvas) Clear(col color.Color) {
	xdraw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{}, xdraw.Src)
}

// FillRect implements DrawContext.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	src := image.NewUniform(col)
	if c.m == identity {
		xdraw.Draw(c.dst, r, src, image.Point{}, xdraw.Over)
		return
	}
	sr := image.Rect(0, 0, r.Dx(), r.Dy())
	m := mul(c.m, translate(float64(r.Min.X), float64(r.Min.Y)))
	c.interpolator().Transform(c.dst, m, src, sr, xdraw.Over, nil)
}

// DrawImage implements DrawContext.
func (c *Canvas) DrawImage(src image.Image, sr, dr image.Rectangle) {
	sr = sr.Intersect(src.Bounds())
	if sr.Empty() || dr.Empty() {
		return
	}

	if c.m == identity {
		if sr.Size() == dr.Size() {
			xdraw.Copy(c.dst, dr.Min, src, sr, xdraw.Over, nil)
			return
		}
		c.interpolator().Scale(c.dst, dr, src, sr, xdraw.Over, nil)
		return
	}

	sx := float64(dr.Dx()) / float64(sr.Dx())
	sy := float64(dr.Dy()) / float64(sr.Dy())
	m := mul(c.m, translate(float64(dr.Min.X), float64(dr.Min.Y)))
	m = mul(m, scale(sx, sy))
	m = mul(m, translate(-float64(sr.Min.X), -float64(sr.Min.Y)))
	c.interpolator().Transform(c.dst, m, src, sr, xdraw.Over, nil)
}

// Rotate implements DrawContext.
func (c *Canvas) Rotate(angle float64, cx, cy int) {
	if angle == 0 {
		return
	}
	c.m = mul(c.m, rotation(angle, float64(cx), float64(cy)))
}

// ResetTransform implements DrawContext.
func (c *Canvas) ResetTransform() {
	c.m = identity
}

// SetHints implements DrawContext.
func (c *Canvas) SetHints(h Hints) {
	c.hints = h
}

func (c *Canvas) interpolator() xdraw.Interpolator {
	if c.hints.AntiAlias {
		return xdraw.ApproxBiLinear
	}
	return xdraw.NearestNeighbor
}

// Aff3 layout: x' = m[0]*x + m[1]*y + m[2], y' = m[3]*x + m[4]*y + m[5].

// mul returns p∘q: q is applied first.
func mul(p, q f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		p[0]*q[0] + p[1]*q[3],
		p[0]*q[1] + p[1]*q[4],
		p[0]*q[2] + p[1]*q[5] + p[2],
		p[3]*q[0] + p[4]*q[3],
		p[3]*q[1] + p[4]*q[4],
		p[3]*q[2] + p[4]*q[5] + p[5],
	}
}

func translate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

func scale(sx, sy float64) f64.Aff3 {
	return f64.Aff3{sx, 0, 0, 0, sy, 0}
}

// rotation matches core.Rotate: [cos -sin; sin cos] about (cx, cy).
func rotation(angle, cx, cy float64) f64.Aff3 {
	sin, cos := math.Sincos(angle)
	return f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
}

var _ DrawContext = (*Canvas)(nil)
