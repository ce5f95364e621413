package render

import (
	"image"
	"sync"
)

// Surface is the double-buffered visible surface. Painters draw into the back
// buffer and the buffers are swapped when a paint completes; readers only
// ever see a finished frame.
//
// Paints are serialized, and the swap excludes readers, so the render loop
// and host-triggered redraws may paint from different goroutines.
type Surface struct {
	paintMu sync.Mutex // serializes painters on back

	mu    sync.RWMutex // guards front during swap
	front *image.RGBA
	back  *image.RGBA

	hints Hints
}

// NewSurface creates a surface of the given pixel size.
func NewSurface(width, height int, hints Hints) *Surface {
	r := image.Rect(0, 0, width, height)
	return &Surface{
		front: image.NewRGBA(r),
		back:  image.NewRGBA(r),
		hints: hints,
	}
}

// Size returns the pixel dimensions.
func (s *Surface) Size() (int, int) {
	return s.back.Rect.Dx(), s.back.Rect.Dy()
}

// Paint runs fn against the back buffer and then presents it.
func (s *Surface) Paint(fn func(c *Canvas)) {
	s.paintMu.Lock()
	defer s.paintMu.Unlock()

	c := NewCanvas(s.back)
	c.SetHints(s.hints)
	fn(c)

	s.mu.Lock()
	s.front, s.back = s.back, s.front
	s.mu.Unlock()
}

// View calls fn with the front buffer under a read lock. fn must not retain
// the image.
func (s *Surface) View(fn func(img *image.RGBA)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.front)
}

// Snapshot returns a copy of the front buffer.
func (s *Surface) Snapshot() *image.RGBA {
	var out *image.RGBA
	s.View(func(img *image.RGBA) {
		out = image.NewRGBA(img.Rect)
		copy(out.Pix, img.Pix)
	})
	return out
}
