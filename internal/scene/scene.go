// Package scene holds the unit of composition the render loop drives: a
// private frame buffer plus the hooks that advance and draw into it.
package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/render"
)

// ErrNoHooks is returned by New when no hooks are supplied.
var ErrNoHooks = errors.New("scene: hooks are required")

// Hooks is what a concrete scene supplies.
// Update advances state by the elapsed time of the previous tick.
// Compose draws the scene into its frame buffer, which is cleared to
// transparent before each call.
type Hooks interface {
	Update(elapsed time.Duration)
	Compose(ctx render.DrawContext)
}

// Attacher is implemented by hooks that need their Scene, for example to
// rotate or scale the frame buffer as a unit.
type Attacher interface {
	Attach(s *Scene)
}

// Scene owns exactly one frame buffer sized to the configured resolution.
// It does not own the render loop.
type Scene struct {
	hooks Hooks
	fb    *render.Bitmap
	hints render.Hints
}

// New creates a scene for cfg.
func New(cfg core.GameConfig, hooks Hooks) (*Scene, error) {
	if hooks == nil {
		return nil, ErrNoHooks
	}
	fb, err := render.NewBitmap(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("scene: frame buffer: %w", err)
	}

	s := &Scene{
		hooks: hooks,
		fb:    fb,
		hints: render.Hints{AntiAlias: cfg.AntiAlias},
	}
	if a, ok := hooks.(Attacher); ok {
		a.Attach(s)
	}
	return s, nil
}

// Hooks returns the scene's hooks.
func (s *Scene) Hooks() Hooks {
	return s.hooks
}

// FrameBuffer returns the private frame buffer.
func (s *Scene) FrameBuffer() *render.Bitmap {
	return s.fb
}

// Bounds returns the frame buffer bounds. Rotating or scaling them
// transforms the whole scene when it is painted.
func (s *Scene) Bounds() *core.Bounds {
	return s.fb.Bounds()
}

// Update forwards the elapsed time to the hooks.
func (s *Scene) Update(elapsed time.Duration) {
	s.hooks.Update(elapsed)
}

// Paint composes the frame buffer and draws it onto the visible context
// through the frame buffer's bounds.
func (s *Scene) Paint(ctx render.DrawContext) {
	s.fb.Clear()
	c := s.fb.Canvas()
	c.SetHints(s.hints)
	s.hooks.Compose(c)

	ctx.SetHints(s.hints)
	s.fb.Draw(ctx)
}
