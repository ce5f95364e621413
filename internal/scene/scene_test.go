package scene

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/render"
)

var (
	red  = color.RGBA{0xff, 0, 0, 0xff}
	blue = color.RGBA{0, 0, 0xff, 0xff}
)

type fakeHooks struct {
	elapsed  []time.Duration
	composed int
	attached *Scene
	compose  func(ctx render.DrawContext)
}

func (h *fakeHooks) Update(elapsed time.Duration) {
	h.elapsed = append(h.elapsed, elapsed)
}

func (h *fakeHooks) Compose(ctx render.DrawContext) {
	h.composed++
	if h.compose != nil {
		h.compose(ctx)
	}
}

func (h *fakeHooks) Attach(s *Scene) {
	h.attached = s
}

func testConfig(w, h int) core.GameConfig {
	cfg := core.DefaultConfig()
	cfg.Width, cfg.Height = w, h
	return cfg
}

func TestNewRequiresHooks(t *testing.T) {
	if _, err := New(testConfig(4, 4), nil); !errors.Is(err, ErrNoHooks) {
		t.Errorf("New(nil hooks) error = %v, expected ErrNoHooks", err)
	}
}

func TestNewRejectsNegativeResolution(t *testing.T) {
	_, err := New(testConfig(-1, 4), &fakeHooks{})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("error = %v, expected ErrInvalidArgument", err)
	}
}

func TestNewFrameBufferSize(t *testing.T) {
	h := &fakeHooks{}
	s, err := New(testConfig(16, 9), h)
	if err != nil {
		t.Fatal(err)
	}
	if s.FrameBuffer().Width() != 16 || s.FrameBuffer().Height() != 9 {
		t.Errorf("frame buffer = %dx%d, expected 16x9", s.FrameBuffer().Width(), s.FrameBuffer().Height())
	}
	if h.attached != s {
		t.Error("hooks implementing Attacher should receive the scene")
	}
	if s.Hooks() != h {
		t.Error("Hooks() should return the supplied hooks")
	}
}

func TestUpdateForwardsElapsed(t *testing.T) {
	h := &fakeHooks{}
	s, _ := New(testConfig(1, 1), h)
	s.Update(16 * time.Millisecond)
	s.Update(0)

	if len(h.elapsed) != 2 || h.elapsed[0] != 16*time.Millisecond || h.elapsed[1] != 0 {
		t.Errorf("elapsed = %v", h.elapsed)
	}
}

func TestPaintComposesThenBlits(t *testing.T) {
	h := &fakeHooks{compose: func(ctx render.DrawContext) {
		ctx.FillRect(image.Rect(0, 0, 2, 1), red)
	}}
	s, _ := New(testConfig(4, 2), h)

	dst := render.NewCanvas(image.NewRGBA(image.Rect(0, 0, 4, 2)))
	s.Paint(dst)

	if h.composed != 1 {
		t.Errorf("composed %d times, expected 1", h.composed)
	}
	if got := dst.Image().RGBAAt(0, 0); got != red {
		t.Errorf("visible (0, 0) = %v, expected red", got)
	}
	if got := dst.Image().RGBAAt(3, 1); got != (color.RGBA{}) {
		t.Errorf("visible (3, 1) = %v, expected untouched", got)
	}
}

func TestPaintClearsFrameBuffer(t *testing.T) {
	first := true
	h := &fakeHooks{}
	h.compose = func(ctx render.DrawContext) {
		if first {
			ctx.FillRect(image.Rect(0, 0, 1, 1), red)
			first = false
		}
	}
	s, _ := New(testConfig(2, 2), h)

	s.Paint(render.NewCanvas(image.NewRGBA(image.Rect(0, 0, 2, 2))))
	s.Paint(render.NewCanvas(image.NewRGBA(image.Rect(0, 0, 2, 2))))

	if got := s.FrameBuffer().At(0, 0); got != (color.RGBA{}) {
		t.Errorf("frame buffer kept %v from the previous frame", got)
	}
}

func TestPaintRotatedScene(t *testing.T) {
	h := &fakeHooks{compose: func(ctx render.DrawContext) {
		ctx.FillRect(image.Rect(0, 0, 2, 2), red)
		ctx.FillRect(image.Rect(2, 0, 4, 2), blue)
	}}
	s, _ := New(testConfig(4, 2), h)
	s.Bounds().SetAngle(math.Pi)

	dst := render.NewCanvas(image.NewRGBA(image.Rect(0, 0, 4, 2)))
	s.Paint(dst)

	if got := dst.Image().RGBAAt(0, 0); got != blue {
		t.Errorf("rotated (0, 0) = %v, expected blue", got)
	}
	if got := dst.Image().RGBAAt(3, 1); got != red {
		t.Errorf("rotated (3, 1) = %v, expected red", got)
	}
}
