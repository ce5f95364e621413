package spinner

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/registry"
	"github.com/vovakirdan/tui-engine/internal/render"
	"github.com/vovakirdan/tui-engine/internal/scene"
)

func newSpinner(t *testing.T, keys core.KeySet) (*Spinner, *scene.Scene) {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Width, cfg.Height = 64, 32

	hooks, err := registry.Create(ID, registry.Env{Config: cfg, Input: keys})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	sc, err := scene.New(cfg, hooks)
	if err != nil {
		t.Fatal(err)
	}
	return hooks.(*Spinner), sc
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(ID) {
		t.Errorf("%q is not registered", ID)
	}
}

func TestInitialPlacement(t *testing.T) {
	s, _ := newSpinner(t, core.NewKeySet())
	b := s.Sprite().Bounds()

	// 16px tile pulsed to 0.8 about the frame centre.
	if b.Width() != 12 || b.Height() != 12 {
		t.Errorf("sprite bounds = %dx%d, expected 12x12", b.Width(), b.Height())
	}
	if b.CenterX() != 32 || b.CenterY() != 16 {
		t.Errorf("sprite centre = (%d, %d), expected (32, 16)", b.CenterX(), b.CenterY())
	}
	if s.Sprite().Width() != 16 {
		t.Errorf("tile width = %d, expected 16", s.Sprite().Width())
	}
}

func TestUpdateSpins(t *testing.T) {
	s, _ := newSpinner(t, core.NewKeySet())
	s.Update(500 * time.Millisecond)

	want := defaultSpeed * 0.5
	if math.Abs(s.Angle()-want) > 1e-9 {
		t.Errorf("angle = %v, expected %v", s.Angle(), want)
	}
	if s.Sprite().Bounds().Angle() != s.Angle() {
		t.Error("sprite bounds should carry the spin angle")
	}
	if s.Sprite().Bounds().CenterX() != 32 {
		t.Errorf("rotation moved the centre to x=%d", s.Sprite().Bounds().CenterX())
	}
}

func TestArrowKeys(t *testing.T) {
	keys := core.NewKeySet(core.KeyRight, core.KeyUp)
	s, _ := newSpinner(t, keys)

	s.Update(100 * time.Millisecond)
	if s.Speed() <= defaultSpeed {
		t.Errorf("speed = %v, expected faster than %v", s.Speed(), defaultSpeed)
	}
	if s.base != 17 {
		t.Errorf("base = %d, expected 17", s.base)
	}

	delete(keys, core.KeyRight)
	delete(keys, core.KeyUp)
	keys[core.KeyLeft] = struct{}{}
	for i := 0; i < 200; i++ {
		s.Update(100 * time.Millisecond)
	}
	if s.Speed() != -maxSpeed {
		t.Errorf("speed = %v, expected clamped to %v", s.Speed(), -maxSpeed)
	}
}

func TestPulseStaysInRange(t *testing.T) {
	s, _ := newSpinner(t, core.NewKeySet())

	seen := map[bool]bool{}
	for i := 0; i < 200; i++ {
		s.Update(50 * time.Millisecond)
		if s.Scale() < pulseMin-1e-6 || s.Scale() > pulseMax+1e-6 {
			t.Fatalf("scale %v out of range", s.Scale())
		}
		seen[s.growing] = true
	}
	if !seen[true] || !seen[false] {
		t.Error("pulse should alternate between growing and shrinking")
	}
}

func TestTiltRotatesScene(t *testing.T) {
	keys := core.NewKeySet(KeyTilt)
	s, sc := newSpinner(t, keys)

	s.Update(time.Millisecond)
	if sc.Bounds().Angle() != TiltAngle {
		t.Errorf("scene angle = %v, expected %v", sc.Bounds().Angle(), TiltAngle)
	}

	delete(keys, KeyTilt)
	s.Update(time.Millisecond)
	if sc.Bounds().HasRotation() {
		t.Error("releasing t should level the scene")
	}
}

func TestCompose(t *testing.T) {
	s, _ := newSpinner(t, core.NewKeySet())
	c := render.NewCanvas(image.NewRGBA(image.Rect(0, 0, 64, 32)))
	s.Compose(c)

	if got := c.Image().RGBAAt(0, 0); got != frameColor {
		t.Errorf("border = %v, expected %v", got, frameColor)
	}
	if got := c.Image().RGBAAt(32, 16); got.A == 0 {
		t.Error("sprite was not drawn at the centre")
	}
	if got := c.Image().RGBAAt(5, 16); got.A != 0 {
		t.Errorf("pixel outside the sprite = %v, expected transparent", got)
	}
}

func TestConfiguredSprite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprite.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 7, 5))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := core.DefaultConfig()
	cfg.Width, cfg.Height = 40, 20
	hooks, err := New(registry.Env{Config: cfg, Input: core.NewKeySet(), Sprite: path})
	if err != nil {
		t.Fatalf("New with sprite failed: %v", err)
	}
	if w := hooks.(*Spinner).Sprite().Width(); w != 7 {
		t.Errorf("sprite width = %d, expected 7", w)
	}

	_, err = New(registry.Env{Config: cfg, Input: core.NewKeySet(), Sprite: filepath.Join(t.TempDir(), "nope.png")})
	if err == nil {
		t.Error("missing sprite should fail")
	}
}
