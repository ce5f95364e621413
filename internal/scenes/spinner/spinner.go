// Package spinner is a demo scene: a sprite spinning about its centre with
// an eased scale pulse. Arrows change spin speed and sprite size; holding t
// tilts the whole scene.
package spinner

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/registry"
	"github.com/vovakirdan/tui-engine/internal/render"
	"github.com/vovakirdan/tui-engine/internal/scene"
)

const (
	// ID is the registry ID of the scene.
	ID = "spinner"

	defaultSpeed = math.Pi / 2 // radians per second
	speedStep    = math.Pi / 8
	maxSpeed     = 4 * math.Pi

	pulseMin    = 0.8
	pulseMax    = 1.2
	pulseLength = 0.9 // seconds per half cycle

	// TiltAngle is the scene rotation while t is held.
	TiltAngle = 0.2

	// KeyTilt tilts the scene while held.
	KeyTilt core.Key = "t"
)

func init() {
	registry.Register(ID, "Spinner", New)
}

var (
	frameColor  = core.MustColor("dimgray")
	cornerColor = core.MustColor("gold")
)

// Spinner implements scene.Hooks.
type Spinner struct {
	input  core.InputSource
	frame  core.Rect
	sprite *render.Bitmap
	base   int // sprite edge before the pulse is applied

	angle float64
	speed float64

	pulse   *gween.Tween
	growing bool
	scale   float64

	scene *scene.Scene
}

// New builds the scene for env. A configured sprite is decoded from disk;
// otherwise a four-colour tile is generated.
func New(env registry.Env) (scene.Hooks, error) {
	frame, err := core.NewRect(0, 0, env.Config.Width, env.Config.Height)
	if err != nil {
		return nil, fmt.Errorf("spinner: %w", err)
	}

	base := max(min(frame.Width(), frame.Height())/2, 2)
	var sprite *render.Bitmap
	if env.Sprite != "" {
		sprite, err = render.LoadBitmap(env.Sprite)
		if err != nil {
			return nil, fmt.Errorf("spinner: %w", err)
		}
	} else {
		sprite, err = tile(base)
		if err != nil {
			return nil, fmt.Errorf("spinner: %w", err)
		}
	}

	s := &Spinner{
		input:   env.Input,
		frame:   frame,
		sprite:  sprite,
		base:    base,
		speed:   defaultSpeed,
		scale:   pulseMin,
		growing: true,
		pulse:   gween.New(pulseMin, pulseMax, pulseLength, ease.InOutSine),
	}
	s.place()
	return s, nil
}

// tile draws a square split into four coloured quadrants.
func tile(size int) (*render.Bitmap, error) {
	b, err := render.NewBitmap(size, size)
	if err != nil {
		return nil, err
	}
	half := size / 2
	c := b.Canvas()
	c.FillRect(image.Rect(0, 0, half, half), core.MustColor("tomato"))
	c.FillRect(image.Rect(half, 0, size, half), core.MustColor("gold"))
	c.FillRect(image.Rect(0, half, half, size), core.MustColor("dodgerblue"))
	c.FillRect(image.Rect(half, half, size, size), core.MustColor("limegreen"))
	return b, nil
}

// Attach implements scene.Attacher.
func (s *Spinner) Attach(sc *scene.Scene) {
	s.scene = sc
}

// Angle returns the sprite rotation in radians.
func (s *Spinner) Angle() float64 { return s.angle }

// Speed returns the spin speed in radians per second.
func (s *Spinner) Speed() float64 { return s.speed }

// Scale returns the current pulse factor.
func (s *Spinner) Scale() float64 { return s.scale }

// Sprite returns the spinning bitmap.
func (s *Spinner) Sprite() *render.Bitmap { return s.sprite }

// Update implements scene.Hooks.
func (s *Spinner) Update(elapsed time.Duration) {
	dt := elapsed.Seconds()
	keys := s.input.ActiveKeys()

	if keys.Has(core.KeyRight) {
		s.speed = core.ClampF(s.speed+speedStep*dt*4, -maxSpeed, maxSpeed)
	}
	if keys.Has(core.KeyLeft) {
		s.speed = core.ClampF(s.speed-speedStep*dt*4, -maxSpeed, maxSpeed)
	}
	if keys.Has(core.KeyUp) {
		s.base = core.Clamp(s.base+1, 2, max(s.frame.Width(), s.frame.Height()))
	}
	if keys.Has(core.KeyDown) {
		s.base = core.Clamp(s.base-1, 2, max(s.frame.Width(), s.frame.Height()))
	}

	s.angle = math.Mod(s.angle+s.speed*dt, 2*math.Pi)
	s.advancePulse(float32(dt))
	s.place()

	if s.scene != nil {
		if keys.Has(KeyTilt) {
			s.scene.Bounds().SetAngle(TiltAngle)
		} else {
			s.scene.Bounds().SetAngle(0)
		}
	}
}

// advancePulse runs the tween and flips direction at either end.
func (s *Spinner) advancePulse(dt float32) {
	v, done := s.pulse.Update(dt)
	s.scale = float64(v)
	if !done {
		return
	}
	s.growing = !s.growing
	if s.growing {
		s.pulse = gween.New(pulseMin, pulseMax, pulseLength, ease.InOutSine)
	} else {
		s.pulse = gween.New(pulseMax, pulseMin, pulseLength, ease.InOutSine)
	}
}

// place centres the sprite bounds at base size, then scales and rotates
// them about their centre.
func (s *Spinner) place() {
	b := s.sprite.Bounds()
	_ = b.SetSize(s.base, s.base) // base is clamped to at least 2
	b.SetPosition(s.frame.RelativeY(0.5)-s.base/2, s.frame.RelativeX(0.5)-s.base/2)
	b.Scale(s.scale, s.scale)
	b.SetAngle(s.angle)
}

// Compose implements scene.Hooks.
func (s *Spinner) Compose(ctx render.DrawContext) {
	w, h := s.frame.Width(), s.frame.Height()
	ctx.FillRect(image.Rect(0, 0, w, 1), frameColor)
	ctx.FillRect(image.Rect(0, h-1, w, h), frameColor)
	ctx.FillRect(image.Rect(0, 0, 1, h), frameColor)
	ctx.FillRect(image.Rect(w-1, 0, w, h), frameColor)

	s.sprite.Draw(ctx)

	for _, p := range s.sprite.Bounds().Corners() {
		if s.frame.ContainsPoint(p.X, p.Y) {
			ctx.FillRect(image.Rect(p.X, p.Y, p.X+1, p.Y+1), cornerColor)
		}
	}
}

var (
	_ scene.Hooks    = (*Spinner)(nil)
	_ scene.Attacher = (*Spinner)(nil)
)
