// Package orbit is a demo scene of satellites circling a planet. The arrow
// keys steer a scan zone; satellites are coloured by how their rects relate
// to it.
package orbit

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/registry"
	"github.com/vovakirdan/tui-engine/internal/render"
	"github.com/vovakirdan/tui-engine/internal/scene"
)

// ID is the registry ID of the scene.
const ID = "orbit"

const (
	satelliteSize = 4
	zoneSpeed     = 40.0 // pixels per second
)

func init() {
	registry.Register(ID, "Orbit", New)
}

// Relation classifies a satellite against the scan zone.
type Relation int

const (
	Outside Relation = iota
	Touching
	Inside
)

var palette = map[Relation]color.RGBA{
	Outside:  core.MustColor("white"),
	Touching: core.MustColor("orange"),
	Inside:   core.MustColor("yellow"),
}

var (
	planetColor = core.MustColor("steelblue")
	zoneColor   = color.RGBA{0x40, 0x40, 0x40, 0xff}
	shadeColor  = core.MustColor("lightslategray")
)

// Satellite is one orbiting body.
type Satellite struct {
	Radius   int
	Period   time.Duration
	Phase    float64 // radians at t=0
	Position core.Point2D
	Rect     core.Rect
}

// Orbit implements scene.Hooks.
type Orbit struct {
	input  core.InputSource
	frame  core.Rect
	planet core.Rect
	zone   core.Rect

	// Fractional zone position; the rect holds the truncated one.
	zoneX, zoneY float64

	clock      time.Duration
	satellites []*Satellite
}

// New builds the scene for env.
func New(env registry.Env) (scene.Hooks, error) {
	frame, err := core.NewRect(0, 0, env.Config.Width, env.Config.Height)
	if err != nil {
		return nil, fmt.Errorf("orbit: %w", err)
	}

	span := min(frame.Width(), frame.Height())
	planetSize := max(span/6, 2)
	planet, _ := core.NewRect(frame.RelativeY(0.5)-planetSize/2, frame.RelativeX(0.5)-planetSize/2, planetSize, planetSize)

	zoneSize := max(span/3, satelliteSize+2)
	zone, _ := core.NewRect(frame.RelativeY(0.1), frame.RelativeX(0.1), zoneSize, zoneSize)

	o := &Orbit{
		input:  env.Input,
		frame:  frame,
		planet: planet,
		zone:   zone,
		zoneX:  float64(zone.Left()),
		zoneY:  float64(zone.Top()),
	}

	outer := span/2 - satelliteSize
	radii := []struct {
		frac   float64
		period time.Duration
	}{
		{0.45, 3 * time.Second},
		{0.7, 5 * time.Second},
		{0.95, 8 * time.Second},
	}
	for i, r := range radii {
		o.satellites = append(o.satellites, &Satellite{
			Radius: max(int(float64(outer)*r.frac), planetSize),
			Period: r.period,
			Phase:  float64(i) * 2 * math.Pi / float64(len(radii)),
		})
	}
	o.position()
	return o, nil
}

// Satellites returns the orbiting bodies.
func (o *Orbit) Satellites() []*Satellite { return o.satellites }

// Zone returns the scan zone.
func (o *Orbit) Zone() core.Rect { return o.zone }

// Planet returns the planet rect.
func (o *Orbit) Planet() core.Rect { return o.planet }

// Update implements scene.Hooks.
func (o *Orbit) Update(elapsed time.Duration) {
	o.clock += elapsed
	o.steer(elapsed.Seconds())
	o.position()
}

func (o *Orbit) steer(dt float64) {
	keys := o.input.ActiveKeys()
	step := zoneSpeed * dt
	if keys.Has(core.KeyLeft) {
		o.zoneX -= step
	}
	if keys.Has(core.KeyRight) {
		o.zoneX += step
	}
	if keys.Has(core.KeyUp) {
		o.zoneY -= step
	}
	if keys.Has(core.KeyDown) {
		o.zoneY += step
	}

	o.zoneX = core.ClampF(o.zoneX, 0, float64(o.frame.Width()-o.zone.Width()))
	o.zoneY = core.ClampF(o.zoneY, 0, float64(o.frame.Height()-o.zone.Height()))
	o.zone.SetPosition(int(o.zoneY), int(o.zoneX))
}

// position places every satellite on its orbit at the current clock. Each
// position is rotated from the same start point so truncation never
// accumulates across frames.
func (o *Orbit) position() {
	cx, cy := o.planet.CenterX(), o.planet.CenterY()
	for _, s := range o.satellites {
		angle := s.Phase
		if s.Period > 0 {
			angle += 2 * math.Pi * float64(o.clock%s.Period) / float64(s.Period)
		}
		s.Position = core.Pt(cx+s.Radius, cy)
		s.Position.Rotate(cx, cy, angle)
		_ = s.Rect.Set(s.Position.Y-satelliteSize/2, s.Position.X-satelliteSize/2, satelliteSize, satelliteSize)
	}
}

// Classify reports how rect r relates to zone.
func Classify(zone, r core.Rect) Relation {
	switch {
	case r.IsInRect(zone):
		return Inside
	case zone.OverlapsRect(r) || r.OverlapsRect(zone):
		return Touching
	default:
		return Outside
	}
}

// Compose implements scene.Hooks.
func (o *Orbit) Compose(ctx render.DrawContext) {
	ctx.FillRect(toImage(o.zone), zoneColor)
	ctx.FillRect(toImage(o.planet), planetColor)

	for _, s := range o.satellites {
		col := palette[Classify(o.zone, s.Rect)]
		// Satellites in the planet's shadow, directly below it, are drawn shaded.
		if s.Rect.IsUnder(o.planet) && col == palette[Outside] {
			col = shadeColor
		}
		ctx.FillRect(toImage(s.Rect), col)
	}
}

func toImage(r core.Rect) image.Rectangle {
	return image.Rect(r.Left(), r.Top(), r.Right(), r.Bottom())
}

var _ scene.Hooks = (*Orbit)(nil)
