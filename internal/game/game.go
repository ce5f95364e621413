// Package game is the composition root: it binds a configuration, the active
// scene and the render loop, and presents frames on a double-buffered
// surface that a host displays.
package game

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/loop"
	"github.com/vovakirdan/tui-engine/internal/render"
	"github.com/vovakirdan/tui-engine/internal/scene"
)

// Options are optional collaborators of a Game.
type Options struct {
	Logger   *log.Logger
	Observer loop.Observer
}

// Game owns a scene, a render loop and the visible surface.
//
// The loop goroutine ticks (update then paint) while hosts may request
// redraws from their own goroutines; both run under one mutex so the scene
// never sees concurrent update and compose.
type Game struct {
	cfg    core.GameConfig
	bg     color.RGBA
	logger *log.Logger

	mu    sync.Mutex // serializes tick, redraw and scene swaps
	scene *scene.Scene

	loop    *loop.Loop
	surface *render.Surface
	frames  chan struct{}
}

// New validates cfg and builds a stopped game around hooks.
func New(cfg core.GameConfig, hooks scene.Hooks, opts Options) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	bg, err := core.ParseColor(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	sc, err := scene.New(cfg, hooks)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := &Game{
		cfg:     cfg,
		bg:      bg,
		logger:  logger,
		scene:   sc,
		surface: render.NewSurface(cfg.Width, cfg.Height, render.Hints{AntiAlias: cfg.AntiAlias}),
		frames:  make(chan struct{}, 1),
	}

	loopOpts := []loop.Option{loop.WithLogger(logger)}
	if opts.Observer != nil {
		loopOpts = append(loopOpts, loop.WithObserver(opts.Observer))
	}
	g.loop = loop.New(cfg, g.tick, loopOpts...)
	return g, nil
}

// Config returns the configuration the game was built with.
func (g *Game) Config() core.GameConfig {
	return g.cfg
}

// Scene returns the active scene.
func (g *Game) Scene() *scene.Scene {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scene
}

// SetScene replaces the active scene with one built from hooks.
func (g *Game) SetScene(hooks scene.Hooks) error {
	sc, err := scene.New(g.cfg, hooks)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	g.mu.Lock()
	g.scene = sc
	g.mu.Unlock()
	g.Redraw()
	return nil
}

// Surface returns the visible surface.
func (g *Game) Surface() *render.Surface {
	return g.surface
}

// Frames signals after every presented frame. Signals coalesce: a slow
// reader sees at most one pending frame.
func (g *Game) Frames() <-chan struct{} {
	return g.frames
}

// State returns the loop state.
func (g *Game) State() loop.State {
	return g.loop.State()
}

// Stats returns the loop counters.
func (g *Game) Stats() loop.Stats {
	return g.loop.Stats()
}

// Play starts or resumes the loop.
func (g *Game) Play() bool {
	return g.loop.Play()
}

// Pause suspends the loop and repaints so the surface shows the background.
func (g *Game) Pause() bool {
	if !g.loop.Pause() {
		return false
	}
	g.Redraw()
	return true
}

// Stop halts the loop and waits for it to exit. It must not be called from
// a scene hook.
func (g *Game) Stop() bool {
	if !g.loop.Stop() {
		return false
	}
	g.Redraw()
	return true
}

// Toggle pauses a running game and plays a paused or stopped one.
func (g *Game) Toggle() {
	if g.State() == loop.Running {
		g.Pause()
		return
	}
	g.Play()
}

// Update advances the active scene.
func (g *Game) Update(elapsed time.Duration) {
	g.scene.Update(elapsed)
}

// Paint clears ctx to the background and, only while the loop is running,
// composes the scene onto it. Callers hold the game lock.
func (g *Game) Paint(ctx render.DrawContext) {
	ctx.ResetTransform()
	ctx.FillRect(image.Rect(0, 0, g.cfg.Width, g.cfg.Height), g.bg)
	if g.loop.State() != loop.Running {
		return
	}
	g.scene.Paint(ctx)
}

// Redraw repaints the surface outside the loop, as a host does on resize or
// exposure.
func (g *Game) Redraw() {
	defer g.notify()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.surface.Paint(func(c *render.Canvas) { g.Paint(c) })
}

// tick is the loop callback. A panic in a hook unwinds through the deferred
// unlock so the next frame can proceed.
func (g *Game) tick(elapsed time.Duration) {
	defer g.notify()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Update(elapsed)
	g.surface.Paint(func(c *render.Canvas) { g.Paint(c) })
}

func (g *Game) notify() {
	select {
	case g.frames <- struct{}{}:
	default:
	}
}
