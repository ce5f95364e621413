// Package loop implements the frame-paced render loop: a three-state machine
// that runs one goroutine per active run, calls the tick callback once per
// frame and sleeps out the remaining frame budget.
package loop

import (
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-engine/internal/core"
)

// State is the lifecycle state of a Loop.
type State int32

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// MinYield is slept when the frame budget is spent or pacing is unlocked,
// so a busy tick never starves other goroutines.
const MinYield = time.Millisecond

// DefaultPollInterval is how often a paused loop wakes on its own.
const DefaultPollInterval = 20 * time.Millisecond

// TickFunc is called once per frame with the wall-clock duration of the
// previous frame (zero on the first frame of a run).
type TickFunc func(elapsed time.Duration)

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithObserver registers an observer that receives a Frame after every tick.
func WithObserver(o Observer) Option {
	return func(l *Loop) {
		l.observer = o
	}
}

// WithPollInterval sets how often a paused loop wakes to re-check its state.
func WithPollInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.poll = d
		}
	}
}

// Loop is the render loop.
//
// Play, Pause and Stop are serialized; the state itself is read atomically
// by the loop goroutine. Stop joins the goroutine, so it must not be called
// from inside the tick callback.
type Loop struct {
	tick     TickFunc
	interval time.Duration
	locked   bool
	poll     time.Duration
	logger   *log.Logger
	observer Observer

	mu     sync.Mutex // serializes transitions
	state  atomic.Int32
	stop   chan struct{}
	done   chan struct{}
	resume chan struct{}

	frames      atomic.Uint64
	faults      atomic.Uint64
	lastElapsed atomic.Int64
	lastSpent   atomic.Int64
	lastSlept   atomic.Int64
}

// New creates a stopped loop pacing tick at cfg.TargetFPS. When
// cfg.LockFrameRate is false the loop only yields between frames.
func New(cfg core.GameConfig, tick TickFunc, opts ...Option) *Loop {
	l := &Loop{
		tick:     tick,
		interval: cfg.FrameInterval(),
		locked:   cfg.LockFrameRate,
		poll:     DefaultPollInterval,
		logger:   log.New(io.Discard),
		resume:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Interval returns the target frame interval.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Play starts a stopped loop or resumes a paused one.
// It returns false if the loop is already running.
func (l *Loop) Play() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.State() {
	case Running:
		return false
	case Paused:
		l.state.Store(int32(Running))
		select {
		case l.resume <- struct{}{}:
		default:
		}
		l.logger.Debug("loop resumed")
		return true
	}

	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	l.state.Store(int32(Running))
	go l.run(l.stop, l.done)
	l.logger.Debug("loop started", "interval", l.interval, "locked", l.locked)
	return true
}

// Pause suspends ticking. It returns true only when the loop was running.
func (l *Loop) Pause() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.State() != Running {
		return false
	}
	l.state.Store(int32(Paused))
	l.logger.Debug("loop paused")
	return true
}

// Stop halts the loop and waits for its goroutine to exit.
// It returns false if the loop was already stopped.
func (l *Loop) Stop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.State() == Stopped {
		return false
	}
	l.state.Store(int32(Stopped))
	close(l.stop)
	<-l.done
	l.stop, l.done = nil, nil
	l.logger.Debug("loop stopped", "frames", l.frames.Load())
	return true
}

func (l *Loop) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var elapsed time.Duration
	start := time.Now()

	for {
		select {
		case <-stop:
			return
		default:
		}

		if l.State() == Paused {
			if !l.waitResume(stop) {
				return
			}
			start = time.Now()
			continue
		}

		fault := l.safeTick(elapsed)

		spent := time.Since(start)
		budget := SleepBudget(l.interval, spent, l.locked)
		slept, ok := sleep(budget, stop)

		now := time.Now()
		elapsed = now.Sub(start)
		start = now

		// The tick already ran, so an interrupted frame is still counted.
		l.record(Frame{
			Index:   l.frames.Add(1),
			At:      now,
			Elapsed: elapsed,
			Spent:   spent,
			Slept:   slept,
			Fault:   fault,
		})
		if !ok {
			l.logger.Debug("frame wait interrupted", "budget", budget, "slept", slept)
			return
		}
	}
}

// waitResume blocks while paused. It wakes on a resume signal or every poll
// interval, and returns false when the loop is stopped.
func (l *Loop) waitResume(stop <-chan struct{}) bool {
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return false
		case <-l.resume:
		case <-ticker.C:
		}
		if l.State() != Paused {
			return true
		}
	}
}

// safeTick runs one tick and recovers a panic so a faulty frame does not
// end the loop. It reports whether the tick panicked.
func (l *Loop) safeTick(elapsed time.Duration) (fault bool) {
	defer func() {
		if r := recover(); r != nil {
			fault = true
			l.faults.Add(1)
			l.logger.Error("tick panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	l.tick(elapsed)
	return false
}

func (l *Loop) record(f Frame) {
	l.lastElapsed.Store(int64(f.Elapsed))
	l.lastSpent.Store(int64(f.Spent))
	l.lastSlept.Store(int64(f.Slept))
	if l.observer != nil {
		l.observer.ObserveFrame(f)
	}
}

// SleepBudget returns how long to sleep after a tick that took spent out of
// a frame interval. An exhausted budget or unlocked pacing sleeps MinYield.
func SleepBudget(interval, spent time.Duration, locked bool) time.Duration {
	if !locked {
		return MinYield
	}
	if budget := interval - spent; budget > 0 {
		return budget
	}
	return MinYield
}

// sleep waits for d or until stop is closed. It returns the time actually
// slept and false when stopped.
func sleep(d time.Duration, stop <-chan struct{}) (time.Duration, bool) {
	begin := time.Now()
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return time.Since(begin), true
	case <-stop:
		return time.Since(begin), false
	}
}
