package loop

import (
	"sync"
	"time"
)

// Frame describes one completed tick.
type Frame struct {
	Index   uint64        // 1-based frame number within the loop's lifetime
	At      time.Time     // When the frame ended
	Elapsed time.Duration // Wall-clock length of the frame
	Spent   time.Duration // Time spent inside the tick callback
	Slept   time.Duration // Time slept after the tick; short when Stop interrupts it
	Fault   bool          // The tick panicked and was recovered
}

// Observer receives every completed frame on the loop goroutine.
// Implementations must be quick and must not call back into the Loop.
type Observer interface {
	ObserveFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

// ObserveFrame implements Observer.
func (fn ObserverFunc) ObserveFrame(f Frame) { fn(f) }

// Stats is a point-in-time view of the loop counters.
type Stats struct {
	State       State
	Frames      uint64
	Faults      uint64
	LastElapsed time.Duration
	LastSpent   time.Duration
	LastSlept   time.Duration
}

// FPS returns the instantaneous frame rate from the last frame length.
func (s Stats) FPS() float64 {
	if s.LastElapsed <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.LastElapsed)
}

// Stats returns the current counters.
func (l *Loop) Stats() Stats {
	return Stats{
		State:       l.State(),
		Frames:      l.frames.Load(),
		Faults:      l.faults.Load(),
		LastElapsed: time.Duration(l.lastElapsed.Load()),
		LastSpent:   time.Duration(l.lastSpent.Load()),
		LastSlept:   time.Duration(l.lastSlept.Load()),
	}
}

// Summary aggregates the frames of one run.
type Summary struct {
	Frames    int
	Faults    int
	Total     time.Duration // Sum of frame lengths
	MaxFrame  time.Duration
	StartedAt time.Time
	EndedAt   time.Time
}

// AvgFrame returns the mean frame length.
func (s Summary) AvgFrame() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Frames)
}

// AvgFPS returns the mean frame rate.
func (s Summary) AvgFPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Frames) * float64(time.Second) / float64(s.Total)
}

// Recorder is an Observer that aggregates frames into a Summary.
// It is safe to read while the loop is running.
type Recorder struct {
	mu  sync.Mutex
	sum Summary
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ObserveFrame implements Observer.
func (r *Recorder) ObserveFrame(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sum.Frames == 0 {
		r.sum.StartedAt = f.At.Add(-f.Elapsed)
	}
	r.sum.Frames++
	if f.Fault {
		r.sum.Faults++
	}
	r.sum.Total += f.Elapsed
	r.sum.MaxFrame = max(r.sum.MaxFrame, f.Elapsed)
	r.sum.EndedAt = f.At
}

// Summary returns the aggregate so far.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sum
}

// Reset clears the aggregate.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sum = Summary{}
}

var _ Observer = (*Recorder)(nil)
