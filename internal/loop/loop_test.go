package loop

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/tui-engine/internal/core"
)

func testConfig(fps int) core.GameConfig {
	cfg := core.DefaultConfig()
	cfg.TargetFPS = fps
	return cfg
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStateTransitions(t *testing.T) {
	l := New(testConfig(200), func(time.Duration) {})

	if l.State() != Stopped {
		t.Fatalf("new loop state = %v, expected stopped", l.State())
	}
	if l.Stop() {
		t.Error("Stop on a fresh loop should return false")
	}
	if l.Pause() {
		t.Error("Pause before Play should return false")
	}

	if !l.Play() {
		t.Error("first Play should return true")
	}
	if l.Play() {
		t.Error("second Play should return false")
	}
	if l.State() != Running {
		t.Errorf("state = %v, expected running", l.State())
	}

	if !l.Pause() {
		t.Error("Pause while running should return true")
	}
	if l.Pause() {
		t.Error("Pause while paused should return false")
	}
	if !l.Play() {
		t.Error("Play while paused should return true")
	}

	if !l.Stop() {
		t.Error("Stop while running should return true")
	}
	if l.Stop() {
		t.Error("second Stop should return false")
	}
	if l.State() != Stopped {
		t.Errorf("state = %v, expected stopped", l.State())
	}
}

func TestPlayStopPlay(t *testing.T) {
	var ticks atomic.Int64
	l := New(testConfig(200), func(time.Duration) { ticks.Add(1) })

	if !l.Play() {
		t.Fatal("Play failed")
	}
	waitFor(t, "first run to tick", func() bool { return ticks.Load() > 0 })
	l.Stop()

	before := ticks.Load()
	if !l.Play() {
		t.Fatal("Play after Stop should return true")
	}
	waitFor(t, "second run to tick", func() bool { return ticks.Load() > before })
	l.Stop()
}

func TestStopFromPaused(t *testing.T) {
	l := New(testConfig(100), func(time.Duration) {}, WithPollInterval(time.Hour))
	l.Play()
	l.Pause()

	done := make(chan bool)
	go func() { done <- l.Stop() }()

	select {
	case ok := <-done:
		if !ok {
			t.Error("Stop from paused should return true")
		}
	case <-time.After(time.Second):
		t.Fatal("Stop did not interrupt the paused wait")
	}
}

func TestPauseHaltsTicks(t *testing.T) {
	var ticks atomic.Int64
	l := New(testConfig(500), func(time.Duration) { ticks.Add(1) })
	l.Play()
	defer l.Stop()

	waitFor(t, "ticks", func() bool { return ticks.Load() > 2 })
	l.Pause()

	// Allow an in-flight frame to finish.
	time.Sleep(20 * time.Millisecond)
	paused := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	if got := ticks.Load(); got != paused {
		t.Errorf("ticks advanced from %d to %d while paused", paused, got)
	}

	l.Play()
	waitFor(t, "ticks after resume", func() bool { return ticks.Load() > paused })
}

func TestTickPanicIsRecovered(t *testing.T) {
	var ticks atomic.Int64
	l := New(testConfig(500), func(time.Duration) {
		if ticks.Add(1) == 1 {
			panic("boom")
		}
	})
	l.Play()
	defer l.Stop()

	waitFor(t, "ticks after panic", func() bool { return ticks.Load() > 3 })

	st := l.Stats()
	if st.Faults != 1 {
		t.Errorf("Faults = %d, expected 1", st.Faults)
	}
	if l.State() != Running {
		t.Errorf("state = %v after panic, expected running", l.State())
	}
}

func TestElapsedIsPassedToNextTick(t *testing.T) {
	got := make(chan time.Duration, 8)
	l := New(testConfig(50), func(elapsed time.Duration) {
		select {
		case got <- elapsed:
		default:
		}
	})
	l.Play()
	defer l.Stop()

	if first := <-got; first != 0 {
		t.Errorf("first elapsed = %v, expected 0", first)
	}
	second := <-got
	// 50 fps paces frames at 20ms; allow generous scheduler slack.
	if second < 15*time.Millisecond || second > 200*time.Millisecond {
		t.Errorf("second elapsed = %v, expected about 20ms", second)
	}
}

func TestUnlockedDoesNotPace(t *testing.T) {
	cfg := testConfig(1)
	cfg.LockFrameRate = false

	var ticks atomic.Int64
	l := New(cfg, func(time.Duration) { ticks.Add(1) })
	l.Play()
	defer l.Stop()

	// At 1 fps a locked loop would tick once; unlocked it only yields.
	waitFor(t, "unpaced ticks", func() bool { return ticks.Load() >= 5 })
}

func TestSleepBudget(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		spent    time.Duration
		locked   bool
		want     time.Duration
	}{
		{"50fps with 5ms tick", 20 * time.Millisecond, 5 * time.Millisecond, true, 15 * time.Millisecond},
		{"budget exhausted", 20 * time.Millisecond, 20 * time.Millisecond, true, MinYield},
		{"overrun", 16 * time.Millisecond, 40 * time.Millisecond, true, MinYield},
		{"unlocked", 20 * time.Millisecond, 5 * time.Millisecond, false, MinYield},
		{"idle tick", 10 * time.Millisecond, 0, true, 10 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SleepBudget(tt.interval, tt.spent, tt.locked); got != tt.want {
				t.Errorf("SleepBudget(%v, %v, %v) = %v, expected %v",
					tt.interval, tt.spent, tt.locked, got, tt.want)
			}
		})
	}
}

func TestObserverReceivesFrames(t *testing.T) {
	rec := NewRecorder()
	l := New(testConfig(200), func(time.Duration) {}, WithObserver(rec))
	l.Play()
	waitFor(t, "recorded frames", func() bool { return rec.Summary().Frames >= 3 })
	l.Stop()

	sum := rec.Summary()
	if uint64(sum.Frames) != l.Stats().Frames {
		t.Errorf("recorder saw %d frames, loop counted %d", sum.Frames, l.Stats().Frames)
	}
	if sum.AvgFrame() <= 0 {
		t.Errorf("AvgFrame = %v, expected positive", sum.AvgFrame())
	}
	if !sum.EndedAt.After(sum.StartedAt) {
		t.Error("EndedAt should be after StartedAt")
	}
}

func TestStopCountsInterruptedFrame(t *testing.T) {
	var ticks atomic.Int32
	rec := NewRecorder()
	l := New(testConfig(1), func(time.Duration) { ticks.Add(1) }, WithObserver(rec))
	l.Play()
	waitFor(t, "first tick", func() bool { return ticks.Load() == 1 })

	// Stop lands inside the one second frame wait.
	l.Stop()

	st := l.Stats()
	if st.Frames != 1 {
		t.Errorf("Frames = %d, expected 1", st.Frames)
	}
	sum := rec.Summary()
	if sum.Frames != 1 {
		t.Fatalf("recorder saw %d frames, expected 1", sum.Frames)
	}
	if st.LastSlept >= time.Second {
		t.Errorf("LastSlept = %v, expected the interrupted wait to be shorter than the interval", st.LastSlept)
	}
}

func TestLoopSleepsRemainingBudget(t *testing.T) {
	frames := make(chan Frame, 16)
	observer := ObserverFunc(func(f Frame) {
		select {
		case frames <- f:
		default:
		}
	})
	l := New(testConfig(50), func(time.Duration) { time.Sleep(5 * time.Millisecond) }, WithObserver(observer))
	l.Play()

	var got []Frame
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case f := <-frames:
			got = append(got, f)
		case <-timeout:
			l.Stop()
			t.Fatalf("only %d frames after 2s", len(got))
		}
	}
	l.Stop()

	for _, f := range got {
		if f.Spent < 5*time.Millisecond {
			t.Errorf("frame %d: Spent = %v, expected at least 5ms", f.Index, f.Spent)
		}
		// 20ms interval minus a 5ms tick leaves about 15ms; allow scheduler jitter.
		if f.Slept < 10*time.Millisecond || f.Slept > 30*time.Millisecond {
			t.Errorf("frame %d: Slept = %v, expected about 15ms", f.Index, f.Slept)
		}
		if f.Elapsed < 18*time.Millisecond {
			t.Errorf("frame %d: Elapsed = %v, expected about 20ms", f.Index, f.Elapsed)
		}
	}
}
