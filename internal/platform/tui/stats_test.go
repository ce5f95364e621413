package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-engine/internal/storage"
)

func seedSessions(t *testing.T, store *storage.Store, sceneID string, n int) {
	t.Helper()
	start := time.Now().Add(-time.Hour)
	for i := range n {
		_, err := store.SaveSession(storage.Session{
			SceneID:   sceneID,
			User:      "tester",
			Width:     32,
			Height:    24,
			TargetFPS: 60,
			Frames:    600,
			AvgFrame:  16 * time.Millisecond,
			MaxFrame:  20 * time.Millisecond,
			Duration:  10 * time.Second,
			StartedAt: start.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
	}
}

func TestStatsModelLoadsSessions(t *testing.T) {
	opts := testOptions(t)
	seedSessions(t, opts.Store, "orbit", 3)

	m := NewStatsModel(opts.Store, "orbit", 100, 30)
	if len(m.Sessions()) != 3 {
		t.Fatalf("got %d sessions, want 3", len(m.Sessions()))
	}
	if m.summary == nil || m.summary.Sessions != 3 {
		t.Fatalf("unexpected summary %+v", m.summary)
	}

	view := m.View()
	for _, want := range []string{"Orbit", "3 sessions", "62.5"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStatsModelEmpty(t *testing.T) {
	m := NewStatsModel(nil, "", 60, 20)
	if m.wide() {
		t.Error("narrow terminal should hide the sidebar")
	}
	view := m.View()
	if !strings.Contains(view, "No sessions recorded yet") || !strings.Contains(view, "no sessions") {
		t.Error("empty stats should say so")
	}
}

func TestStatsModelCyclesScenes(t *testing.T) {
	opts := testOptions(t)
	m := NewStatsModel(opts.Store, "", 100, 30)
	if len(m.scenes) < 1 {
		t.Fatal("no scenes registered")
	}
	first := m.current

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(StatsModel)
	if want := (first + 1) % len(m.scenes); m.current != want {
		t.Errorf("cursor after tab = %d, want %d", m.current, want)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(StatsModel)
	if m.current != first {
		t.Errorf("cursor after shift+tab = %d, want %d", m.current, first)
	}
}

func TestStatsModelBackAndQuit(t *testing.T) {
	m := NewStatsModel(nil, "", 100, 30)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(StatsModel).IsGoingBack() {
		t.Error("esc should go back")
	}
	next, _ = m.Update(runeKey("q"))
	if !next.(StatsModel).IsQuitting() {
		t.Error("q should quit")
	}
}

func TestStatsModelResize(t *testing.T) {
	m := NewStatsModel(nil, "", 100, 30)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 70, Height: 20})
	m = next.(StatsModel)
	if m.wide() {
		t.Error("sidebar should hide below the minimum width")
	}
}

func TestStatsModelSort(t *testing.T) {
	opts := testOptions(t)
	now := time.Now()
	for i, avg := range []time.Duration{20 * time.Millisecond, 10 * time.Millisecond, 40 * time.Millisecond} {
		_, err := opts.Store.SaveSession(storage.Session{
			SceneID:   "orbit",
			Frames:    10,
			AvgFrame:  avg,
			StartedAt: now.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
	}

	m := NewStatsModel(opts.Store, "orbit", 100, 30)
	if got := m.Sessions()[0].AvgFrame; got != 40*time.Millisecond {
		t.Errorf("newest first: got avg frame %v", got)
	}

	next, _ := m.Update(runeKey("s"))
	m = next.(StatsModel)
	if got := m.Sessions()[0].AvgFrame; got != 10*time.Millisecond {
		t.Errorf("fastest first: got avg frame %v", got)
	}
	if !strings.Contains(m.View(), "sort: avg fps") {
		t.Error("view should show the sort order")
	}
}
