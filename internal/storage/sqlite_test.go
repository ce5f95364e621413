package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-engine/internal/loop"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	sessions := []Session{
		{SceneID: "spinner", Width: 80, Height: 48, TargetFPS: 60, Frames: 600, AvgFrame: 16667 * time.Microsecond, MaxFrame: 40 * time.Millisecond, Duration: 10 * time.Second, StartedAt: base},
		{SceneID: "spinner", User: "alice", Width: 80, Height: 48, TargetFPS: 30, Frames: 90, Faults: 2, AvgFrame: 33333 * time.Microsecond, Duration: 3 * time.Second, StartedAt: base.Add(time.Hour)},
		{SceneID: "orbit", Width: 40, Height: 20, TargetFPS: 60, Frames: 60, AvgFrame: 16667 * time.Microsecond, Duration: time.Second, StartedAt: base.Add(2 * time.Hour)},
	}
	for _, s := range sessions {
		if _, err := store.SaveSession(s); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	spinner, err := store.RecentSessions("spinner", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(spinner) != 2 {
		t.Fatalf("Expected 2 spinner sessions, got %d", len(spinner))
	}

	// Newest first
	if spinner[0].User != "alice" {
		t.Errorf("Expected newest session by alice, got %q", spinner[0].User)
	}
	if spinner[1].User != "local" {
		t.Errorf("Empty user should default to local, got %q", spinner[1].User)
	}
	if spinner[0].Faults != 2 || spinner[0].Frames != 90 {
		t.Errorf("Session counters not preserved: %+v", spinner[0])
	}
	if spinner[1].MaxFrame != 40*time.Millisecond {
		t.Errorf("MaxFrame = %v, expected 40ms", spinner[1].MaxFrame)
	}
	if !spinner[1].StartedAt.Equal(base) {
		t.Errorf("StartedAt = %v, expected %v", spinner[1].StartedAt, base)
	}

	all, err := store.RecentSessions("", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(all) != 3 || all[0].SceneID != "orbit" {
		t.Errorf("Expected 3 sessions with orbit newest, got %d", len(all))
	}
}

func TestStoreRecentSessionsLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		store.SaveSession(Session{SceneID: "test", Frames: i, StartedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	sessions, err := store.RecentSessions("test", 3)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions with limit, got %d", len(sessions))
	}
	if sessions[0].Frames != 4 || sessions[2].Frames != 2 {
		t.Errorf("Sessions not in expected order: %+v", sessions)
	}
}

func TestStoreSaveSessionRequiresScene(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveSession(Session{}); err == nil {
		t.Error("SaveSession without scene id should fail")
	}
}

func TestStoreSceneStats(t *testing.T) {
	store := openTestStore(t)

	// No sessions yet
	empty, err := store.GetSceneStats("spinner")
	if err != nil {
		t.Fatalf("GetSceneStats() failed: %v", err)
	}
	if empty.Sessions != 0 {
		t.Errorf("Expected 0 sessions for empty scene, got %d", empty.Sessions)
	}

	store.SaveSession(Session{SceneID: "spinner", Frames: 100, AvgFrame: 10 * time.Millisecond, MaxFrame: 30 * time.Millisecond, Duration: time.Second})
	store.SaveSession(Session{SceneID: "spinner", Frames: 300, Faults: 1, AvgFrame: 20 * time.Millisecond, MaxFrame: 50 * time.Millisecond, Duration: 6 * time.Second})
	store.SaveSession(Session{SceneID: "orbit", Frames: 10, AvgFrame: time.Millisecond})

	stats, err := store.GetSceneStats("spinner")
	if err != nil {
		t.Fatalf("GetSceneStats() failed: %v", err)
	}
	if stats.Sessions != 2 || stats.TotalFrames != 400 || stats.TotalFaults != 1 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	// (100*10 + 300*20) / 400 = 17.5ms
	if stats.AvgFrame != 17500*time.Microsecond {
		t.Errorf("AvgFrame = %v, expected 17.5ms", stats.AvgFrame)
	}
	if stats.MaxFrame != 50*time.Millisecond {
		t.Errorf("MaxFrame = %v, expected 50ms", stats.MaxFrame)
	}
	if stats.PlayTime != 7*time.Second {
		t.Errorf("PlayTime = %v, expected 7s", stats.PlayTime)
	}

	all, err := store.GetAllSceneStats()
	if err != nil {
		t.Fatalf("GetAllSceneStats() failed: %v", err)
	}
	if len(all) != 2 || all["orbit"].Sessions != 1 {
		t.Errorf("Unexpected all-scene stats: %v", all)
	}
}

func TestStoreClearSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(Session{SceneID: "spinner", Frames: 1})
	store.SaveSession(Session{SceneID: "orbit", Frames: 1})

	if err := store.ClearSessions("spinner"); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}

	spinner, _ := store.RecentSessions("spinner", 10)
	if len(spinner) != 0 {
		t.Errorf("Expected 0 spinner sessions after clear, got %d", len(spinner))
	}
	orbit, _ := store.RecentSessions("orbit", 10)
	if len(orbit) != 1 {
		t.Error("Orbit sessions should not be affected by clearing spinner")
	}
}

func TestSessionFromSummary(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sum := loop.Summary{
		Frames:    50,
		Faults:    1,
		Total:     time.Second,
		MaxFrame:  45 * time.Millisecond,
		StartedAt: start,
		EndedAt:   start.Add(time.Second),
	}

	s := SessionFromSummary("orbit", "bob", 64, 32, 50, sum)
	if s.AvgFrame != 20*time.Millisecond {
		t.Errorf("AvgFrame = %v, expected 20ms", s.AvgFrame)
	}
	if s.Duration != time.Second {
		t.Errorf("Duration = %v, expected 1s", s.Duration)
	}
	if s.AvgFPS() != 50 {
		t.Errorf("AvgFPS = %v, expected 50", s.AvgFPS())
	}
	if s.SceneID != "orbit" || s.User != "bob" || s.Width != 64 || s.TargetFPS != 50 {
		t.Errorf("Unexpected session: %+v", s)
	}
}
