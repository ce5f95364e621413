// Package storage provides SQLite-based persistence for render-session
// statistics. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-engine/internal/loop"
)

// Store manages the SQLite database connection for session statistics.
type Store struct {
	db *sql.DB
}

// Session is one recorded run of a scene.
type Session struct {
	ID        int64
	SceneID   string
	User      string // "local" or the SSH user
	Width     int
	Height    int
	TargetFPS int
	Frames    int
	Faults    int
	AvgFrame  time.Duration
	MaxFrame  time.Duration
	Duration  time.Duration
	StartedAt time.Time
	CreatedAt time.Time
}

// AvgFPS returns the mean frame rate of the session.
func (s Session) AvgFPS() float64 {
	if s.AvgFrame <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.AvgFrame)
}

// SessionFromSummary builds a session record from a loop summary.
func SessionFromSummary(sceneID, user string, width, height, fps int, sum loop.Summary) Session {
	return Session{
		SceneID:   sceneID,
		User:      user,
		Width:     width,
		Height:    height,
		TargetFPS: fps,
		Frames:    sum.Frames,
		Faults:    sum.Faults,
		AvgFrame:  sum.AvgFrame(),
		MaxFrame:  sum.MaxFrame,
		Duration:  sum.EndedAt.Sub(sum.StartedAt),
		StartedAt: sum.StartedAt,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// Durations are stored in microseconds and started_at in Unix milliseconds.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			user_name TEXT NOT NULL DEFAULT 'local',
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			target_fps INTEGER NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			faults INTEGER NOT NULL DEFAULT 0,
			avg_frame_us INTEGER NOT NULL DEFAULT 0,
			max_frame_us INTEGER NOT NULL DEFAULT 0,
			duration_us INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_scene_id ON sessions(scene_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(sess Session) (int64, error) {
	if sess.SceneID == "" {
		return 0, errors.New("storage: session has no scene id")
	}
	if sess.User == "" {
		sess.User = "local"
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO sessions
		 (scene_id, user_name, width, height, target_fps, frames, faults, avg_frame_us, max_frame_us, duration_us, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.SceneID,
		sess.User,
		sess.Width,
		sess.Height,
		sess.TargetFPS,
		sess.Frames,
		sess.Faults,
		sess.AvgFrame.Microseconds(),
		sess.MaxFrame.Microseconds(),
		sess.Duration.Microseconds(),
		sess.StartedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
// An empty sceneID returns sessions of every scene.
func (s *Store) RecentSessions(sceneID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, user_name, width, height, target_fps, frames, faults,
		        avg_frame_us, max_frame_us, duration_us, started_at, created_at
		 FROM sessions
		 WHERE ? = '' OR scene_id = ?
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		sceneID, sceneID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess                Session
			avgUS, maxUS, durUS int64
			startedMS           int64
			createdAt           any
		)
		if err := rows.Scan(
			&sess.ID,
			&sess.SceneID,
			&sess.User,
			&sess.Width,
			&sess.Height,
			&sess.TargetFPS,
			&sess.Frames,
			&sess.Faults,
			&avgUS,
			&maxUS,
			&durUS,
			&startedMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		sess.AvgFrame = time.Duration(avgUS) * time.Microsecond
		sess.MaxFrame = time.Duration(maxUS) * time.Microsecond
		sess.Duration = time.Duration(durUS) * time.Microsecond
		sess.StartedAt = time.UnixMilli(startedMS)
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// ClearSessions deletes all sessions of the given scene.
func (s *Store) ClearSessions(sceneID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE scene_id = ?", sceneID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// SceneStats contains aggregated statistics for a scene.
type SceneStats struct {
	SceneID     string
	Sessions    int
	TotalFrames int64
	TotalFaults int64
	AvgFrame    time.Duration // Frame-weighted mean
	MaxFrame    time.Duration
	PlayTime    time.Duration
	LastPlayed  time.Time
}

// GetSceneStats retrieves aggregated statistics for a specific scene.
func (s *Store) GetSceneStats(sceneID string) (*SceneStats, error) {
	row := s.db.QueryRow(
		`SELECT scene_id, COUNT(*), SUM(frames), SUM(faults),
		        SUM(avg_frame_us * frames), MAX(max_frame_us), SUM(duration_us), MAX(started_at)
		 FROM sessions
		 WHERE scene_id = ?
		 GROUP BY scene_id`,
		sceneID,
	)
	stats, err := scanSceneStats(row)
	if errors.Is(err, sql.ErrNoRows) {
		return &SceneStats{SceneID: sceneID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	return stats, nil
}

// GetAllSceneStats retrieves statistics for every scene that has sessions.
func (s *Store) GetAllSceneStats() (map[string]*SceneStats, error) {
	rows, err := s.db.Query(
		`SELECT scene_id, COUNT(*), SUM(frames), SUM(faults),
		        SUM(avg_frame_us * frames), MAX(max_frame_us), SUM(duration_us), MAX(started_at)
		 FROM sessions
		 GROUP BY scene_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all scene stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SceneStats)
	for rows.Next() {
		st, err := scanSceneStats(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats[st.SceneID] = st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSceneStats(row scanner) (*SceneStats, error) {
	var (
		st                         SceneStats
		weightedUS, maxUS, totalUS int64
		lastMS                     int64
	)
	if err := row.Scan(
		&st.SceneID,
		&st.Sessions,
		&st.TotalFrames,
		&st.TotalFaults,
		&weightedUS,
		&maxUS,
		&totalUS,
		&lastMS,
	); err != nil {
		return nil, err
	}

	if st.TotalFrames > 0 {
		st.AvgFrame = time.Duration(weightedUS/st.TotalFrames) * time.Microsecond
	}
	st.MaxFrame = time.Duration(maxUS) * time.Microsecond
	st.PlayTime = time.Duration(totalUS) * time.Microsecond
	st.LastPlayed = time.UnixMilli(lastMS)
	return &st, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
