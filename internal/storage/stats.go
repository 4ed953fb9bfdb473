package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	dbFileName = "pomodo.db"
	dateLayout = "2006-01-02"
)

// DailyStats aggregates the work sessions completed on one calendar day.
type DailyStats struct {
	Date               string
	CompletedPomodoros int
	Focus              time.Duration
}

// FocusMinutes returns the focus time in whole minutes.
func (stats DailyStats) FocusMinutes() int {
	return int(stats.Focus / time.Minute)
}

// SessionRecord is one finished phase in the session log.
type SessionRecord struct {
	ID       int64
	Phase    string
	Cycle    int
	Duration time.Duration
	Skipped  bool
	EndedAt  time.Time
}

// Stats stores daily statistics and the session log in SQLite.
type Stats struct {
	db *sql.DB
}

// StatsPath returns the database location under the XDG data directory.
func StatsPath(appName string) (string, error) {
	path, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return "", fmt.Errorf("resolve stats path: %w", err)
	}
	return path, nil
}

// OpenStats opens or creates the database at path. ":memory:" is accepted.
func OpenStats(path string) (*Stats, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Stats{db: db}, nil
}

// Close closes the database.
func (stats *Stats) Close() error {
	return stats.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_stats (
			date TEXT PRIMARY KEY,
			completed_pomodoros INTEGER NOT NULL DEFAULT 0,
			focus_seconds INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phase TEXT NOT NULL,
			cycle INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			skipped INTEGER NOT NULL DEFAULT 0,
			ended_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);
	`)
	if err != nil {
		return fmt.Errorf("init stats schema: %w", err)
	}
	return nil
}

// DateKey formats t as the daily_stats key in t's location.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// Today returns the stats for the day containing now. A day without a row
// reports zero, which is how the counter resets at midnight.
func (stats *Stats) Today(now time.Time) (DailyStats, error) {
	return stats.day(DateKey(now))
}

func (stats *Stats) day(date string) (DailyStats, error) {
	result := DailyStats{Date: date}
	var focusSeconds int64
	err := stats.db.QueryRow(
		`SELECT completed_pomodoros, focus_seconds FROM daily_stats WHERE date = ?`, date,
	).Scan(&result.CompletedPomodoros, &focusSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("query daily stats: %w", err)
	}
	result.Focus = time.Duration(focusSeconds) * time.Second
	return result, nil
}

// RecordWorkSession adds one completed pomodoro of length focus to the day
// containing at, and returns the updated day.
func (stats *Stats) RecordWorkSession(at time.Time, focus time.Duration) (DailyStats, error) {
	date := DateKey(at)
	_, err := stats.db.Exec(`
		INSERT INTO daily_stats (date, completed_pomodoros, focus_seconds)
		VALUES (?, 1, ?)
		ON CONFLICT(date) DO UPDATE SET
			completed_pomodoros = completed_pomodoros + 1,
			focus_seconds = focus_seconds + excluded.focus_seconds
	`, date, int64(focus/time.Second))
	if err != nil {
		return DailyStats{Date: date}, fmt.Errorf("record work session: %w", err)
	}
	return stats.day(date)
}

// RecordSession appends a finished phase to the session log.
func (stats *Stats) RecordSession(record SessionRecord) error {
	_, err := stats.db.Exec(`
		INSERT INTO sessions (phase, cycle, duration_seconds, skipped, ended_at)
		VALUES (?, ?, ?, ?, ?)
	`, record.Phase, record.Cycle, int64(record.Duration/time.Second), record.Skipped, record.EndedAt.Unix())
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// History returns one entry per day for the last days days ending with the
// day containing now, oldest first. Days without sessions are zero.
func (stats *Stats) History(now time.Time, days int) ([]DailyStats, error) {
	if days <= 0 {
		return nil, nil
	}
	first := now.AddDate(0, 0, -(days - 1))

	rows, err := stats.db.Query(`
		SELECT date, completed_pomodoros, focus_seconds FROM daily_stats
		WHERE date >= ? AND date <= ?
	`, DateKey(first), DateKey(now))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]DailyStats)
	for rows.Next() {
		var day DailyStats
		var focusSeconds int64
		if err := rows.Scan(&day.Date, &day.CompletedPomodoros, &focusSeconds); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		day.Focus = time.Duration(focusSeconds) * time.Second
		stored[day.Date] = day
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	history := make([]DailyStats, 0, days)
	for i := range days {
		date := DateKey(first.AddDate(0, 0, i))
		day, ok := stored[date]
		if !ok {
			day = DailyStats{Date: date}
		}
		history = append(history, day)
	}
	return history, nil
}

// RecentSessions returns up to limit log entries, newest first.
func (stats *Stats) RecentSessions(limit int) ([]SessionRecord, error) {
	rows, err := stats.db.Query(`
		SELECT id, phase, cycle, duration_seconds, skipped, ended_at FROM sessions
		ORDER BY ended_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var record SessionRecord
		var durationSeconds, endedAt int64
		if err := rows.Scan(&record.ID, &record.Phase, &record.Cycle, &durationSeconds, &record.Skipped, &endedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		record.Duration = time.Duration(durationSeconds) * time.Second
		record.EndedAt = time.Unix(endedAt, 0)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}
