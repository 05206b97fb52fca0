// Package runlog records hook executions in a SQLite database under the
// repository's .git dir. Recording is best-effort: a hook never fails
// because its run could not be logged.
package runlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dycw/hooksmith/internal/git"
)

const dbFile = "runs.db"

// Run is one hook execution.
type Run struct {
	Hook      string
	StartedAt time.Time
	Duration  time.Duration
	ExitCode  int
	Files     int
}

// HookStats aggregates the recorded runs of one hook.
type HookStats struct {
	Hook      string  `json:"hook"`
	Runs      int     `json:"runs"`
	Failures  int     `json:"failures"`
	AvgMillis float64 `json:"avg_ms"`
	LastRun   string  `json:"last_run"`
}

// Log is an open run database.
type Log struct {
	db *sql.DB
}

// Open opens the run database for the repository at root, creating the
// schema when absent. The database lives under .git so it never shows
// up as an untracked file.
func Open(root string) (*Log, error) {
	gitDir, err := git.GitDir(root)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(gitDir, "hooksmith")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hook TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			exit_code INTEGER NOT NULL,
			files INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Log{db: db}, nil
}

func (l *Log) Close() error {
	return l.db.Close()
}

// Add inserts one run.
func (l *Log) Add(run Run) error {
	_, err := l.db.Exec(
		"INSERT INTO runs (hook, started_at, duration_ms, exit_code, files) VALUES (?, ?, ?, ?, ?)",
		run.Hook,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.Duration.Milliseconds(),
		run.ExitCode,
		run.Files,
	)
	return err
}

// Stats aggregates all recorded runs per hook, ordered by hook name.
func (l *Log) Stats() ([]HookStats, error) {
	rows, err := l.db.Query(`
		SELECT hook,
		       COUNT(*),
		       SUM(CASE WHEN exit_code != 0 THEN 1 ELSE 0 END),
		       AVG(duration_ms),
		       MAX(started_at)
		FROM runs
		GROUP BY hook
		ORDER BY hook
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HookStats
	for rows.Next() {
		var s HookStats
		if err := rows.Scan(&s.Hook, &s.Runs, &s.Failures, &s.AvgMillis, &s.LastRun); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Record logs one run, swallowing every failure. Hooks call this after
// finishing so the stats command has data; logging must never turn a
// passing hook red.
func Record(root string, run Run) {
	l, err := Open(root)
	if err != nil {
		return
	}
	defer l.Close()
	l.Add(run)
}
