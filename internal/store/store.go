// Package store is the local offline mirror: a SQLite database holding the
// same logical tables as the remote backend plus the outbox of pending
// remote operations. It is the only shared mutable resource in the engine;
// database/sql serializes access.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"sproutmath/internal/recorder"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store implements recorder.LocalStore over SQLite.
type Store struct {
	db *sql.DB
}

var _ recorder.LocalStore = (*Store)(nil)

// Open connects to the SQLite database at dsn, applies the recommended
// pragmas and creates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Reset wipes every table. Used by the reset command.
func (s *Store) Reset() error {
	for _, table := range []string{
		"users", "learning_sessions", "question_attempts",
		"achievements", "outbox", "analytics_cache",
	} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			age_bucket INTEGER NOT NULL DEFAULT 0,
			personality TEXT NOT NULL DEFAULT '',
			settings TEXT NOT NULL DEFAULT '{}',
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS learning_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			game_type TEXT NOT NULL,
			difficulty_at_start TEXT NOT NULL,
			target_questions INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			completed_at TEXT,
			questions_attempted INTEGER NOT NULL DEFAULT 0,
			questions_correct INTEGER NOT NULL DEFAULT 0,
			total_time_seconds REAL NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			current_difficulty TEXT NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			aborted INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS question_attempts (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			game_type TEXT NOT NULL,
			question_data TEXT NOT NULL,
			user_answer TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			time_spent_seconds REAL NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS achievements (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			awarded_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outbox (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			session_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analytics_cache (
			window TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			cached_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_session ON question_attempts (session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_created ON question_attempts (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started ON learning_sessions (started_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SPROUTMATH_DB environment variable
// 2. $XDG_DATA_HOME/sproutmath/sproutmath.db
// 3. ~/.local/share/sproutmath/sproutmath.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SPROUTMATH_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "sproutmath", "sproutmath.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
