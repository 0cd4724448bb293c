package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sproutmath/internal/profile"
	"sproutmath/internal/recorder"
)

// SessionsSince returns sessions started at or after t, oldest first.
func (s *Store) SessionsSince(t time.Time) ([]recorder.SessionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, game_type, difficulty_at_start, target_questions,
		        started_at, completed_at, questions_attempted, questions_correct,
		        total_time_seconds, longest_streak, current_difficulty,
		        is_completed, aborted
		 FROM learning_sessions WHERE started_at >= ? ORDER BY started_at`,
		formatTime(t),
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []recorder.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SessionByID fetches a single session row.
func (s *Store) SessionByID(id string) (*recorder.SessionRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, game_type, difficulty_at_start, target_questions,
		        started_at, completed_at, questions_attempted, questions_correct,
		        total_time_seconds, longest_streak, current_difficulty,
		        is_completed, aborted
		 FROM learning_sessions WHERE id = ?`, id)
	rec, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (recorder.SessionRecord, error) {
	var (
		rec                    recorder.SessionRecord
		startedAt              string
		completedAt            sql.NullString
		isCompleted, isAborted int
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.GameType, &rec.DifficultyAtStart,
		&rec.TargetQuestions, &startedAt, &completedAt, &rec.QuestionsAttempted,
		&rec.QuestionsCorrect, &rec.TotalTimeSeconds, &rec.LongestStreak,
		&rec.CurrentDifficulty, &isCompleted, &isAborted,
	)
	if err != nil {
		return recorder.SessionRecord{}, err
	}
	if rec.StartedAt, err = parseTime(startedAt); err != nil {
		return recorder.SessionRecord{}, fmt.Errorf("parse started_at: %w", err)
	}
	if rec.CompletedAt, err = nullableTime(completedAt); err != nil {
		return recorder.SessionRecord{}, fmt.Errorf("parse completed_at: %w", err)
	}
	rec.IsCompleted = isCompleted != 0
	rec.Aborted = isAborted != 0
	return rec, nil
}

// AttemptsSince returns attempts created at or after t, oldest first.
func (s *Store) AttemptsSince(t time.Time) ([]recorder.AttemptRecord, error) {
	return s.queryAttempts(
		`SELECT id, session_id, game_type, question_data, user_answer, is_correct,
		        time_spent_seconds, created_at
		 FROM question_attempts WHERE created_at >= ? ORDER BY created_at`,
		formatTime(t),
	)
}

// AttemptsBySession returns a session's attempts in submission order.
func (s *Store) AttemptsBySession(sessionID string) ([]recorder.AttemptRecord, error) {
	return s.queryAttempts(
		`SELECT id, session_id, game_type, question_data, user_answer, is_correct,
		        time_spent_seconds, created_at
		 FROM question_attempts WHERE session_id = ? ORDER BY created_at, id`,
		sessionID,
	)
}

func (s *Store) queryAttempts(query string, arg any) ([]recorder.AttemptRecord, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []recorder.AttemptRecord
	for rows.Next() {
		var (
			a            recorder.AttemptRecord
			questionData string
			createdAt    string
			isCorrect    int
		)
		if err := rows.Scan(
			&a.ID, &a.SessionID, &a.GameType, &questionData, &a.UserAnswer,
			&isCorrect, &a.TimeSpentSeconds, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt row: %w", err)
		}
		if err := json.Unmarshal([]byte(questionData), &a.Question); err != nil {
			return nil, fmt.Errorf("decode question data: %w", err)
		}
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse attempt timestamp: %w", err)
		}
		a.IsCorrect = isCorrect != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

// FirstUser returns the earliest-created user profile, nil when the users
// table is empty. The engine is single-learner, so "first" is "the" user.
func (s *Store) FirstUser() (*profile.UserProfile, error) {
	var (
		p        profile.UserProfile
		settings string
	)
	err := s.db.QueryRow(
		`SELECT id, age_bucket, personality, settings FROM users ORDER BY updated_at LIMIT 1`,
	).Scan(&p.ID, &p.AgeBucket, &p.Personality, &settings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}
	if err := json.Unmarshal([]byte(settings), &p.Settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &p, nil
}

// CacheAnalytics stores a computed analytics payload for the window.
func (s *Store) CacheAnalytics(window string, a *recorder.Analytics, at time.Time) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal analytics: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO analytics_cache (window, payload, cached_at) VALUES (?, ?, ?)`,
		window, string(payload), formatTime(at),
	)
	if err != nil {
		return fmt.Errorf("cache analytics: %w", err)
	}
	return nil
}

// CachedAnalytics returns the cached payload for the window if it was
// written at or after notBefore, nil otherwise.
func (s *Store) CachedAnalytics(window string, notBefore time.Time) (*recorder.Analytics, error) {
	var payload, cachedAt string
	err := s.db.QueryRow(
		`SELECT payload, cached_at FROM analytics_cache WHERE window = ?`, window,
	).Scan(&payload, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read analytics cache: %w", err)
	}
	at, err := parseTime(cachedAt)
	if err != nil {
		return nil, fmt.Errorf("parse cache timestamp: %w", err)
	}
	if at.Before(notBefore) {
		return nil, nil
	}
	var a recorder.Analytics
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("decode cached analytics: %w", err)
	}
	return &a, nil
}

// EvictCaches drops every analytics cache row. Cached analytics are
// recomputable, so this is the first response to a full disk.
func (s *Store) EvictCaches() error {
	if _, err := s.db.Exec(`DELETE FROM analytics_cache`); err != nil {
		return fmt.Errorf("evict caches: %w", err)
	}
	return nil
}
