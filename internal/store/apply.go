package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"sproutmath/internal/profile"
	"sproutmath/internal/recorder"
)

// Timestamps are persisted as ISO-8601 UTC strings.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

// Apply persists an operation's record into the local tables. Inserts use
// INSERT OR REPLACE keyed on the record id, so replaying the same operation
// is harmless.
func (s *Store) Apply(op recorder.Operation) error {
	switch op.Kind {
	case recorder.OpUserCreate, recorder.OpProfileUpdate:
		var p profile.UserProfile
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return fmt.Errorf("decode %s: %w", op.Kind, err)
		}
		return s.upsertUser(&p, op.CreatedAt)

	case recorder.OpSessionStart, recorder.OpSessionComplete:
		var rec recorder.SessionRecord
		if err := json.Unmarshal(op.Payload, &rec); err != nil {
			return fmt.Errorf("decode %s: %w", op.Kind, err)
		}
		return s.upsertSession(rec)

	case recorder.OpAttemptRecord:
		var a recorder.AttemptRecord
		if err := json.Unmarshal(op.Payload, &a); err != nil {
			return fmt.Errorf("decode %s: %w", op.Kind, err)
		}
		return s.insertAttempt(a)

	case recorder.OpAchievementAward:
		var a recorder.AchievementRecord
		if err := json.Unmarshal(op.Payload, &a); err != nil {
			return fmt.Errorf("decode %s: %w", op.Kind, err)
		}
		return s.insertAchievement(a)
	}
	return fmt.Errorf("unknown operation kind %q", op.Kind)
}

func (s *Store) upsertUser(p *profile.UserProfile, at time.Time) error {
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO users (id, age_bucket, personality, settings, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.AgeBucket, p.Personality, string(settings), formatTime(at),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *Store) upsertSession(rec recorder.SessionRecord) error {
	var completedAt any
	if rec.CompletedAt != nil {
		completedAt = formatTime(*rec.CompletedAt)
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO learning_sessions
		 (id, user_id, game_type, difficulty_at_start, target_questions, started_at,
		  completed_at, questions_attempted, questions_correct, total_time_seconds,
		  longest_streak, current_difficulty, is_completed, aborted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.GameType, rec.DifficultyAtStart, rec.TargetQuestions,
		formatTime(rec.StartedAt), completedAt, rec.QuestionsAttempted,
		rec.QuestionsCorrect, rec.TotalTimeSeconds, rec.LongestStreak,
		rec.CurrentDifficulty, boolInt(rec.IsCompleted), boolInt(rec.Aborted),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *Store) insertAttempt(a recorder.AttemptRecord) error {
	question, err := json.Marshal(a.Question)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO question_attempts
		 (id, session_id, game_type, question_data, user_answer, is_correct,
		  time_spent_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, a.GameType, string(question), a.UserAnswer,
		boolInt(a.IsCorrect), a.TimeSpentSeconds, formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *Store) insertAchievement(a recorder.AchievementRecord) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO achievements (id, user_id, session_id, name, awarded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.SessionID, a.Name, formatTime(a.AwardedAt),
	)
	if err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := parseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
