// Package recorder persists session activity with best-effort remote
// delivery. Every write succeeds locally first; remote failures are queued
// in an outbox and replayed on reconnect. Implementations are pluggable:
// the session machine only sees the Recorder interface.
package recorder

import (
	"context"
	"errors"
	"time"

	"sproutmath/internal/profile"
	"sproutmath/internal/questiongen"
)

var (
	// ErrRecorderUnavailable means the remote backend is unreachable. The
	// default service never surfaces it from writes; it routes to the
	// offline path instead.
	ErrRecorderUnavailable = errors.New("recorder unavailable")

	// ErrSyncFailed means an outbox replay exhausted its retry budget. The
	// operation stays queued; the session continues.
	ErrSyncFailed = errors.New("recorder sync failed")

	// ErrUnknownWindow is returned for analytics ranges other than 7d/30d.
	ErrUnknownWindow = errors.New("unknown analytics window")
)

// SessionRecord is the persisted form of a session.
type SessionRecord struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	GameType           string     `json:"game_type"`
	DifficultyAtStart  string     `json:"difficulty_at_start"`
	TargetQuestions    int        `json:"target_questions"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	QuestionsAttempted int        `json:"questions_attempted"`
	QuestionsCorrect   int        `json:"questions_correct"`
	TotalTimeSeconds   float64    `json:"total_time_seconds"`
	LongestStreak      int        `json:"longest_streak"`
	CurrentDifficulty  string     `json:"current_difficulty"`
	IsCompleted        bool       `json:"is_completed"`
	Aborted            bool       `json:"aborted"`
}

// AttemptRecord is the persisted form of one graded answer.
type AttemptRecord struct {
	ID               string                `json:"id"`
	SessionID        string                `json:"session_id"`
	GameType         string                `json:"game_type"`
	Question         *questiongen.Question `json:"question"`
	UserAnswer       string                `json:"user_answer"`
	IsCorrect        bool                  `json:"is_correct"`
	TimeSpentSeconds float64               `json:"time_spent_seconds"`
	CreatedAt        time.Time             `json:"created_at"`
}

// AchievementRecord is one awarded achievement.
type AchievementRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	AwardedAt time.Time `json:"awarded_at"`
}

// Trend classifies accuracy movement within an analytics window.
type Trend string

const (
	TrendInsufficientData Trend = "insufficient_data"
	TrendImproving        Trend = "improving"
	TrendStable           Trend = "stable"
	TrendDeclining        Trend = "declining"
)

// GameTypeStats is the per-game-type analytics breakdown.
type GameTypeStats struct {
	Sessions  int `json:"sessions"`
	Questions int `json:"questions"`
	Correct   int `json:"correct"`
}

// Analytics is the windowed activity summary.
type Analytics struct {
	Window             string                   `json:"window"`
	TotalSessions      int                      `json:"total_sessions"`
	TotalQuestions     int                      `json:"total_questions"`
	TotalCorrect       int                      `json:"total_correct"`
	AccuracyPercentage int                      `json:"accuracy_percentage"`
	AvgTimePerQuestion float64                  `json:"avg_time_per_question"`
	ByGameType         map[string]GameTypeStats `json:"by_game_type"`
	ImprovementTrend   Trend                    `json:"improvement_trend"`
	Strengths          []string                 `json:"strengths"`
	WeakAreas          []string                 `json:"weak_areas"`
}

// Recorder is the persistence surface the session machine consumes.
type Recorder interface {
	CreateAnonymousUser(ctx context.Context) (*profile.UserProfile, error)
	UpdateProfile(ctx context.Context, p *profile.UserProfile) error
	StartSession(ctx context.Context, s SessionRecord) error
	RecordAttempt(ctx context.Context, a AttemptRecord) error
	CompleteSession(ctx context.Context, s SessionRecord) error
	RecordAchievement(ctx context.Context, a AchievementRecord) error
	GetAnalytics(ctx context.Context, window string) (*Analytics, error)
}

// windowSince resolves a "7d"/"30d" range to its cutoff instant.
func windowSince(window string, now time.Time) (time.Time, error) {
	switch window {
	case "7d":
		return now.AddDate(0, 0, -7), nil
	case "30d":
		return now.AddDate(0, 0, -30), nil
	}
	return time.Time{}, ErrUnknownWindow
}
