// Package backend is the remote table store: a Postgres database reached
// through gorm. Apply is idempotent per operation so outbox replays after a
// partial drain never duplicate rows.
package backend

import (
	"time"

	"sproutmath/internal/recorder"
)

// User mirrors the users table.
type User struct {
	ID          string `gorm:"primaryKey"`
	AgeBucket   int
	Personality string
	Settings    string `gorm:"type:jsonb;default:'{}'"`
	UpdatedAt   time.Time
}

func (User) TableName() string { return "users" }

// LearningSession mirrors the learning_sessions table.
type LearningSession struct {
	ID                 string `gorm:"primaryKey"`
	UserID             string `gorm:"index"`
	GameType           string
	DifficultyAtStart  string
	TargetQuestions    int
	StartedAt          time.Time `gorm:"index"`
	CompletedAt        *time.Time
	QuestionsAttempted int
	QuestionsCorrect   int
	TotalTimeSeconds   float64
	LongestStreak      int
	CurrentDifficulty  string
	IsCompleted        bool
	Aborted            bool
}

func (LearningSession) TableName() string { return "learning_sessions" }

// QuestionAttempt mirrors the question_attempts table. The full question is
// kept as a JSON document; analytics only reads the scalar columns.
type QuestionAttempt struct {
	ID               string `gorm:"primaryKey"`
	SessionID        string `gorm:"index"`
	GameType         string
	QuestionData     string `gorm:"type:jsonb"`
	UserAnswer       string
	IsCorrect        bool
	TimeSpentSeconds float64
	CreatedAt        time.Time `gorm:"index"`
}

func (QuestionAttempt) TableName() string { return "question_attempts" }

// Achievement mirrors the achievements table.
type Achievement struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	SessionID string
	Name      string
	AwardedAt time.Time
}

func (Achievement) TableName() string { return "achievements" }

func sessionModel(rec recorder.SessionRecord) LearningSession {
	return LearningSession{
		ID:                 rec.ID,
		UserID:             rec.UserID,
		GameType:           rec.GameType,
		DifficultyAtStart:  rec.DifficultyAtStart,
		TargetQuestions:    rec.TargetQuestions,
		StartedAt:          rec.StartedAt,
		CompletedAt:        rec.CompletedAt,
		QuestionsAttempted: rec.QuestionsAttempted,
		QuestionsCorrect:   rec.QuestionsCorrect,
		TotalTimeSeconds:   rec.TotalTimeSeconds,
		LongestStreak:      rec.LongestStreak,
		CurrentDifficulty:  rec.CurrentDifficulty,
		IsCompleted:        rec.IsCompleted,
		Aborted:            rec.Aborted,
	}
}

func (m LearningSession) record() recorder.SessionRecord {
	return recorder.SessionRecord{
		ID:                 m.ID,
		UserID:             m.UserID,
		GameType:           m.GameType,
		DifficultyAtStart:  m.DifficultyAtStart,
		TargetQuestions:    m.TargetQuestions,
		StartedAt:          m.StartedAt,
		CompletedAt:        m.CompletedAt,
		QuestionsAttempted: m.QuestionsAttempted,
		QuestionsCorrect:   m.QuestionsCorrect,
		TotalTimeSeconds:   m.TotalTimeSeconds,
		LongestStreak:      m.LongestStreak,
		CurrentDifficulty:  m.CurrentDifficulty,
		IsCompleted:        m.IsCompleted,
		Aborted:            m.Aborted,
	}
}
