package session

import (
	"errors"
	"time"

	"sproutmath/internal/questiongen"
)

var (
	// ErrNotRunning is returned when Submit/Abort is called outside the
	// Running state. Programmer error; surfaced to the caller.
	ErrNotRunning = errors.New("session not running")

	// ErrAlreadyCompleted is returned when a terminal session is asked to
	// complete again through an incompatible path.
	ErrAlreadyCompleted = errors.New("session already completed")
)

// State is the session lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// Clock supplies time to the machine. Injected so tests advance it
// deterministically; response times need a monotonic source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Stats is the session machine's view of the current session. Invariants:
// 0 <= QuestionsCorrect <= QuestionsAttempted <= TargetQuestions,
// CurrentStreak <= LongestStreak, and CompletedAt is set iff IsCompleted.
type Stats struct {
	ID                 string
	UserID             string
	GameType           questiongen.GameType
	DifficultyAtStart  questiongen.Difficulty
	TargetQuestions    int
	StartedAt          time.Time
	CompletedAt        *time.Time
	QuestionsAttempted int
	QuestionsCorrect   int
	TotalTimeSeconds   float64
	AverageTimeSeconds float64
	CurrentStreak      int
	LongestStreak      int
	CurrentDifficulty  questiongen.Difficulty
	IsCompleted        bool
	Aborted            bool
}

// Accuracy is correct/attempted, 0 before the first answer.
func (s *Stats) Accuracy() float64 {
	if s.QuestionsAttempted == 0 {
		return 0
	}
	return float64(s.QuestionsCorrect) / float64(s.QuestionsAttempted)
}

// AttemptResult is handed to the renderer after each graded answer.
type AttemptResult struct {
	IsCorrect      bool
	CorrectAnswer  string
	Explanation    string
	Feedback       string
	Stats          Stats
	IsGameComplete bool
	NextQuestion   *questiongen.Question
}
