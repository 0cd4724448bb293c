package questiongen

import (
	"errors"
	"fmt"
)

// ErrUnknownGameType is returned when a game type string is not one of the
// four supported families.
var ErrUnknownGameType = errors.New("unknown game type")

// GameType identifies one of the four mini-game families.
type GameType string

const (
	GameArithmetic GameType = "arithmetic"
	GameTime       GameType = "time"
	GamePatterns   GameType = "patterns"
	GameShapes     GameType = "shapes"
)

// AllGameTypes returns the four game types in a fixed order.
func AllGameTypes() []GameType {
	return []GameType{GameArithmetic, GameTime, GamePatterns, GameShapes}
}

// ParseGameType validates a raw string as a GameType.
func ParseGameType(s string) (GameType, error) {
	switch GameType(s) {
	case GameArithmetic, GameTime, GamePatterns, GameShapes:
		return GameType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGameType, s)
}

// Difficulty is a totally ordered level: easy < medium < hard.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "unknown"
}

// ParseDifficulty converts a stored difficulty string back to a level.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Easy, fmt.Errorf("unknown difficulty %q", s)
}

// StepUp returns the next-higher level, clamped at Hard.
func (d Difficulty) StepUp() Difficulty {
	if d < Hard {
		return d + 1
	}
	return d
}

// StepDown returns the next-lower level, clamped at Easy.
func (d Difficulty) StepDown() Difficulty {
	if d > Easy {
		return d - 1
	}
	return d
}

// AnswerKind describes how the correct answer should be compared.
type AnswerKind string

const (
	// AnswerNumber means both sides parse as decimal numbers and must be
	// exactly equal.
	AnswerNumber AnswerKind = "number"

	// AnswerText means a trimmed, case-folded string comparison.
	AnswerText AnswerKind = "text"
)

// Question is a fully-specified generated question. Immutable after creation.
type Question struct {
	// Type is the game family this question belongs to.
	Type GameType

	// Subtype names the concrete generator rule, e.g. "addition",
	// "half-hour", "number", "identify".
	Subtype string

	// Difficulty is the level the question was generated at.
	Difficulty Difficulty

	// Prompt is the natural-language question shown to the child.
	Prompt string

	// Answer is the canonical correct answer as a string.
	Answer string

	// AnswerKind selects the grading rule for Answer.
	AnswerKind AnswerKind

	// Options holds exactly 4 distinct choices, one of which equals Answer.
	// Nil means free numeric entry.
	Options []string

	// Visual is the tagged descriptor consumed by the renderer. The engine
	// never interprets it beyond construction and persistence.
	Visual *Visual

	// Hints is a three-element progressive list, shortest hint first.
	Hints []string

	// Explanation is a one-sentence derivation of the correct answer.
	Explanation string
}

// HasOptions reports whether the question is multiple choice.
func (q *Question) HasOptions() bool {
	return len(q.Options) > 0
}
