// Package insights turns final session statistics into a short summary:
// three textual insights and the list of earned achievements. Everything is
// a deterministic threshold except the suggestion, which picks a different
// game type from the injected random source.
package insights

import (
	"math/rand/v2"

	"sproutmath/internal/questiongen"
	"sproutmath/internal/recorder"
)

// Achievement names are stable identifiers persisted with the session.
const (
	AchievementPerfectGame  = "perfect_game"
	AchievementSpeedDemon   = "speed_demon"
	AchievementStreakMaster = "streak_master"
)

// SessionStats is the slice of session state the summarizer reads.
type SessionStats struct {
	GameType      questiongen.GameType
	Attempts      int
	Correct       int
	AvgTime       float64 // seconds per question
	LongestStreak int
}

// Accuracy is correct/attempts, 0 for an empty session.
func (s SessionStats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// Insights are the three summary lines shown after a session.
type Insights struct {
	Strength    string `json:"strength"`
	Improvement string `json:"improvement"`
	Suggestion  string `json:"suggestion"`
}

// Summary pairs insights with earned achievements.
type Summary struct {
	Insights     Insights `json:"insights"`
	Achievements []string `json:"achievements"`
}

// Summarize builds the post-session summary. The analytics argument carries
// recent history for context; the current thresholds read only the session
// itself, so a nil analytics is fine (offline, first session).
func Summarize(stats SessionStats, analytics *recorder.Analytics, rng *rand.Rand) Summary {
	_ = analytics
	return Summary{
		Insights: Insights{
			Strength:    strengthInsight(stats.Accuracy()),
			Improvement: improvementInsight(stats.Accuracy(), stats.AvgTime),
			Suggestion:  suggestion(stats.GameType, rng),
		},
		Achievements: EarnedAchievements(stats),
	}
}

func strengthInsight(accuracy float64) string {
	switch {
	case accuracy >= 0.9:
		return "You're a superstar! Almost every answer was right."
	case accuracy >= 0.75:
		return "Excellent work! You got most questions right."
	case accuracy >= 0.6:
		return "Good progress! You're getting the hang of it."
	default:
		return "Keep practicing! Every question makes you better."
	}
}

func improvementInsight(accuracy, avgTime float64) string {
	switch {
	case avgTime > 30:
		return "Trust your first instinct; you often know the answer faster than you think."
	case accuracy < 0.6:
		return "Slow down and think each question through before answering."
	default:
		return "Keep it up; your pace and accuracy are working well together."
	}
}

// suggestion picks one of the three game types not just played.
func suggestion(played questiongen.GameType, rng *rand.Rand) string {
	others := make([]questiongen.GameType, 0, 3)
	for _, gt := range questiongen.AllGameTypes() {
		if gt != played {
			others = append(others, gt)
		}
	}
	next := others[rng.IntN(len(others))]
	return "Why not try the " + string(next) + " game next time?"
}

// EarnedAchievements evaluates the award predicates in a fixed order.
func EarnedAchievements(stats SessionStats) []string {
	var earned []string
	if stats.Attempts >= 5 && stats.Correct == stats.Attempts {
		earned = append(earned, AchievementPerfectGame)
	}
	if stats.AvgTime < 15 && stats.Accuracy() >= 0.8 {
		earned = append(earned, AchievementSpeedDemon)
	}
	if stats.LongestStreak >= 5 {
		earned = append(earned, AchievementStreakMaster)
	}
	return earned
}
