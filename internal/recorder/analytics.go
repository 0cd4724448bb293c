package recorder

import (
	"math"
	"sort"

	"sproutmath/internal/questiongen"
)

const (
	trendMinAttempts = 5
	trendDelta       = 0.10
	strengthAccuracy = 0.8
	weakAccuracy     = 0.6
	maxListedAreas   = 3
)

// ComputeAnalytics aggregates sessions and attempts already filtered to the
// window. It is pure, so the same computation serves the local mirror and
// the remote row set.
func ComputeAnalytics(window string, sessions []SessionRecord, attempts []AttemptRecord) *Analytics {
	a := &Analytics{
		Window:     window,
		ByGameType: make(map[string]GameTypeStats),
	}

	a.TotalSessions = len(sessions)
	for _, s := range sessions {
		st := a.ByGameType[s.GameType]
		st.Sessions++
		a.ByGameType[s.GameType] = st
	}

	totalTime := 0.0
	for _, at := range attempts {
		a.TotalQuestions++
		totalTime += at.TimeSpentSeconds
		st := a.ByGameType[at.GameType]
		st.Questions++
		if at.IsCorrect {
			a.TotalCorrect++
			st.Correct++
		}
		a.ByGameType[at.GameType] = st
	}

	if a.TotalQuestions > 0 {
		a.AccuracyPercentage = int(math.Round(100 * float64(a.TotalCorrect) / float64(a.TotalQuestions)))
		a.AvgTimePerQuestion = totalTime / float64(a.TotalQuestions)
	}

	a.ImprovementTrend = improvementTrend(attempts)
	a.Strengths, a.WeakAreas = classifyAreas(a.ByGameType)
	return a
}

// improvementTrend splits the attempts at the midpoint and compares
// half-accuracies. Fewer than 5 attempts is insufficient data.
func improvementTrend(attempts []AttemptRecord) Trend {
	if len(attempts) < trendMinAttempts {
		return TrendInsufficientData
	}

	ordered := make([]AttemptRecord, len(attempts))
	copy(ordered, attempts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	mid := len(ordered) / 2
	first := accuracyOf(ordered[:mid])
	second := accuracyOf(ordered[mid:])

	switch {
	case second-first > trendDelta:
		return TrendImproving
	case first-second > trendDelta:
		return TrendDeclining
	}
	return TrendStable
}

func accuracyOf(attempts []AttemptRecord) float64 {
	if len(attempts) == 0 {
		return 0
	}
	correct := 0
	for _, a := range attempts {
		if a.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(attempts))
}

// classifyAreas lists up to 3 strong (accuracy >= 0.8) and up to 3 weak
// (accuracy < 0.6) game types, in the fixed game-type order.
func classifyAreas(byType map[string]GameTypeStats) (strengths, weak []string) {
	for _, gt := range questiongen.AllGameTypes() {
		st, ok := byType[string(gt)]
		if !ok || st.Questions == 0 {
			continue
		}
		acc := float64(st.Correct) / float64(st.Questions)
		if acc >= strengthAccuracy && len(strengths) < maxListedAreas {
			strengths = append(strengths, string(gt))
		}
		if acc < weakAccuracy && len(weak) < maxListedAreas {
			weak = append(weak, string(gt))
		}
	}
	return strengths, weak
}
