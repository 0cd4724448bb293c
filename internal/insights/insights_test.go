package insights

import (
	"math/rand/v2"
	"strings"
	"testing"

	"sproutmath/internal/questiongen"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(5, 0))
}

func TestStrengthThresholds(t *testing.T) {
	tests := []struct {
		correct, attempts int
		wantFragment      string
	}{
		{10, 10, "superstar"},
		{9, 10, "superstar"},
		{8, 10, "Excellent"},
		{6, 10, "Good progress"},
		{5, 10, "Keep practicing"},
		{0, 10, "Keep practicing"},
	}
	for _, tt := range tests {
		s := Summarize(SessionStats{
			GameType: questiongen.GameArithmetic,
			Attempts: tt.attempts,
			Correct:  tt.correct,
			AvgTime:  10,
		}, nil, testRand())
		if !strings.Contains(s.Insights.Strength, tt.wantFragment) {
			t.Errorf("%d/%d: strength %q, want fragment %q",
				tt.correct, tt.attempts, s.Insights.Strength, tt.wantFragment)
		}
	}
}

func TestImprovementThresholds(t *testing.T) {
	slow := Summarize(SessionStats{Attempts: 10, Correct: 9, AvgTime: 35, GameType: questiongen.GameTime}, nil, testRand())
	if !strings.Contains(slow.Insights.Improvement, "instinct") {
		t.Errorf("slow session improvement %q", slow.Insights.Improvement)
	}

	rushed := Summarize(SessionStats{Attempts: 10, Correct: 4, AvgTime: 8, GameType: questiongen.GameTime}, nil, testRand())
	if !strings.Contains(rushed.Insights.Improvement, "Slow down") {
		t.Errorf("inaccurate session improvement %q", rushed.Insights.Improvement)
	}

	steady := Summarize(SessionStats{Attempts: 10, Correct: 8, AvgTime: 10, GameType: questiongen.GameTime}, nil, testRand())
	if !strings.Contains(steady.Insights.Improvement, "Keep it up") {
		t.Errorf("steady session improvement %q", steady.Insights.Improvement)
	}
}

func TestSuggestionNamesAnotherGame(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, 0))
		s := Summarize(SessionStats{
			GameType: questiongen.GamePatterns,
			Attempts: 5,
			Correct:  5,
			AvgTime:  10,
		}, nil, rng)
		if strings.Contains(s.Insights.Suggestion, string(questiongen.GamePatterns)) {
			t.Errorf("seed %d: suggestion repeats the played game: %q", seed, s.Insights.Suggestion)
		}
	}
}

func TestEarnedAchievements(t *testing.T) {
	tests := []struct {
		name  string
		stats SessionStats
		want  []string
	}{
		{
			"perfect fast streaky",
			SessionStats{Attempts: 10, Correct: 10, AvgTime: 8, LongestStreak: 10},
			[]string{AchievementPerfectGame, AchievementSpeedDemon, AchievementStreakMaster},
		},
		{
			"perfect but too few attempts",
			SessionStats{Attempts: 4, Correct: 4, AvgTime: 8, LongestStreak: 4},
			[]string{AchievementSpeedDemon},
		},
		{
			"fast but inaccurate",
			SessionStats{Attempts: 10, Correct: 7, AvgTime: 8, LongestStreak: 3},
			nil,
		},
		{
			"slow and perfect",
			SessionStats{Attempts: 10, Correct: 10, AvgTime: 20, LongestStreak: 10},
			[]string{AchievementPerfectGame, AchievementStreakMaster},
		},
		{
			"streak only",
			SessionStats{Attempts: 10, Correct: 6, AvgTime: 25, LongestStreak: 5},
			[]string{AchievementStreakMaster},
		},
		{
			"nothing earned",
			SessionStats{Attempts: 10, Correct: 5, AvgTime: 25, LongestStreak: 2},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EarnedAchievements(tt.stats)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestAccuracyEmptySession(t *testing.T) {
	if got := (SessionStats{}).Accuracy(); got != 0 {
		t.Errorf("empty session accuracy %v, want 0", got)
	}
}
