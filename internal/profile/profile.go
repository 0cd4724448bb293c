// Package profile holds the long-lived learner identity and settings.
// Profiles are mutated only through the recorder's UpdateProfile.
package profile

import "sproutmath/internal/questiongen"

// DifficultyPreference pins difficulty to a fixed level or lets the
// controller adapt it.
type DifficultyPreference string

const (
	PreferEasy     DifficultyPreference = "easy"
	PreferMedium   DifficultyPreference = "medium"
	PreferHard     DifficultyPreference = "hard"
	PreferAdaptive DifficultyPreference = "adaptive"
)

// Fixed returns the pinned level and true when the preference overrides
// adaptive adjustment.
func (p DifficultyPreference) Fixed() (questiongen.Difficulty, bool) {
	switch p {
	case PreferEasy:
		return questiongen.Easy, true
	case PreferMedium:
		return questiongen.Medium, true
	case PreferHard:
		return questiongen.Hard, true
	}
	return 0, false
}

// Settings are the user-adjustable knobs.
type Settings struct {
	SoundEnabled         bool                 `json:"sound_enabled"`
	DifficultyPreference DifficultyPreference `json:"difficulty_preference"`
	EncouragementLevel   string               `json:"encouragement_level"` // low | medium | high
	SaveProgress         bool                 `json:"save_progress"`
}

// DefaultSettings are applied to freshly created anonymous users.
func DefaultSettings() Settings {
	return Settings{
		SoundEnabled:         true,
		DifficultyPreference: PreferAdaptive,
		EncouragementLevel:   "medium",
		SaveProgress:         true,
	}
}

// UserProfile is the learner identity.
type UserProfile struct {
	ID          string   `json:"id"`
	AgeBucket   int      `json:"age_bucket"`  // one of 3..7
	Personality string   `json:"personality"` // adventurous | creative | scientific | magical
	Settings    Settings `json:"settings"`
}

// BaseDifficulty maps the age bucket to a starting level: ages 3-4 start
// easy, ages 5-7 start medium.
func (p *UserProfile) BaseDifficulty() questiongen.Difficulty {
	if p.AgeBucket <= 4 {
		return questiongen.Easy
	}
	return questiongen.Medium
}
