// Package adaptive resizes difficulty from recent accuracy and response
// time. The controller keeps a small per-game-type ring buffer that survives
// across sessions within one process; it is passed explicitly, never a
// package global.
package adaptive

import (
	"time"

	"sproutmath/internal/profile"
	"sproutmath/internal/questiongen"
)

// Decision thresholds over the last-5 window.
const (
	stepUpAccuracy   = 0.8
	stepUpMaxAvgTime = 20.0 // seconds
	stepDownAccuracy = 0.4
)

// Controller owns the rolling attempt history and the difficulty rule.
type Controller struct {
	pref      profile.DifficultyPreference
	base      questiongen.Difficulty
	histories map[questiongen.GameType]*history
	now       func() time.Time
}

// NewController derives the base difficulty from the profile's age bucket
// and honors a fixed difficulty preference as an override.
func NewController(p *profile.UserProfile) *Controller {
	return &Controller{
		pref:      p.Settings.DifficultyPreference,
		base:      p.BaseDifficulty(),
		histories: make(map[questiongen.GameType]*history),
		now:       time.Now,
	}
}

// InitialDifficulty returns the level a new session starts at.
func (c *Controller) InitialDifficulty(gt questiongen.GameType) questiongen.Difficulty {
	if fixed, ok := c.pref.Fixed(); ok {
		return fixed
	}
	return c.base
}

// Record appends an attempt outcome to the game type's ring buffer.
func (c *Controller) Record(gt questiongen.GameType, d questiongen.Difficulty, correct bool, timeSpent float64) {
	h := c.histories[gt]
	if h == nil {
		h = &history{}
		c.histories[gt] = h
	}
	h.add(Outcome{Difficulty: d, Correct: correct, TimeSpent: timeSpent, At: c.now()})
}

// Next returns the difficulty for the following question. Moves are one
// level at a time; a fixed preference pins the level entirely.
func (c *Controller) Next(gt questiongen.GameType, current questiongen.Difficulty) questiongen.Difficulty {
	if fixed, ok := c.pref.Fixed(); ok {
		return fixed
	}

	h := c.histories[gt]
	if h == nil {
		return current
	}
	w := h.window(decisionWindow)
	if len(w) < minSamples {
		return current
	}

	correct := 0
	totalTime := 0.0
	for _, o := range w {
		if o.Correct {
			correct++
		}
		totalTime += o.TimeSpent
	}
	acc := float64(correct) / float64(len(w))
	avgTime := totalTime / float64(len(w))

	switch {
	case acc >= stepUpAccuracy && avgTime < stepUpMaxAvgTime && current < questiongen.Hard:
		return current.StepUp()
	case acc <= stepDownAccuracy && current > questiongen.Easy:
		return current.StepDown()
	}
	return current
}

// HistoryLen reports how many outcomes are buffered for a game type.
func (c *Controller) HistoryLen(gt questiongen.GameType) int {
	if h := c.histories[gt]; h != nil {
		return len(h.entries)
	}
	return 0
}
