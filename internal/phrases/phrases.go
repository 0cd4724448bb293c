// Package phrases produces encouragement strings. Nothing here is
// load-bearing: a phrase is picked once per graded answer and the renderer
// may do what it likes with it. The generator keeps a small usage window so
// the same phrase does not repeat back to back; the window lives on the
// instance, not in a package global.
package phrases

import "math/rand/v2"

const noRepeatWindow = 3

var correctPhrases = []string{
	"Great job!",
	"You got it!",
	"Amazing work!",
	"Fantastic!",
	"You're a star!",
	"Wonderful!",
	"Super smart!",
}

var streakPhrases = []string{
	"You're on fire!",
	"What a streak!",
	"Unstoppable!",
	"Keep it rolling!",
}

var tryAgainPhrases = []string{
	"Good try!",
	"Almost there!",
	"Nice thinking, let's try the next one!",
	"Every try makes you stronger!",
	"Keep going, you can do it!",
}

// Generator picks phrases from fixed pools with a no-repeat window.
type Generator struct {
	rng    *rand.Rand
	recent []string
}

// New creates a phrase generator over the given random source.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Encourage returns a phrase for a graded answer. Streaks of three or more
// correct answers draw from the streak pool.
func (g *Generator) Encourage(correct bool, streak int) string {
	pool := tryAgainPhrases
	if correct {
		pool = correctPhrases
		if streak >= 3 {
			pool = streakPhrases
		}
	}
	return g.pickFresh(pool)
}

// pickFresh avoids the last few used phrases when the pool allows it.
func (g *Generator) pickFresh(pool []string) string {
	for tries := 0; tries < 8; tries++ {
		candidate := pool[g.rng.IntN(len(pool))]
		if !g.usedRecently(candidate) {
			g.remember(candidate)
			return candidate
		}
	}
	candidate := pool[g.rng.IntN(len(pool))]
	g.remember(candidate)
	return candidate
}

func (g *Generator) usedRecently(phrase string) bool {
	for _, p := range g.recent {
		if p == phrase {
			return true
		}
	}
	return false
}

func (g *Generator) remember(phrase string) {
	g.recent = append(g.recent, phrase)
	if len(g.recent) > noRepeatWindow {
		g.recent = g.recent[len(g.recent)-noRepeatWindow:]
	}
}
