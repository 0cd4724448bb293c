package phrases

import (
	"math/rand/v2"
	"testing"
)

func newTestGenerator() *Generator {
	return New(rand.New(rand.NewPCG(11, 0)))
}

func TestEncouragePoolSelection(t *testing.T) {
	g := newTestGenerator()

	inPool := func(phrase string, pool []string) bool {
		for _, p := range pool {
			if p == phrase {
				return true
			}
		}
		return false
	}

	for i := 0; i < 20; i++ {
		if p := g.Encourage(true, 1); !inPool(p, correctPhrases) {
			t.Errorf("correct answer phrase %q not from correct pool", p)
		}
		if p := g.Encourage(true, 3); !inPool(p, streakPhrases) {
			t.Errorf("streak phrase %q not from streak pool", p)
		}
		if p := g.Encourage(false, 0); !inPool(p, tryAgainPhrases) {
			t.Errorf("miss phrase %q not from try-again pool", p)
		}
	}
}

func TestRecentWindowTracksAndTrims(t *testing.T) {
	g := newTestGenerator()

	g.remember("a")
	g.remember("b")
	g.remember("c")
	if !g.usedRecently("a") || !g.usedRecently("c") {
		t.Fatal("recent phrases not tracked")
	}

	g.remember("d")
	if g.usedRecently("a") {
		t.Error("oldest phrase should have aged out of the window")
	}
	if !g.usedRecently("b") || !g.usedRecently("d") {
		t.Error("window lost a phrase it should still hold")
	}
}

func TestPickFreshAvoidsRecent(t *testing.T) {
	g := newTestGenerator()
	pool := []string{"x", "y"}

	g.remember("x")
	// With "x" recent and 8 retries against a 2-phrase pool, a fresh draw
	// is overwhelmingly "y"; a deterministic seed pins the outcome.
	if got := g.pickFresh(pool); got != "y" {
		t.Errorf("got %q, want y", got)
	}
}

func TestSmallPoolStillReturns(t *testing.T) {
	g := newTestGenerator()

	// Streak pool is smaller than the no-repeat window; draws must still
	// succeed once the window saturates.
	for i := 0; i < 30; i++ {
		if p := g.Encourage(true, 5); p == "" {
			t.Fatal("empty phrase from streak pool")
		}
	}
}
