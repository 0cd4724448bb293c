package adaptive

import (
	"time"

	"sproutmath/internal/questiongen"
)

const (
	// HistoryCap is the per-game-type ring buffer capacity.
	HistoryCap = 20

	// decisionWindow is how many recent attempts the decision rule sees.
	decisionWindow = 5

	// minSamples is the minimum window size before the controller moves.
	minSamples = 3
)

// Outcome is one graded attempt as the controller sees it.
type Outcome struct {
	Difficulty questiongen.Difficulty
	Correct    bool
	TimeSpent  float64 // seconds
	At         time.Time
}

// history is a bounded FIFO of outcomes for one game type.
type history struct {
	entries []Outcome
}

// add appends an outcome, evicting the oldest entry past capacity.
func (h *history) add(o Outcome) {
	h.entries = append(h.entries, o)
	if len(h.entries) > HistoryCap {
		h.entries = h.entries[len(h.entries)-HistoryCap:]
	}
}

// window returns the last n entries (fewer if the buffer is short).
func (h *history) window(n int) []Outcome {
	if len(h.entries) <= n {
		return h.entries
	}
	return h.entries[len(h.entries)-n:]
}
