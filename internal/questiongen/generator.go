package questiongen

import (
	"fmt"
	"math/rand/v2"
)

// Factory generates fully-specified questions for a difficulty level.
// Generators are pure aside from the injected random source, so a fixed
// seed reproduces the same question stream.
type Factory struct {
	rng *rand.Rand
}

// NewFactory creates a Factory over the given random source.
func NewFactory(rng *rand.Rand) *Factory {
	return &Factory{rng: rng}
}

// Generate produces one question of the given game type and difficulty.
func (f *Factory) Generate(gt GameType, d Difficulty) (*Question, error) {
	switch gt {
	case GameArithmetic:
		return f.arithmetic(d), nil
	case GameTime:
		return f.clockReading(d), nil
	case GamePatterns:
		return f.pattern(d), nil
	case GameShapes:
		return f.shape(d), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, gt)
}

// intBetween returns a uniform integer in [lo, hi].
func (f *Factory) intBetween(lo, hi int) int {
	return lo + f.rng.IntN(hi-lo+1)
}

// pick returns a uniform element of items.
func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// sample returns k distinct elements of items in random order.
func sample[T any](rng *rand.Rand, items []T, k int) []T {
	idx := rng.Perm(len(items))[:k]
	out := make([]T, k)
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}
