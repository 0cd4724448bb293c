package questiongen

import (
	"math/rand/v2"
	"strconv"
)

// numericOptions builds 4 shuffled options: the correct answer plus three
// distinct positive distractors at integer offsets within [-spread, spread].
// Zero offsets, non-positive values and duplicates are excluded, so every
// option is a distinct positive integer.
func numericOptions(rng *rand.Rand, correct, spread int) []string {
	seen := map[int]bool{correct: true}
	values := []int{correct}

	for len(values) < optionCount {
		off := rng.IntN(2*spread+1) - spread
		if off == 0 {
			continue
		}
		v := correct + off
		if v <= 0 || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}

	opts := make([]string, len(values))
	for i, v := range values {
		opts[i] = strconv.Itoa(v)
	}
	shuffle(rng, opts)
	return opts
}

// textOptions builds 4 shuffled options: the correct answer plus three
// distinct distractors drawn from pool.
func textOptions(rng *rand.Rand, correct string, pool []string) []string {
	opts := []string{correct}
	seen := map[string]bool{correct: true}

	for _, candidate := range sample(rng, pool, len(pool)) {
		if len(opts) == optionCount {
			break
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		opts = append(opts, candidate)
	}

	shuffle(rng, opts)
	return opts
}

// shuffle permutes opts in place.
func shuffle(rng *rand.Rand, opts []string) {
	rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
}
