package questiongen

import (
	"fmt"
	"strconv"
)

// pattern generates a sequence-completion question. The subtype is chosen
// uniformly among number, shape and color.
func (f *Factory) pattern(d Difficulty) *Question {
	switch f.rng.IntN(3) {
	case 0:
		return f.numberPattern(d)
	case 1:
		return f.symbolPattern(d, "shape", shapePool)
	default:
		return f.symbolPattern(d, "color", colorPool)
	}
}

// numberPattern emits an arithmetic progression of four terms; the learner
// supplies the fifth. Hard patterns may descend, in which case the start is
// pushed high enough that the hidden term stays positive.
func (f *Factory) numberPattern(d Difficulty) *Question {
	diff := pick(f.rng, numberDiffs[d])
	descending := d == Hard && f.rng.IntN(2) == 0

	start := f.intBetween(1, 20)
	if descending {
		diff = -diff
		start = f.intBetween(-patternLength*diff+1, -patternLength*diff+20)
	}

	seq := make([]int, patternLength)
	for i := range seq {
		seq[i] = start + i*diff
	}
	answer := start + patternLength*diff

	strip := make([]string, patternLength)
	for i, n := range seq {
		strip[i] = strconv.Itoa(n)
	}

	direction := "up"
	if descending {
		direction = "down"
	}
	step := diff
	if step < 0 {
		step = -step
	}

	return &Question{
		Type:       GamePatterns,
		Subtype:    "number",
		Difficulty: d,
		Prompt:     fmt.Sprintf("What number comes next? %s, ...", joinStrip(strip)),
		Answer:     strconv.Itoa(answer),
		AnswerKind: AnswerNumber,
		Options:    f.numberPatternOptions(answer, step),
		Visual: &Visual{
			Kind:    VisualPattern,
			Pattern: &PatternStrip{Kind: "number", Sequence: strip},
		},
		Hints: []string{
			"Look at how much the numbers change each time.",
			fmt.Sprintf("Each number goes %s by %d.", direction, step),
			fmt.Sprintf("After %s comes %d.", strip[patternLength-1], answer),
		},
		Explanation: fmt.Sprintf("The pattern goes %s by %d each time, so after %s comes %d.", direction, step, strip[patternLength-1], answer),
	}
}

// numberPatternOptions builds distractors from the arithmetic vicinity of
// the true next element.
func (f *Factory) numberPatternOptions(answer, step int) []string {
	candidates := []int{answer + step, answer - step, answer + 1, answer - 1, answer + 2, answer - 2}

	opts := []string{strconv.Itoa(answer)}
	seen := map[int]bool{answer: true}
	for _, c := range sample(f.rng, candidates, len(candidates)) {
		if len(opts) == optionCount {
			break
		}
		if c <= 0 || seen[c] {
			continue
		}
		seen[c] = true
		opts = append(opts, strconv.Itoa(c))
	}
	// Vicinity candidates can collide when step is small; widen until full.
	for widen := 3; len(opts) < optionCount; widen++ {
		c := answer + widen
		if !seen[c] {
			seen[c] = true
			opts = append(opts, strconv.Itoa(c))
		}
	}

	shuffle(f.rng, opts)
	return opts
}

// symbolPattern emits a cyclic pattern with period 2 or 3 over a small
// alphabet drawn from the global pool. Distractors come from the full pool,
// so even a two-symbol alphabet yields four distinct options.
func (f *Factory) symbolPattern(d Difficulty, kind string, pool []string) *Question {
	size := alphabetSize[d]
	alphabet := sample(f.rng, pool, size)

	period := 2
	if size >= 3 && f.rng.IntN(2) == 0 {
		period = 3
	}

	strip := make([]string, patternLength)
	for i := range strip {
		strip[i] = alphabet[i%period]
	}
	answer := alphabet[patternLength%period]

	return &Question{
		Type:       GamePatterns,
		Subtype:    kind,
		Difficulty: d,
		Prompt:     fmt.Sprintf("Which %s comes next? %s, ...", kind, joinStrip(strip)),
		Answer:     answer,
		AnswerKind: AnswerText,
		Options:    textOptions(f.rng, answer, pool),
		Visual: &Visual{
			Kind:    VisualPattern,
			Pattern: &PatternStrip{Kind: kind, Sequence: strip},
		},
		Hints: []string{
			"Say the pattern out loud and listen for the repeat.",
			fmt.Sprintf("The pattern repeats every %d steps.", period),
			fmt.Sprintf("After %s the pattern starts again with %s.", strip[patternLength-1], answer),
		},
		Explanation: fmt.Sprintf("The pattern repeats every %d steps, so the next %s is %s.", period, kind, answer),
	}
}

func joinStrip(strip []string) string {
	out := ""
	for i, s := range strip {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
