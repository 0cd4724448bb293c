package questiongen

import (
	"fmt"
	"strconv"
)

// shape generates an identify, count or sort question.
func (f *Factory) shape(d Difficulty) *Question {
	switch f.rng.IntN(3) {
	case 0:
		return f.shapeIdentify(d)
	case 1:
		return f.shapeCount(d)
	default:
		return f.shapeSort(d)
	}
}

// shapeIdentify shows one shape and asks for its name. The option pool grows
// with difficulty.
func (f *Factory) shapeIdentify(d Difficulty) *Question {
	pool := shapePool[:identifyPoolSize[d]]
	target := pick(f.rng, pool)

	return &Question{
		Type:       GameShapes,
		Subtype:    "identify",
		Difficulty: d,
		Prompt:     "What shape is this?",
		Answer:     target,
		AnswerKind: AnswerText,
		Options:    textOptions(f.rng, target, pool),
		Visual: &Visual{
			Kind:  VisualShape,
			Items: []VisualItem{{Kind: "shape", Shape: target}},
		},
		Hints: []string{
			"Count the sides and corners.",
			shapeClue(target),
			fmt.Sprintf("This shape is a %s.", target),
		},
		Explanation: fmt.Sprintf("The picture shows a %s: %s", target, shapeClue(target)),
	}
}

// shapeCount renders n copies of one shape and asks how many there are.
func (f *Factory) shapeCount(d Difficulty) *Question {
	shape := pick(f.rng, shapePool)
	n := f.intBetween(1, countMax[d])

	items := make([]VisualItem, n)
	for i := range items {
		items[i] = VisualItem{Kind: "shape", Shape: shape}
	}

	return &Question{
		Type:       GameShapes,
		Subtype:    "count",
		Difficulty: d,
		Prompt:     fmt.Sprintf("How many %ss do you see?", shape),
		Answer:     strconv.Itoa(n),
		AnswerKind: AnswerNumber,
		Options:    numericOptions(f.rng, n, 3),
		Visual:     &Visual{Kind: VisualShape, Items: items},
		Hints: []string{
			"Point at each one as you count.",
			"Count slowly, one at a time.",
			fmt.Sprintf("There are %d %ss.", n, shape),
		},
		Explanation: fmt.Sprintf("Counting each %s one at a time gives %d.", shape, n),
	}
}

// shapeSort shows four labeled groups; exactly one group holds matching
// shapes. The answer is that group's label.
func (f *Factory) shapeSort(d Difficulty) *Question {
	target := pick(f.rng, shapePool)
	matchIndex := f.rng.IntN(optionCount)

	labels := []string{"Group 1", "Group 2", "Group 3", "Group 4"}
	items := make([]VisualItem, optionCount)
	for i := range items {
		items[i] = VisualItem{
			Kind:   "shape_group",
			Label:  labels[i],
			Shapes: f.sortGroup(target, i == matchIndex),
		}
	}

	return &Question{
		Type:       GameShapes,
		Subtype:    "sort",
		Difficulty: d,
		Prompt:     fmt.Sprintf("Which group has only %ss?", target),
		Answer:     labels[matchIndex],
		AnswerKind: AnswerText,
		Options:    append([]string(nil), labels...),
		Visual:     &Visual{Kind: VisualShape, Items: items},
		Hints: []string{
			fmt.Sprintf("Look for the group where every shape is a %s.", target),
			"Check each group one by one.",
			fmt.Sprintf("%s has only %ss in it.", labels[matchIndex], target),
		},
		Explanation: fmt.Sprintf("%s is the only group where every shape is a %s.", labels[matchIndex], target),
	}
}

// sortGroup builds a group of three shapes. A matching group is all target;
// a mixed group always contains at least one non-target shape.
func (f *Factory) sortGroup(target string, matching bool) []string {
	const groupSize = 3
	group := make([]string, groupSize)
	if matching {
		for i := range group {
			group[i] = target
		}
		return group
	}

	others := make([]string, 0, len(shapePool)-1)
	for _, s := range shapePool {
		if s != target {
			others = append(others, s)
		}
	}
	for i := range group {
		group[i] = pick(f.rng, shapePool)
	}
	// Force at least one intruder so the group cannot accidentally match.
	group[f.rng.IntN(groupSize)] = pick(f.rng, others)
	return group
}

func shapeClue(shape string) string {
	clues := map[string]string{
		"circle":   "it is perfectly round with no corners.",
		"square":   "it has four equal sides and four corners.",
		"triangle": "it has three sides and three corners.",
		"star":     "it has five points sticking out.",
		"heart":    "it has two bumps on top and a point at the bottom.",
		"diamond":  "it looks like a square standing on one corner.",
	}
	return clues[shape]
}
