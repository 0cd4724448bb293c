package questiongen

import (
	"fmt"
	"strconv"
)

const (
	opAddition       = "addition"
	opSubtraction    = "subtraction"
	opMultiplication = "multiplication"
)

// arithmetic generates an addition, subtraction or multiplication question.
// Subtraction is always big-minus-small so the answer is never negative, and
// equal operands are re-drawn so the answer (and therefore every option)
// stays positive.
func (f *Factory) arithmetic(d Difficulty) *Question {
	p := arithTable[d]
	op := pick(f.rng, p.ops)

	var a, b, answer int
	switch op {
	case opAddition:
		a = f.intBetween(1, p.operandMax)
		b = f.intBetween(1, p.operandMax)
		answer = a + b
	case opSubtraction:
		a = f.intBetween(1, p.operandMax)
		b = f.intBetween(1, p.operandMax)
		for b == a {
			b = f.intBetween(1, p.operandMax)
		}
		if b > a {
			a, b = b, a
		}
		answer = a - b
	case opMultiplication:
		a = f.intBetween(1, p.factorMax)
		b = f.intBetween(1, p.factorMax)
		answer = a * b
	}

	symbol := map[string]string{
		opAddition:       "+",
		opSubtraction:    "-",
		opMultiplication: "×",
	}[op]

	return &Question{
		Type:        GameArithmetic,
		Subtype:     op,
		Difficulty:  d,
		Prompt:      fmt.Sprintf("What is %d %s %d?", a, symbol, b),
		Answer:      strconv.Itoa(answer),
		AnswerKind:  AnswerNumber,
		Options:     numericOptions(f.rng, answer, p.spread),
		Visual:      f.arithmeticVisual(op, a, b),
		Hints:       arithmeticHints(op, a, b, answer),
		Explanation: arithmeticExplanation(op, a, b, answer, symbol),
	}
}

func (f *Factory) arithmeticVisual(op string, a, b int) *Visual {
	c1 := pick(f.rng, colorPool)
	c2 := pick(f.rng, colorPool)

	switch op {
	case opAddition:
		return &Visual{
			Kind: VisualAddition,
			Items: []VisualItem{
				{Kind: "group", Count: a, Color: c1},
				{Kind: "operator", Symbol: "+"},
				{Kind: "group", Count: b, Color: c2},
				{Kind: "operator", Symbol: "="},
				{Kind: "placeholder", Text: "?"},
			},
		}
	case opSubtraction:
		return &Visual{
			Kind: VisualSubtraction,
			Items: []VisualItem{
				{Kind: "group", Count: a, Color: c1},
				{Kind: "operator", Symbol: "-"},
				{Kind: "group", Count: b, Color: c1, Strikethrough: true},
				{Kind: "operator", Symbol: "="},
				{Kind: "placeholder", Text: "?"},
			},
		}
	default:
		return &Visual{
			Kind: VisualMultiplication,
			Items: []VisualItem{
				{Kind: "grid", Rows: a, Cols: b, Color: c1},
			},
		}
	}
}

func arithmeticHints(op string, a, b, answer int) []string {
	switch op {
	case opAddition:
		return []string{
			"Try counting all the objects together.",
			fmt.Sprintf("Start at %d and count up %d more.", a, b),
			fmt.Sprintf("%d and %d more makes %d.", a, b, answer),
		}
	case opSubtraction:
		return []string{
			"Take the smaller number away from the bigger one.",
			fmt.Sprintf("Start at %d and count down %d.", a, b),
			fmt.Sprintf("%d take away %d leaves %d.", a, b, answer),
		}
	default:
		return []string{
			fmt.Sprintf("Think of %d groups with %d in each group.", a, b),
			fmt.Sprintf("Add %d together %d times.", b, a),
			fmt.Sprintf("%d groups of %d makes %d.", a, b, answer),
		}
	}
}

func arithmeticExplanation(op string, a, b, answer int, symbol string) string {
	switch op {
	case opAddition:
		return fmt.Sprintf("%d %s %d = %d because adding %d to %d gives %d.", a, symbol, b, answer, b, a, answer)
	case opSubtraction:
		return fmt.Sprintf("%d %s %d = %d because taking %d away from %d leaves %d.", a, symbol, b, answer, b, a, answer)
	default:
		return fmt.Sprintf("%d %s %d = %d because %d groups of %d make %d.", a, symbol, b, answer, a, b, answer)
	}
}
