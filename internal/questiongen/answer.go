package questiongen

import (
	"strconv"
	"strings"
)

// Grade compares a user answer against the question's correct answer.
//
// Numeric answers: both sides are parsed as decimal numbers and compared
// exactly. Input that does not parse grades as incorrect rather than
// erroring; the attempt still counts.
//
// Text answers: both sides are trimmed and compared with Unicode case
// folding. No tolerant matching, no partial credit.
func Grade(userAnswer string, q *Question) bool {
	if q.AnswerKind == AnswerNumber {
		u, err := strconv.ParseFloat(strings.TrimSpace(userAnswer), 64)
		if err != nil {
			return false
		}
		c, err := strconv.ParseFloat(strings.TrimSpace(q.Answer), 64)
		if err != nil {
			return false
		}
		return u == c
	}

	return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(q.Answer))
}

// HintFor returns the hint for the given per-question attempt number,
// clamped to the most explicit hint.
func HintFor(q *Question, attemptNumber int) string {
	if len(q.Hints) == 0 {
		return ""
	}
	if attemptNumber < 0 {
		attemptNumber = 0
	}
	if attemptNumber >= len(q.Hints) {
		attemptNumber = len(q.Hints) - 1
	}
	return q.Hints[attemptNumber]
}
