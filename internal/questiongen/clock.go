package questiongen

import "fmt"

const clockPrompt = "What time does this clock show?"

// clockReading generates an analog-clock question. The hour is uniform in
// 1..12; the minute is drawn from the difficulty's valid steps.
func (f *Factory) clockReading(d Difficulty) *Question {
	hour := f.intBetween(1, 12)
	minute := pick(f.rng, minuteSteps[d])
	return f.clockQuestion(d, hour, minute)
}

// clockQuestion builds the question for a fixed hour and minute. Split out
// so tests can pin the time.
func (f *Factory) clockQuestion(d Difficulty, hour, minute int) *Question {
	answer := canonicalTime(hour, minute)

	return &Question{
		Type:        GameTime,
		Subtype:     clockSubtype(minute),
		Difficulty:  d,
		Prompt:      clockPrompt,
		Answer:      answer,
		AnswerKind:  AnswerText,
		Options:     f.clockOptions(d, hour, minute),
		Visual:      clockVisual(hour, minute),
		Hints:       clockHints(hour, minute),
		Explanation: clockExplanation(hour, minute, answer),
	}
}

// clockOptions perturbs the hour by ±1 or the minute by one adjacent step to
// build distractors. At easy difficulty the minute is always 0, so the pool
// is extended with hour±2 and minute±30 to guarantee three distinct
// distractors.
func (f *Factory) clockOptions(d Difficulty, hour, minute int) []string {
	step := 15
	if d != Hard {
		step = 30
	}

	candidates := []string{
		canonicalTime(wrapHour(hour+1), minute),
		canonicalTime(wrapHour(hour-1), minute),
		canonicalTime(hour, wrapMinute(minute+step)),
		canonicalTime(hour, wrapMinute(minute-step)),
		canonicalTime(wrapHour(hour+2), minute),
		canonicalTime(wrapHour(hour-2), minute),
	}

	correct := canonicalTime(hour, minute)
	opts := []string{correct}
	seen := map[string]bool{correct: true}
	for _, c := range sample(f.rng, candidates, len(candidates)) {
		if len(opts) == optionCount {
			break
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		opts = append(opts, c)
	}

	shuffle(f.rng, opts)
	return opts
}

// clockVisual carries the hand angles: the hour hand moves half a degree per
// minute, the minute hand six degrees per minute.
func clockVisual(hour, minute int) *Visual {
	return &Visual{
		Kind: VisualAnalogClock,
		Clock: &ClockFace{
			Hour:        hour,
			Minute:      minute,
			HourAngle:   30*float64(hour%12) + 0.5*float64(minute),
			MinuteAngle: 6 * float64(minute),
			Numbers:     clockNumbers(),
		},
	}
}

func canonicalTime(hour, minute int) string {
	return fmt.Sprintf("%d:%02d", hour, minute)
}

func wrapHour(h int) int {
	h = ((h - 1) % 12 + 12) % 12
	return h + 1
}

func wrapMinute(m int) int {
	return (m%60 + 60) % 60
}

func clockSubtype(minute int) string {
	switch minute {
	case 0:
		return "o-clock"
	case 30:
		return "half-hour"
	default:
		return "quarter-hour"
	}
}

func clockHints(hour, minute int) []string {
	return []string{
		"Look at the short hand first. It tells the hour.",
		fmt.Sprintf("The short hand points near %d.", hour),
		fmt.Sprintf("The short hand shows %d and the long hand shows %02d minutes.", hour, minute),
	}
}

func clockExplanation(hour, minute int, answer string) string {
	return fmt.Sprintf("The hour hand points at %d and the minute hand shows %d minutes, so the clock reads %s.", hour, minute, answer)
}
