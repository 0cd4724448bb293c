package questiongen

// VisualKind tags the variant of a visual descriptor.
type VisualKind string

const (
	VisualAddition       VisualKind = "addition_visual"
	VisualSubtraction    VisualKind = "subtraction_visual"
	VisualMultiplication VisualKind = "multiplication_visual"
	VisualAnalogClock    VisualKind = "analog_clock"
	VisualPattern        VisualKind = "pattern_visual"
	VisualShape          VisualKind = "shape_visual"
)

// KnownVisualKind reports whether k is one of the renderer-understood tags.
// Replayed outbox payloads carrying any other tag are rejected.
func KnownVisualKind(k VisualKind) bool {
	switch k {
	case VisualAddition, VisualSubtraction, VisualMultiplication,
		VisualAnalogClock, VisualPattern, VisualShape:
		return true
	}
	return false
}

// Visual is a tagged descriptor the renderer draws. Exactly one of the
// variant fields is populated, selected by Kind.
type Visual struct {
	Kind VisualKind `json:"kind"`

	// Items is used by the three arithmetic variants and shape_visual.
	Items []VisualItem `json:"items,omitempty"`

	// Clock is used by analog_clock.
	Clock *ClockFace `json:"clock,omitempty"`

	// Pattern is used by pattern_visual.
	Pattern *PatternStrip `json:"pattern,omitempty"`
}

// VisualItem is one element of an item list. Kind selects which fields the
// renderer reads: "group" (Count, Color, Strikethrough), "operator" (Symbol),
// "placeholder" (Text), "grid" (Rows, Cols, Color), "shape" (Shape),
// "shape_group" (Label, Shapes).
type VisualItem struct {
	Kind          string   `json:"kind"`
	Count         int      `json:"count,omitempty"`
	Color         string   `json:"color,omitempty"`
	Strikethrough bool     `json:"strikethrough,omitempty"`
	Symbol        string   `json:"symbol,omitempty"`
	Text          string   `json:"text,omitempty"`
	Rows          int      `json:"rows,omitempty"`
	Cols          int      `json:"cols,omitempty"`
	Shape         string   `json:"shape,omitempty"`
	Label         string   `json:"label,omitempty"`
	Shapes        []string `json:"shapes,omitempty"`
}

// ClockFace describes an analog clock. Angles are degrees clockwise from 12.
type ClockFace struct {
	Hour        int     `json:"hour"`
	Minute      int     `json:"minute"`
	HourAngle   float64 `json:"hourAngle"`
	MinuteAngle float64 `json:"minuteAngle"`
	Numbers     []int   `json:"numbers"`
}

// PatternStrip describes the visible part of a pattern sequence.
type PatternStrip struct {
	Kind     string   `json:"kind"` // number | shape | color
	Sequence []string `json:"sequence"`
}

// clockNumbers returns the dial labels starting at 12.
func clockNumbers() []int {
	return []int{12, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
}
