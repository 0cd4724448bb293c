package questiongen

// Per-difficulty generation parameters. These tables are fixed content, not
// configuration: changing them changes what "easy" means.

type arithParams struct {
	ops        []string // allowed operations
	operandMax int      // addition/subtraction operands are 1..operandMax
	factorMax  int      // multiplication operands are 1..factorMax
	spread     int      // distractor offset range
}

var arithTable = map[Difficulty]arithParams{
	Easy:   {ops: []string{opAddition}, operandMax: 5, factorMax: 3, spread: 3},
	Medium: {ops: []string{opAddition, opSubtraction}, operandMax: 10, factorMax: 5, spread: 5},
	Hard:   {ops: []string{opAddition, opSubtraction, opMultiplication}, operandMax: 20, factorMax: 8, spread: 8},
}

// minuteSteps lists the valid minute values per difficulty.
var minuteSteps = map[Difficulty][]int{
	Easy:   {0},
	Medium: {0, 30},
	Hard:   {0, 15, 30, 45},
}

// numberDiffs lists the common differences for number patterns.
var numberDiffs = map[Difficulty][]int{
	Easy:   {1, 2},
	Medium: {2, 3, 5},
	Hard:   {2, 3, 5, 10},
}

// alphabetSize is the number of distinct symbols in shape/color patterns.
var alphabetSize = map[Difficulty]int{
	Easy:   2,
	Medium: 3,
	Hard:   4,
}

// identifyPoolSize is the number of shapes in play for identify questions.
var identifyPoolSize = map[Difficulty]int{
	Easy:   4,
	Medium: 5,
	Hard:   6,
}

// countMax is the highest object count for counting questions.
var countMax = map[Difficulty]int{
	Easy:   5,
	Medium: 7,
	Hard:   10,
}

// shapePool is the global shape vocabulary, easiest first. Identify pools
// and pattern alphabets are drawn from a prefix of this list.
var shapePool = []string{"circle", "square", "triangle", "star", "heart", "diamond"}

// colorPool is the global color vocabulary for color patterns and visuals.
var colorPool = []string{"red", "blue", "green", "yellow", "purple", "orange"}

// patternLength is the number of visible elements before the hidden one.
const patternLength = 4

// optionCount is the number of multiple-choice options per question.
const optionCount = 4
