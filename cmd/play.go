package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sproutmath/internal/questiongen"
	"sproutmath/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Start a practice session",
	Long: "Start a practice session. Games: arithmetic, time, patterns, shapes.\n" +
		"During the session type an answer, 'hint' for help, or 'quit' to stop early.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		game := string(questiongen.GameArithmetic)
		if len(args) > 0 {
			game = args[0]
		}
		gt, err := questiongen.ParseGameType(game)
		if err != nil {
			return err
		}
		questions, _ := cmd.Flags().GetInt("questions")

		eng, err := buildEngine(ctx, cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		machine := eng.NewMachine()
		_, first, err := machine.Start(ctx, eng.Profile.ID, gt, questions)
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("Let's practice " + string(gt) + "!"))
		fmt.Println(dimStyle.Render("Type an answer, 'hint' for help, or 'quit' to stop."))
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		current := first
		number := 1

		for current != nil {
			printQuestion(number, current)

			fmt.Print("> ")
			if !scanner.Scan() {
				return machine.Abort(ctx)
			}
			input := strings.TrimSpace(scanner.Text())

			switch strings.ToLower(input) {
			case "quit", "q":
				if err := machine.Abort(ctx); err != nil {
					return err
				}
				fmt.Println(dimStyle.Render("See you next time!"))
				return nil
			case "hint", "h":
				fmt.Println(hintStyle.Render("Hint: " + machine.Hint()))
				continue
			}

			result, err := machine.Submit(ctx, input)
			if err != nil {
				return err
			}

			if result.IsCorrect {
				fmt.Println(correctStyle.Render("✓ " + result.Feedback))
			} else {
				fmt.Println(wrongStyle.Render("✗ " + result.Feedback))
				fmt.Println(dimStyle.Render("The answer was " + result.CorrectAnswer + ". " + result.Explanation))
			}
			fmt.Println()

			if result.IsGameComplete {
				break
			}
			current = result.NextQuestion
			number++
		}

		summary, err := machine.Complete(ctx)
		if err != nil {
			return err
		}
		printSummary(summary)
		return nil
	},
}

func init() {
	playCmd.Flags().Int("questions", 0, "Number of questions in the session (default 10)")
}

func printQuestion(number int, q *questiongen.Question) {
	fmt.Printf("%s %s\n", dimStyle.Render(fmt.Sprintf("Q%d.", number)), promptStyle.Render(q.Prompt))
	if v := renderVisual(q.Visual); v != "" {
		fmt.Println("   " + v)
	}
	if q.HasOptions() {
		fmt.Println("   " + dimStyle.Render(strings.Join(q.Options, "   ")))
	}
}

func printSummary(s *session.Summary) {
	fmt.Println(titleStyle.Render("Session complete!"))
	fmt.Printf("You got %d out of %d right", s.Stats.QuestionsCorrect, s.Stats.QuestionsAttempted)
	if s.Stats.LongestStreak > 1 {
		fmt.Printf(" with a best streak of %d", s.Stats.LongestStreak)
	}
	fmt.Println(".")
	fmt.Println()
	fmt.Println(correctStyle.Render(s.Insights.Strength))
	fmt.Println(hintStyle.Render(s.Insights.Improvement))
	fmt.Println(dimStyle.Render(s.Insights.Suggestion))
	for _, name := range s.Achievements {
		fmt.Println(titleStyle.Render("★ Achievement: " + strings.ReplaceAll(name, "_", " ")))
	}
}

var shapeSymbols = map[string]string{
	"circle":   "●",
	"square":   "■",
	"triangle": "▲",
	"star":     "★",
	"heart":    "♥",
	"diamond":  "◆",
}

// renderVisual draws the visual descriptor as a single text line. A richer
// renderer lives on the other side of the JSON boundary; this is the
// terminal approximation.
func renderVisual(v *questiongen.Visual) string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case questiongen.VisualAddition, questiongen.VisualSubtraction,
		questiongen.VisualMultiplication, questiongen.VisualShape:
		return renderItems(v.Items)
	case questiongen.VisualAnalogClock:
		if v.Clock == nil {
			return ""
		}
		minuteDial := v.Clock.Minute / 5
		if minuteDial == 0 {
			minuteDial = 12
		}
		return fmt.Sprintf("🕒 hour hand near %d, minute hand on %d", v.Clock.Hour, minuteDial)
	case questiongen.VisualPattern:
		if v.Pattern == nil {
			return ""
		}
		return strings.Join(v.Pattern.Sequence, "  ") + "  ?"
	}
	return ""
}

func renderItems(items []questiongen.VisualItem) string {
	var parts []string
	for _, it := range items {
		switch it.Kind {
		case "group":
			dot := "●"
			if it.Strikethrough {
				dot = "○"
			}
			parts = append(parts, strings.TrimSpace(strings.Repeat(dot+" ", it.Count)))
		case "operator":
			parts = append(parts, it.Symbol)
		case "placeholder":
			parts = append(parts, it.Text)
		case "grid":
			row := strings.TrimSpace(strings.Repeat("● ", it.Cols))
			rows := make([]string, it.Rows)
			for i := range rows {
				rows[i] = row
			}
			parts = append(parts, strings.Join(rows, " / "))
		case "shape":
			if s, ok := shapeSymbols[it.Shape]; ok {
				parts = append(parts, s)
			} else {
				parts = append(parts, it.Shape)
			}
		case "shape_group":
			var syms []string
			for _, sh := range it.Shapes {
				if s, ok := shapeSymbols[sh]; ok {
					syms = append(syms, s)
				} else {
					syms = append(syms, sh)
				}
			}
			parts = append(parts, it.Label+": "+strings.Join(syms, " "))
		}
	}
	return strings.Join(parts, "  ")
}
