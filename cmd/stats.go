package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"sproutmath/internal/recorder"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		window, _ := cmd.Flags().GetString("window")

		eng, err := buildEngine(ctx, cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		a, err := eng.Recorder.GetAnalytics(ctx, window)
		if err != nil {
			return err
		}
		printAnalytics(a)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("window", "7d", "Analytics window: 7d or 30d")
}

func printAnalytics(a *recorder.Analytics) {
	fmt.Println(titleStyle.Render("Progress (last " + strings.TrimSuffix(a.Window, "d") + " days)"))
	fmt.Printf("Sessions: %d   Questions: %d   Accuracy: %d%%   Avg time: %.1fs\n",
		a.TotalSessions, a.TotalQuestions, a.AccuracyPercentage, a.AvgTimePerQuestion)
	fmt.Println(dimStyle.Render("Trend: " + string(a.ImprovementTrend)))
	fmt.Println()

	if len(a.ByGameType) > 0 {
		games := make([]string, 0, len(a.ByGameType))
		for g := range a.ByGameType {
			games = append(games, g)
		}
		sort.Strings(games)
		for _, g := range games {
			st := a.ByGameType[g]
			acc := 0
			if st.Questions > 0 {
				acc = st.Correct * 100 / st.Questions
			}
			fmt.Printf("  %-12s %d sessions, %d questions, %d%% correct\n",
				g, st.Sessions, st.Questions, acc)
		}
		fmt.Println()
	}

	if len(a.Strengths) > 0 {
		fmt.Println(correctStyle.Render("Strengths: " + strings.Join(a.Strengths, ", ")))
	}
	if len(a.WeakAreas) > 0 {
		fmt.Println(hintStyle.Render("Practice more: " + strings.Join(a.WeakAreas, ", ")))
	}
}
