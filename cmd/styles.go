package cmd

import "charm.land/lipgloss/v2"

// Color palette — kid-friendly, bright but not garish
var (
	colorPrimary = lipgloss.Color("#8B5CF6") // Vivid Purple
	colorSuccess = lipgloss.Color("#22C55E") // Green
	colorError   = lipgloss.Color("#F43F5E") // Rose
	colorAccent  = lipgloss.Color("#F97316") // Orange
	colorDim     = lipgloss.Color("#94A3B8") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	promptStyle = lipgloss.NewStyle().
			Bold(true)

	correctStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	wrongStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorAccent)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
