package ui

import "github.com/charmbracelet/lipgloss"

// Chrome colours follow orb.DefaultPalette.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fb923c"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#7c2d12", Dark: "#fff7ed"})

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#c2410c", Dark: "#fdba74"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#57534e", Dark: "#fed7aa"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#a8a29e", Dark: "#78716c"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444"))
)
