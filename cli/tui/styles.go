// Package tui provides the Bubble Tea views of the arenaviz CLI: the
// replay player and the opt-in --tui views of inspect and stats.
//
// TUI views are read-only and render the same payloads as the json, yaml
// and table output.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	successColor   = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	highlightColor = lipgloss.Color("#3B82F6") // Blue

	team1Color = lipgloss.Color("#2563EB")
	team2Color = lipgloss.Color("#DC2626")
	coinColor  = lipgloss.Color("#EAB308")
)

// Styles for TUI components.
var (
	// TitleStyle for headers and titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// LabelStyle for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(18)

	// ValueStyle for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// WarningStyle for counters that indicate dropped input.
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// BoxStyle for bordered containers.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// StatBoxStyle for stat display boxes.
	StatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlightColor).
			Padding(0, 2).
			Width(20).
			Align(lipgloss.Center)

	// StatLabelStyle for stat labels.
	StatLabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Align(lipgloss.Center)

	// StatValueStyle for stat values.
	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Align(lipgloss.Center)
)

// TeamStyle returns the foreground style of a team. Any team other than 1
// is drawn as team 2.
func TeamStyle(team int) lipgloss.Style {
	if team == 1 {
		return lipgloss.NewStyle().Bold(true).Foreground(team1Color)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(team2Color)
}

// CountStyle highlights non-zero drop counters.
func CountStyle(n int64) lipgloss.Style {
	if n > 0 {
		return WarningStyle
	}
	return ValueStyle
}
