package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all the lipgloss styles for the TUI.
type Styles struct {
	// Layout
	App       lipgloss.Style
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Separator lipgloss.Style

	// Previews
	PreviewHeader lipgloss.Style
	PreviewEmpty  lipgloss.Style

	// Measurements
	PhaseInit     lipgloss.Style
	PhaseSchedule lipgloss.Style
	PhaseFlush    lipgloss.Style
	PhaseError    lipgloss.Style

	// Misc
	Muted   lipgloss.Style
	Warning lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle(),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1).
			Bold(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		PreviewHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("240")).
			Padding(0, 1),
		PreviewEmpty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true),

		PhaseInit: lipgloss.NewStyle().
			Foreground(lipgloss.Color("71")), // Muted green
		PhaseSchedule: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		PhaseFlush: lipgloss.NewStyle().
			Foreground(lipgloss.Color("74")), // Muted cyan
		PhaseError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
	}
}
