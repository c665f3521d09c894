package report

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Accent  = lipgloss.Color("#F97316") // Orange
	Error   = lipgloss.Color("#F43F5E") // Rose
	TextDim = lipgloss.Color("#94A3B8") // Slate
)

// Theme groups the styles used by the report. The plain theme carries no
// colors, only layout.
type Theme struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Number    lipgloss.Style
	Highlight lipgloss.Style
	Dim       lipgloss.Style
	Problem   lipgloss.Style
}

// Styled returns the colored theme.
func Styled() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Header:    lipgloss.NewStyle().Bold(true).Underline(true),
		Cell:      lipgloss.NewStyle(),
		Number:    lipgloss.NewStyle().Align(lipgloss.Right),
		Highlight: lipgloss.NewStyle().Align(lipgloss.Right).Bold(true).Foreground(Accent),
		Dim:       lipgloss.NewStyle().Foreground(TextDim),
		Problem:   lipgloss.NewStyle().Foreground(Error),
	}
}

// Plain returns a theme without colors or attributes.
func Plain() Theme {
	return Theme{
		Title:     lipgloss.NewStyle(),
		Header:    lipgloss.NewStyle(),
		Cell:      lipgloss.NewStyle(),
		Number:    lipgloss.NewStyle().Align(lipgloss.Right),
		Highlight: lipgloss.NewStyle().Align(lipgloss.Right),
		Dim:       lipgloss.NewStyle(),
		Problem:   lipgloss.NewStyle(),
	}
}
