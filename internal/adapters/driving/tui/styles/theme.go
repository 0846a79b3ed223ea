// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Primary is the main accent colour, used for the active tab and selection.
	Primary lipgloss.Color

	// Secondary highlights times and labels.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for past meetings and hints.
	Muted lipgloss.Color

	// Ongoing marks meetings in progress.
	Ongoing lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#0F6CBD"), // Calendar blue
		Secondary:  lipgloss.Color("#4FC3F7"), // Sky
		Foreground: lipgloss.Color("#E6E6E6"),
		Muted:      lipgloss.Color("#7A7A7A"),
		Ongoing:    lipgloss.Color("#6CCB5F"), // Green
		Error:      lipgloss.Color("#F1707B"), // Red
		Border:     lipgloss.Color("#3D3D3D"),
		Bar:        lipgloss.Color("#1F1F1F"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the header.
	Title lipgloss.Style

	// Tab style for inactive period tabs.
	Tab lipgloss.Style

	// ActiveTab style for the selected period tab.
	ActiveTab lipgloss.Style

	// Time style for meeting times.
	Time lipgloss.Style

	// Label style for field names in the details view.
	Label lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for past meetings and hints.
	Muted lipgloss.Style

	// Selected style for the highlighted meeting.
	Selected lipgloss.Style

	// Ongoing style for meetings in progress.
	Ongoing lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// InputField style for the filter input.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary).
			Padding(0, 1),

		Time: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Ongoing: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Ongoing),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
