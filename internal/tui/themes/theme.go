// Package themes holds the color palette and styles of the terminal UI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Tab           lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Primary       lipgloss.Color
	Income        lipgloss.Color
	Expense       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	ProgressEmpty lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary:       lipgloss.Color("#5636D3"),
	Income:        lipgloss.Color("#12A454"),
	Expense:       lipgloss.Color("#E83F5B"),
	Muted:         lipgloss.Color("#969CB2"),
	Border:        lipgloss.Color("#404040"),
	Foreground:    lipgloss.Color("#F0F2F5"),
	ProgressEmpty: lipgloss.Color("#363F5F"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F0F2F5")).
		Background(lipgloss.Color("#5636D3")).
		Padding(0, 2),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#969CB2")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F0F2F5")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F0F2F5")),
	Selected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F0F2F5")).
		Background(lipgloss.Color("#5636D3")).
		Padding(0, 2),
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#969CB2")).
		Padding(0, 2),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(1, 2),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E83F5B")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3D8BFD")).
		Italic(true),
}
