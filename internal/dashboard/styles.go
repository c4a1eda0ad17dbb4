package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/llamabar/internal/ui"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorBorder).
			Padding(0, 1).
			MarginBottom(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ui.ColorAccent)

	ModelNameStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary)

	MessageStyle = lipgloss.NewStyle().
			Foreground(ui.ColorStarting).
			Padding(0, 1)
)
