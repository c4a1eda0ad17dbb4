package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rileyhilliard/llamabar/internal/state"
)

// Status colors, matching the menu bar dot.
const (
	ColorBusy     lipgloss.Color = "#007AFF"
	ColorReady    lipgloss.Color = "#34C759"
	ColorStarting lipgloss.Color = "#FF9500"
	ColorIdle     lipgloss.Color = "#8E8E93"
	ColorError    lipgloss.Color = "#FF3B30"
)

// Series colors, matching the PNG sparklines.
const (
	ColorTPS    lipgloss.Color = "#00FF7F"
	ColorPrompt lipgloss.Color = "#FFD700"
	ColorMemory lipgloss.Color = "#00BFFF"
)

// Text colors for content hierarchy
const (
	ColorPrimary lipgloss.Color = "#FFFFFF"
	ColorMuted   lipgloss.Color = "#6B6B8D"
	ColorAccent  lipgloss.Color = "#BF40FF"
	ColorBorder  lipgloss.Color = "#2A2A4A"
)

// StatusColor maps a display state to its terminal colour.
func StatusColor(d state.DisplayState) lipgloss.Color {
	switch d.Color() {
	case state.ColorBlue:
		return ColorBusy
	case state.ColorGreen:
		return ColorReady
	case state.ColorYellow:
		return ColorStarting
	case state.ColorGrey:
		return ColorIdle
	default:
		return ColorError
	}
}

// StatusStyle renders text in a display state's colour.
func StatusStyle(d state.DisplayState) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(d)).Bold(true)
}

// DisableColors switches lipgloss to monochrome output.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
