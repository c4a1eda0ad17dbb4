package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// RenderTable renders a non-interactive table for CLI output. Cells may
// already carry ANSI styling; widths are measured on visible text.
func RenderTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)

	var header strings.Builder
	for _, c := range columns {
		header.WriteString(padRight(c.Title, c.Width))
	}

	var output strings.Builder
	output.WriteString(headerStyle.Render(strings.TrimRight(header.String(), " ")))
	output.WriteString("\n")

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i < len(columns) {
				cell = padRight(cell, columns[i].Width)
			}
			line.WriteString(cell)
		}
		output.WriteString(strings.TrimRight(line.String(), " "))
		output.WriteString("\n")
	}
	return output.String()
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
