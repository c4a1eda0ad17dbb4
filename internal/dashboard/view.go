package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/rileyhilliard/llamabar/internal/state"
	"github.com/rileyhilliard/llamabar/internal/ui"
)

const defaultWidth = 80

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if !m.ready {
		b.WriteString(LabelStyle.Render(m.spinner.View() + " polling llama-swap..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderModels())
		b.WriteString(m.renderSystem())
	}

	if m.message != "" {
		b.WriteString(MessageStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the status line and service summary.
func (m Model) renderHeader() string {
	f := m.frame
	title := lipgloss.NewStyle().Foreground(ui.ColorAccent).Bold(true).Render("llamabar")

	status := ui.StatusStyle(f.Display).Render(ui.SymbolDot + " " + f.Display.StatusMessage())
	if f.Display == state.AgentStartingUp || f.Display == state.ModelLoading {
		status = m.spinner.View() + " " + status
	}

	detail := fmt.Sprintf(" | %s | polling %s (%s)", f.Service.Summary(), f.Mode, f.Interval)
	if f.Service.PID > 0 {
		detail += fmt.Sprintf(" | pid %d", f.Service.PID)
	}
	if f.ErrorCount > 0 {
		detail += fmt.Sprintf(" | %d API errors", f.ErrorCount)
	}

	return HeaderStyle.Render(title+"  "+status) + LabelStyle.Render(detail)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// renderModels renders one card per model, live models first.
func (m Model) renderModels() string {
	if len(m.frame.Models) == 0 {
		return LabelStyle.Render("No models loaded") + "\n\n"
	}

	width := m.contentWidth() - 4
	graphWidth := width - 30
	if graphWidth < 10 {
		graphWidth = 10
	}

	var cards []string
	for i, row := range m.frame.Models {
		style := CardStyle
		if i == m.selected {
			style = CardSelectedStyle
		}
		cards = append(cards, style.Width(width).Render(renderModelCard(row, graphWidth)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...) + "\n"
}

func renderModelCard(row modelRow, graphWidth int) string {
	var lines []string

	name := ModelNameStyle.Render(row.Name)
	if row.Live {
		name += " " + lipgloss.NewStyle().Foreground(modelColor(row.State)).Render(row.State.String())
		name += LabelStyle.Render(" · " + row.Queue)
	} else {
		name += LabelStyle.Render(" " + ui.SymbolPending + " unloaded")
	}
	lines = append(lines, name)

	if len(row.TPS) > 0 {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			LabelStyle.Render(fmt.Sprintf("%-8s", "gen")),
			ValueStyle.Render(fmt.Sprintf("%8.1f tok/s", row.TPS[len(row.TPS)-1])),
			ui.RenderSparkline(row.TPS, graphWidth, ui.ColorTPS)))
	}
	if len(row.Prompt) > 0 {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			LabelStyle.Render(fmt.Sprintf("%-8s", "prompt")),
			ValueStyle.Render(fmt.Sprintf("%8.1f tok/s", row.Prompt[len(row.Prompt)-1])),
			ui.RenderSparkline(row.Prompt, graphWidth, ui.ColorPrompt)))
	}
	if row.Stats.Count > 0 {
		lines = append(lines, LabelStyle.Render(fmt.Sprintf("mean %.1f  min %.1f  max %.1f  σ %.1f  %s",
			row.Stats.Mean, row.Stats.Min, row.Stats.Max, row.Stats.StdDev, row.Context)))
	}
	if len(row.Memory) > 0 {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			LabelStyle.Render(fmt.Sprintf("%-8s", "memory")),
			ValueStyle.Render(fmt.Sprintf("%14s", formatMB(row.Memory[len(row.Memory)-1]))),
			ui.RenderSparkline(row.Memory, graphWidth, ui.ColorMemory)))
	} else if row.MemMB > 0 {
		lines = append(lines, LabelStyle.Render("memory ")+ValueStyle.Render(formatMB(row.MemMB)))
	}
	return strings.Join(lines, "\n")
}

func modelColor(s metrics.ModelState) lipgloss.Color {
	switch s {
	case metrics.ModelRunning:
		return ui.ColorReady
	case metrics.ModelLoading:
		return ui.ColorStarting
	default:
		return ui.ColorIdle
	}
}

// renderSystem renders host CPU and memory with sparklines.
func (m Model) renderSystem() string {
	f := m.frame
	if !f.HasSystem {
		return ""
	}
	graphWidth := m.contentWidth() - 34
	if graphWidth < 10 {
		graphWidth = 10
	}

	cpu := f.CPU[len(f.CPU)-1]
	var memPct float64
	if len(f.MemPct) > 0 {
		memPct = f.MemPct[len(f.MemPct)-1]
	}

	lines := []string{
		ModelNameStyle.Render("System"),
		fmt.Sprintf("%s %s %s",
			LabelStyle.Render(fmt.Sprintf("%-8s", "cpu")),
			ValueStyle.Render(fmt.Sprintf("%6.1f%%", cpu)),
			ui.RenderPercentSparkline(f.CPU, graphWidth)),
		fmt.Sprintf("%s %s %s",
			LabelStyle.Render(fmt.Sprintf("%-8s", "memory")),
			ValueStyle.Render(fmt.Sprintf("%6.1f%%", memPct)),
			ui.RenderPercentSparkline(f.MemPct, graphWidth)),
		LabelStyle.Render(fmt.Sprintf("used %.1f GB · llama %s", f.MemGB, formatMB(f.LlamaMB))),
	}
	return CardStyle.Width(m.contentWidth()-4).Render(strings.Join(lines, "\n")) + "\n"
}

// renderFooter renders the keyboard hints and time since the last poll.
func (m Model) renderFooter() string {
	hints := []string{"q quit", "r refresh", "s start", "x stop", "R restart", "? help"}
	if m.ready {
		hints = append(hints, "updated "+formatAge(time.Since(m.frame.Time)))
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

func formatAge(d time.Duration) string {
	secs := int(d / time.Second)
	switch secs {
	case 0:
		return "just now"
	case 1:
		return "1s ago"
	default:
		return fmt.Sprintf("%ds ago", secs)
	}
}

func formatMB(mb float64) string {
	if mb >= 1024 {
		return fmt.Sprintf("%.1f GB", mb/1024)
	}
	return fmt.Sprintf("%.0f MB", mb)
}
