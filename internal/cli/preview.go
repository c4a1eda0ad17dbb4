package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/rileyhilliard/llamabar/internal/render"
	"github.com/rileyhilliard/llamabar/internal/ui"
)

var previewRaw bool

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render one menu frame in the terminal",
	Long: `Poll llama-swap once and print the menu SwiftBar would show.

By default the menu is indented and coloured for reading. --raw prints the
exact plugin output, base64 images included.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		p := a.plugin()
		p.LoadHistory()
		p.Update(cmd.Context())
		menu := p.Render()

		if previewRaw {
			cmd.Print(menu)
			return nil
		}

		cmd.Print(ui.RenderHeader(ui.HeaderInfo{
			Title:   "llamabar",
			Version: formatVersion(version),
			Detail:  fmt.Sprintf("%s · polling %s every %s", a.cfg.API.Endpoint(), p.Mode(), p.Interval()),
		}))
		cmd.Print(formatPreview(menu))
		if table := modelTable(p.Snapshot().Models); table != "" {
			cmd.Println()
			cmd.Print(table)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewRaw, "raw", false, "print the unformatted plugin output")
	rootCmd.AddCommand(previewCmd)
}

var (
	previewMuted  = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	previewBorder = lipgloss.NewStyle().Foreground(ui.ColorBorder)
	previewAccent = lipgloss.NewStyle().Foreground(ui.ColorAccent)
)

// formatPreview turns protocol lines into an indented outline. Images
// become markers and actions show the subcommand they run.
func formatPreview(menu string) string {
	var b strings.Builder
	for _, raw := range strings.Split(strings.TrimRight(menu, "\n"), "\n") {
		if raw == "" {
			continue
		}
		line := render.ParseLine(raw)
		indent := strings.Repeat("  ", line.Depth)

		if line.Separator {
			b.WriteString(indent)
			b.WriteString(previewBorder.Render(strings.Repeat("─", 30)))
			b.WriteString("\n")
			continue
		}

		text := line.Text
		if text == "" {
			if line.Params["image"] == "" {
				continue
			}
			text = "[icon]"
		}

		b.WriteString(indent)
		b.WriteString(colorStyle(line.Params["color"]).Render(text))
		if line.Params["image"] != "" && line.Text != "" {
			b.WriteString(" ")
			b.WriteString(previewMuted.Render("[chart]"))
		}
		if sub := line.Params["param1"]; sub != "" {
			b.WriteString(" ")
			b.WriteString(previewAccent.Render("→ " + sub))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// colorStyle maps a SwiftBar color value to a terminal style.
func colorStyle(c string) lipgloss.Style {
	switch {
	case c == "":
		return lipgloss.NewStyle()
	case c == "red":
		return lipgloss.NewStyle().Foreground(ui.ColorError)
	case strings.HasPrefix(c, "#"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	default:
		return lipgloss.NewStyle()
	}
}

// modelTable summarises live models in columns.
func modelTable(models []metrics.ModelMetrics) string {
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		mem := "-"
		if m.Metrics.MemoryMB > 0 {
			mem = fmt.Sprintf("%.0f MB", m.Metrics.MemoryMB)
		}
		rows = append(rows, []string{
			m.Name,
			m.State.String(),
			fmt.Sprintf("%.1f", m.Metrics.PredictedTokensPerSec),
			fmt.Sprintf("%.1f", m.Metrics.PromptTokensPerSec),
			m.Metrics.QueueStatus(),
			mem,
		})
	}
	return ui.RenderTable([]ui.TableColumn{
		{Title: "MODEL", Width: 28},
		{Title: "STATE", Width: 10},
		{Title: "GEN", Width: 8},
		{Title: "PROMPT", Width: 8},
		{Title: "QUEUE", Width: 14},
		{Title: "MEMORY", Width: 10},
	}, rows)
}
