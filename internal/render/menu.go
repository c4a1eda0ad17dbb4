package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/rileyhilliard/llamabar/internal/history"
	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/rileyhilliard/llamabar/internal/service"
	"github.com/rileyhilliard/llamabar/internal/state"
)

// Action subcommands wired into menu items.
const (
	ActionStart      = "do_start"
	ActionStop       = "do_stop"
	ActionRestart    = "do_restart"
	ActionInstall    = "do_install"
	ActionUninstall  = "do_uninstall"
	ActionOpenLogs   = "open_logs"
	ActionOpenConfig = "open_config"
)

const mutedColor = "#8e8e93"

// Snapshot is everything one frame needs.
type Snapshot struct {
	Display state.DisplayState
	Agent   state.AgentState
	Mode    state.PollingMode
	Service service.Status

	// Models is the latest successful poll; empty when the API is down.
	Models  []metrics.ModelMetrics
	History *history.Store

	// Executable is invoked by action items.
	Executable string

	ChartWidth  int
	ChartHeight int

	// ErrorCount is the number of consecutive failed API polls.
	ErrorCount int
}

// BuildMenu renders a full SwiftBar frame.
func BuildMenu(s Snapshot) string {
	var m Menu

	m.Add("").Image(imageData(StatusIcon(s.Display.Color())))
	m.Sep()

	m.Add(s.Display.StatusMessage()).Color(state.Hex(s.Display.Color()))
	m.AddAt(1, "Polling: "+s.Mode.String())
	m.AddAt(1, "Service: "+s.Service.Summary())
	if s.Service.PID > 0 {
		m.AddAt(1, fmt.Sprintf("PID: %d", s.Service.PID))
	}
	if s.ErrorCount > 0 {
		m.AddAt(1, fmt.Sprintf("API errors: %d", s.ErrorCount)).Color(state.Hex(state.ColorRed))
	}

	addControls(&m, s)
	addModels(&m, s)
	addSystem(&m, s)

	m.Sep()
	m.Add("Open Logs").Action(s.Executable, ActionOpenLogs)
	m.Add("Open Config").Action(s.Executable, ActionOpenConfig)
	m.Add("Refresh").Set("refresh", "true")

	return m.String()
}

// BuildErrorMenu is the fallback frame when the plugin itself fails.
func BuildErrorMenu(msg string) string {
	var m Menu
	m.Add("⚠️ Error")
	m.Sep()
	m.Add(msg).Color("red")
	return m.String()
}

func addControls(m *Menu, s Snapshot) {
	m.Sep()
	switch s.Agent {
	case state.AgentBinaryNotFound:
		m.Add("Cannot find llama-swap in $PATH").Color(state.Hex(state.ColorRed))
		m.Add("Install llama-swap binary first: brew install llama-swap").Color(mutedColor)
	case state.AgentPlistMissing:
		m.Add("Install Llama-Swap Service").Action(s.Executable, ActionInstall)
	case state.AgentStopped:
		m.Add("Start Llama-Swap").Action(s.Executable, ActionStart)
		m.AddAt(1, "Uninstall Service").Action(s.Executable, ActionUninstall)
	default:
		m.Add("Stop Llama-Swap").Action(s.Executable, ActionStop)
		m.Add("Restart Llama-Swap").Action(s.Executable, ActionRestart)
	}
}

func addModels(m *Menu, s Snapshot) {
	current := make(map[string]metrics.ModelMetrics, len(s.Models))
	for _, mm := range s.Models {
		current[mm.Name] = mm
	}

	names := modelNames(s)
	if len(names) == 0 {
		return
	}

	for _, name := range names {
		m.Sep()
		mm, live := current[name]
		if live {
			m.Add(fmt.Sprintf("%s · %s", name, mm.State)).Color(state.Hex(modelColor(mm.State)))
			m.Add("Queue: " + mm.Metrics.QueueStatus())
		} else {
			m.Add(name + " · unloaded").Color(mutedColor)
		}

		var h *history.ModelHistory
		if s.History != nil {
			h = s.History.Model(name)
		}
		if h == nil {
			continue
		}
		addSeries(m, s, "Gen", "tok/s", h.TPS, ColorTPSLine)
		addSeries(m, s, "Prompt", "tok/s", h.PromptTPS, ColorPromptLine)
		if st := h.MemoryMB.Stats(); st.Max > 0 {
			addSeries(m, s, "Memory", "MB", h.MemoryMB, ColorMemLine)
		}
	}
}

// modelNames lists live models first, in API order, then models that
// only remain in history.
func modelNames(s Snapshot) []string {
	seen := make(map[string]bool)
	var names []string
	for _, mm := range s.Models {
		if !seen[mm.Name] {
			seen[mm.Name] = true
			names = append(names, mm.Name)
		}
	}
	if s.History != nil {
		for _, name := range s.History.ModelNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func modelColor(ms metrics.ModelState) color.RGBA {
	switch ms {
	case metrics.ModelRunning:
		return state.ColorGreen
	case metrics.ModelLoading:
		return state.ColorYellow
	default:
		return state.ColorGrey
	}
}

// addSeries writes "<label>: <current> <unit>" with a sparkline and a
// stats submenu. Empty series are skipped.
func addSeries(m *Menu, s Snapshot, label, unit string, series *history.Series, c color.RGBA) {
	if series == nil || series.Len() == 0 {
		return
	}
	st := series.Stats()

	m.Add(fmt.Sprintf("%s: %s %s", label, formatValue(st.Current), unit)).
		Image(imageData(Sparkline(series.Values(), c, s.ChartWidth, s.ChartHeight)))
	m.AddAt(1, fmt.Sprintf("Mean: %s %s", formatValue(st.Mean), unit))
	m.AddAt(1, fmt.Sprintf("Min / Max: %s / %s", formatValue(st.Min), formatValue(st.Max)))
	m.AddAt(1, fmt.Sprintf("σ: %s", formatValue(st.StdDev)))
	if ctx := series.SeriesContext(); ctx != "" {
		m.AddAt(1, ctx).Color(mutedColor)
	}
}

func addSystem(m *Menu, s Snapshot) {
	if s.History == nil {
		return
	}
	h := s.History
	if h.CPUPercent.Len() == 0 {
		return
	}

	m.Sep()
	m.Add("System").Color(mutedColor)

	cpu := h.CPUPercent.Stats()
	m.Add(fmt.Sprintf("CPU: %.1f%%", cpu.Current)).
		Image(imageData(Sparkline(h.CPUPercent.Values(), ColorTPSLine, s.ChartWidth, s.ChartHeight)))

	mem, _ := h.UsedMemoryGB.Last()
	pct, _ := h.MemoryPercent.Last()
	m.Add(fmt.Sprintf("Memory: %.1f GB (%.0f%%)", mem.Value, pct.Value)).
		Image(imageData(Sparkline(h.MemoryPercent.Values(), ColorMemLine, s.ChartWidth, s.ChartHeight)))

	if llama, ok := h.LlamaMemoryMB.Last(); ok && llama.Value > 0 {
		m.Add("Llama memory: " + formatMB(llama.Value)).
			Image(imageData(Sparkline(h.LlamaMemoryMB.Values(), ColorPromptLine, s.ChartWidth, s.ChartHeight)))
	}
}

// imageData encodes img, dropping it on failure so the text still renders.
func imageData(img image.Image) string {
	data, err := EncodePNG(img)
	if err != nil {
		return ""
	}
	return data
}

// formatValue keeps small values readable and large ones compact.
func formatValue(v float64) string {
	switch {
	case v == 0:
		return "0"
	case math.Abs(v) < 10:
		return fmt.Sprintf("%.2f", v)
	case math.Abs(v) < 1000:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func formatMB(mb float64) string {
	if mb >= 1024 {
		return fmt.Sprintf("%.1f GB", mb/1024)
	}
	return fmt.Sprintf("%.0f MB", mb)
}
