package tray

import (
	"fmt"

	"github.com/rileyhilliard/llamabar/internal/render"
	"github.com/rileyhilliard/llamabar/internal/state"
)

// maxModelSlots is how many model rows the tray pre-allocates.
const maxModelSlots = 8

// view is the tray menu content for one snapshot.
type view struct {
	Tooltip string
	Status  string
	Detail  string
	Hint    string
	Models  []string
	System  string

	ShowStart   bool
	ShowStop    bool
	ShowRestart bool
	ShowInstall bool
}

func buildView(s render.Snapshot) view {
	v := view{
		Status:  s.Display.StatusMessage(),
		Detail:  fmt.Sprintf("%s · polling %s", s.Service.Summary(), s.Mode),
		Tooltip: "llama-swap: " + s.Display.StatusMessage(),
	}
	if s.ErrorCount > 0 {
		v.Detail += fmt.Sprintf(" · %d API errors", s.ErrorCount)
	}

	switch s.Agent {
	case state.AgentBinaryNotFound:
		v.Hint = "Install llama-swap binary first: brew install llama-swap"
	case state.AgentPlistMissing:
		v.ShowInstall = true
	case state.AgentStopped:
		v.ShowStart = true
	default:
		v.ShowStop = true
		v.ShowRestart = true
	}

	for _, m := range s.Models {
		if len(v.Models) == maxModelSlots {
			break
		}
		title := fmt.Sprintf("%s · %s · %s", m.Name, m.State, m.Metrics.QueueStatus())
		if s.History != nil {
			if h := s.History.Model(m.Name); h != nil && h.TPS.Len() > 0 {
				st := h.TPS.Stats()
				title += fmt.Sprintf(" · %.1f tok/s (avg %.1f)", st.Current, st.Mean)
			}
		}
		v.Models = append(v.Models, title)
	}

	if s.History != nil {
		if cpu, ok := s.History.CPUPercent.Last(); ok {
			mem, _ := s.History.MemoryPercent.Last()
			v.System = fmt.Sprintf("CPU %.0f%% · Memory %.0f%%", cpu.Value, mem.Value)
		}
	}
	return v
}
