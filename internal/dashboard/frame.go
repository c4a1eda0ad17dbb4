package dashboard

import (
	"time"

	"github.com/rileyhilliard/llamabar/internal/history"
	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/rileyhilliard/llamabar/internal/render"
	"github.com/rileyhilliard/llamabar/internal/service"
	"github.com/rileyhilliard/llamabar/internal/state"
)

// modelRow is one model's current state plus copied history.
type modelRow struct {
	Name    string
	Live    bool
	State   metrics.ModelState
	Queue   string
	MemMB   float64
	TPS     []float64
	Prompt  []float64
	Memory  []float64
	Stats   history.Stats
	Context string
}

// frame is a value copy of a plugin snapshot. The view renders from it
// without touching the history store, which the update command owns.
type frame struct {
	Time       time.Time
	Display    state.DisplayState
	Agent      state.AgentState
	Mode       state.PollingMode
	Interval   time.Duration
	Service    service.Status
	ErrorCount int

	Models []modelRow

	CPU       []float64
	MemPct    []float64
	MemGB     float64
	LlamaMB   float64
	HasSystem bool
}

func buildFrame(s render.Snapshot, interval time.Duration, now time.Time) frame {
	f := frame{
		Time:       now,
		Display:    s.Display,
		Agent:      s.Agent,
		Mode:       s.Mode,
		Interval:   interval,
		Service:    s.Service,
		ErrorCount: s.ErrorCount,
	}

	live := make(map[string]metrics.ModelMetrics, len(s.Models))
	var names []string
	for _, m := range s.Models {
		live[m.Name] = m
		names = append(names, m.Name)
	}
	if s.History != nil {
		for _, name := range s.History.ModelNames() {
			if _, ok := live[name]; !ok {
				names = append(names, name)
			}
		}
	}

	for _, name := range names {
		row := modelRow{Name: name}
		if m, ok := live[name]; ok {
			row.Live = true
			row.State = m.State
			row.Queue = m.Metrics.QueueStatus()
			row.MemMB = m.Metrics.MemoryMB
		}
		if s.History != nil {
			if h := s.History.Model(name); h != nil {
				row.TPS = h.TPS.Values()
				row.Prompt = h.PromptTPS.Values()
				if h.MemoryMB.Stats().Max > 0 {
					row.Memory = h.MemoryMB.Values()
				}
				row.Stats = h.TPS.Stats()
				row.Context = h.TPS.SeriesContext()
			}
		}
		f.Models = append(f.Models, row)
	}

	if s.History != nil && s.History.CPUPercent.Len() > 0 {
		f.HasSystem = true
		f.CPU = s.History.CPUPercent.Values()
		f.MemPct = s.History.MemoryPercent.Values()
		if last, ok := s.History.UsedMemoryGB.Last(); ok {
			f.MemGB = last.Value
		}
		if last, ok := s.History.LlamaMemoryMB.Last(); ok {
			f.LlamaMB = last.Value
		}
	}
	return f
}
