// Package plugin is the polling engine: each cycle gathers metrics, updates
// history and derived state, and renders a SwiftBar frame.
package plugin

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/llamabar/internal/config"
	"github.com/rileyhilliard/llamabar/internal/history"
	"github.com/rileyhilliard/llamabar/internal/logger"
	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/rileyhilliard/llamabar/internal/render"
	"github.com/rileyhilliard/llamabar/internal/service"
	"github.com/rileyhilliard/llamabar/internal/state"
)

// MetricsSource fetches model metrics from the llama-swap API.
type MetricsSource interface {
	FetchAll(ctx context.Context) (*metrics.AllMetrics, error)
}

// SystemSource samples host resources and llama processes.
type SystemSource interface {
	Collect(ctx context.Context) metrics.SystemMetrics
	LlamaProcesses(ctx context.Context) []metrics.ProcessInfo
}

// StatusChecker runs the layered service checks.
type StatusChecker interface {
	Check(ctx context.Context, apiOK bool) service.Status
	BinaryAvailable() bool
}

// Deps are the collaborators a Plugin polls. Nil Store, Logger and Now get
// defaults.
type Deps struct {
	API     MetricsSource
	System  SystemSource
	Checker StatusChecker
	Store   *history.Store
	Logger  logger.Logger
	Now     func() time.Time

	// Executable is the path action menu items invoke.
	Executable string
}

// Plugin holds the state carried between polling cycles. It is not safe
// for concurrent use; one goroutine drives Update and Snapshot.
type Plugin struct {
	cfg *config.Config

	api     MetricsSource
	sys     SystemSource
	checker StatusChecker
	store   *history.Store
	log     logger.Logger
	now     func() time.Time
	exe     string

	current     *metrics.AllMetrics
	modelStates map[string]metrics.ModelState
	status      service.Status
	agent       state.AgentState
	display     state.DisplayState
	mode        state.PollingMode
	lastChange  time.Time
	errorCount  int
	started     bool
	forceChange bool
}

// New creates a plugin. The first Update counts as a state change.
func New(cfg *config.Config, deps Deps) *Plugin {
	p := &Plugin{
		cfg:         cfg,
		api:         deps.API,
		sys:         deps.System,
		checker:     deps.Checker,
		store:       deps.Store,
		log:         deps.Logger,
		now:         deps.Now,
		exe:         deps.Executable,
		modelStates: make(map[string]metrics.ModelState),
		mode:        state.ModeStarting,
	}
	if p.store == nil {
		p.store = history.NewStore(cfg.History.Size, cfg.History.Retention)
	}
	if p.log == nil {
		p.log = logger.NewEnvLogger("[poll]")
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Update runs one polling cycle. API failures are absorbed: they clear the
// live snapshot, keep history and bump the error count.
func (p *Plugin) Update(ctx context.Context) {
	now := p.now()

	var procs []metrics.ProcessInfo
	if p.sys != nil {
		sys := p.sys.Collect(ctx)
		procs = p.sys.LlamaProcesses(ctx)
		p.store.PushSystem(sys, metrics.LlamaMemoryMB(procs), now)
	}

	all, err := p.api.FetchAll(ctx)
	apiOK := err == nil
	if apiOK {
		for i := range all.Models {
			all.Models[i].Metrics.MemoryMB = metrics.ModelMemoryMB(procs, all.Models[i].Name)
		}
		p.store.PushModels(all, now)
		p.current = all
		p.modelStates = make(map[string]metrics.ModelState, len(all.Models))
		for _, m := range all.Models {
			p.modelStates[m.Name] = m.State
		}
		p.errorCount = 0
	} else {
		p.current = nil
		p.modelStates = make(map[string]metrics.ModelState)
		p.errorCount++
		p.log.Debug("fetch failed (%d in a row): %v", p.errorCount, err)
	}
	p.store.Trim(now)

	p.status = p.checker.Check(ctx, apiOK)
	agent := state.FromSystemCheck(
		p.status.PlistInstalled,
		p.checker.BinaryAvailable(),
		p.status.ProcessRunning,
		p.status.APIResponsive,
	)

	changed := !p.started || p.forceChange || agent != p.agent
	if changed {
		if p.started && agent != p.agent {
			p.log.Info("agent %s -> %s", p.agent, agent)
		}
		p.lastChange = now
	}
	p.agent = agent
	p.started = true
	p.forceChange = false

	activity := p.current.HasActivity()
	p.display = state.Derive(agent, p.modelStates, activity)

	mode := state.ComputeMode(changed, activity, now.Sub(p.lastChange), p.cfg.Polling.StartingDwell)
	if mode != p.mode {
		p.log.Info("polling %s -> %s (%s)", p.mode, mode, p.modeReason())
		p.mode = mode
	}
}

// MarkChanged makes the next Update count as a state change, for example
// after llama-swap's config file was rewritten.
func (p *Plugin) MarkChanged() {
	p.forceChange = true
}

// modeReason describes the queue activity behind a mode change.
func (p *Plugin) modeReason() string {
	processing, deferred := p.current.Totals()
	switch {
	case processing > 0:
		return fmt.Sprintf("processing %d requests", processing)
	case deferred > 0:
		return fmt.Sprintf("%d requests queued", deferred)
	default:
		return "no queue activity"
	}
}

// Mode is the current polling mode.
func (p *Plugin) Mode() state.PollingMode {
	return p.mode
}

// Interval is how long to sleep before the next cycle.
func (p *Plugin) Interval() time.Duration {
	return p.mode.Interval(p.cfg.Polling)
}

// Agent is the agent state from the last cycle.
func (p *Plugin) Agent() state.AgentState {
	return p.agent
}

// Display is the display state from the last cycle.
func (p *Plugin) Display() state.DisplayState {
	return p.display
}

// ErrorCount is the number of consecutive failed API polls.
func (p *Plugin) ErrorCount() int {
	return p.errorCount
}

// Store returns the history store.
func (p *Plugin) Store() *history.Store {
	return p.store
}

// Snapshot captures the last cycle for rendering.
func (p *Plugin) Snapshot() render.Snapshot {
	var models []metrics.ModelMetrics
	if p.current != nil {
		models = p.current.Models
	}
	return render.Snapshot{
		Display:     p.display,
		Agent:       p.agent,
		Mode:        p.mode,
		Service:     p.status,
		Models:      models,
		History:     p.store,
		Executable:  p.exe,
		ChartWidth:  p.cfg.Chart.Width,
		ChartHeight: p.cfg.Chart.Height,
		ErrorCount:  p.errorCount,
	}
}

// Render builds the SwiftBar menu for the last cycle.
func (p *Plugin) Render() string {
	return render.BuildMenu(p.Snapshot())
}
