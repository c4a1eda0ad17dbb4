// Package dashboard is a live terminal view of the plugin, built on
// Bubble Tea. It drives the same polling engine as the menu bar.
package dashboard

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/llamabar/internal/plugin"
	"github.com/rileyhilliard/llamabar/internal/ui"
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctx     context.Context
	plugin  *plugin.Plugin
	actions plugin.Actions
	changes <-chan struct{}

	frame    frame
	ready    bool
	selected int
	width    int
	height   int
	message  string
	showHelp bool
	quitting bool
	spinner  spinner.Model

	// One update runs at a time; it owns the plugin until its frameMsg
	// arrives.
	updating      bool
	pendingChange bool
	tickGen       int
}

// frameMsg carries the result of an update cycle.
type frameMsg frame

// tickMsg signals the next scheduled poll. Ticks from superseded
// schedules are dropped by generation.
type tickMsg struct{ gen int }

// changeMsg reports a watched config file change.
type changeMsg struct{}

// actionMsg is the outcome of a service action.
type actionMsg struct {
	name string
	err  error
}

// NewModel creates a dashboard over p. changes may be nil.
func NewModel(ctx context.Context, p *plugin.Plugin, actions plugin.Actions, changes <-chan struct{}) Model {
	return Model{
		ctx:     ctx,
		plugin:  p,
		actions: actions,
		changes: changes,
		spinner: ui.NewSpinner(),
	}
}

// Init triggers the first update and starts the spinner and watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.updateCmd(), m.spinner.Tick, m.watchCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		m.frame = frame(msg)
		m.ready = true
		m.updating = false
		if m.selected >= len(m.frame.Models) {
			m.selected = len(m.frame.Models) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		if m.pendingChange {
			return m, m.updateCmd()
		}
		m.tickGen++
		return m, m.tickCmd(m.frame.Interval)

	case tickMsg:
		if msg.gen == m.tickGen {
			return m, m.updateCmd()
		}

	case changeMsg:
		m.pendingChange = true
		return m, tea.Batch(m.updateCmd(), m.watchCmd())

	case actionMsg:
		if msg.err != nil {
			m.message = ui.SymbolFail + " " + msg.name + " failed: " + msg.err.Error()
		} else {
			m.message = ui.SymbolSuccess + " " + msg.name
		}
		m.pendingChange = true
		return m, m.updateCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

func (m Model) tickCmd(d time.Duration) tea.Cmd {
	gen := m.tickGen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// updateCmd runs one plugin cycle off the UI goroutine. It returns nil
// while another cycle is in flight; a pending change is picked up when
// that cycle's frame arrives.
func (m *Model) updateCmd() tea.Cmd {
	if m.updating {
		return nil
	}
	m.updating = true
	mark := m.pendingChange
	m.pendingChange = false

	ctx, p := m.ctx, m.plugin
	return func() tea.Msg {
		if mark {
			p.MarkChanged()
		}
		p.Update(ctx)
		return frameMsg(buildFrame(p.Snapshot(), p.Interval(), time.Now()))
	}
}

func (m Model) watchCmd() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changeMsg{}
	}
}

func (m *Model) actionCmd(name string, action plugin.Action) tea.Cmd {
	if action == nil {
		m.message = name + " is not available"
		return nil
	}
	m.message = name + "..."
	ctx := m.ctx
	return func() tea.Msg {
		return actionMsg{name: name, err: action(ctx)}
	}
}

// Run starts the dashboard full screen and blocks until it quits.
func Run(ctx context.Context, p *plugin.Plugin, actions plugin.Actions, changes <-chan struct{}) error {
	prog := tea.NewProgram(NewModel(ctx, p, actions, changes), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
