package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap holds the dashboard key bindings.
type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	Start   key.Binding
	Stop    key.Binding
	Restart key.Binding
	Install key.Binding
	Logs    key.Binding
	Config  key.Binding
	Up      key.Binding
	Down    key.Binding
	Help    key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start service")),
	Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop service")),
	Restart: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart service")),
	Install: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "install service")),
	Logs:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "open logs")),
	Config:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "open config")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous model")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next model")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
}

// helpBindings is the order bindings appear in the help overlay.
func (k keyMap) helpBindings() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Start, k.Stop, k.Restart, k.Install, k.Logs, k.Config, k.Up, k.Down, k.Help}
}

// HandleKeyMsg processes keyboard input. It reports whether the key was
// handled and any command to run.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && msg.String() == "esc" {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, keys.Refresh):
		return true, m.updateCmd()

	case key.Matches(msg, keys.Start):
		return true, m.actionCmd("start", m.actions.Start)

	case key.Matches(msg, keys.Stop):
		return true, m.actionCmd("stop", m.actions.Stop)

	case key.Matches(msg, keys.Restart):
		return true, m.actionCmd("restart", m.actions.Restart)

	case key.Matches(msg, keys.Install):
		return true, m.actionCmd("install", m.actions.Install)

	case key.Matches(msg, keys.Logs):
		return true, m.actionCmd("open logs", m.actions.OpenLogs)

	case key.Matches(msg, keys.Config):
		return true, m.actionCmd("open config", m.actions.OpenConfig)

	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return true, nil

	case key.Matches(msg, keys.Down):
		if m.selected < len(m.frame.Models)-1 {
			m.selected++
		}
		return true, nil
	}

	return false, nil
}
