//go:build darwin

// Package tray hosts the plugin in a native menu bar item, for use
// without SwiftBar.
package tray

import (
	"context"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/rileyhilliard/llamabar/internal/logger"
	"github.com/rileyhilliard/llamabar/internal/plugin"
	"github.com/rileyhilliard/llamabar/internal/render"
)

type items struct {
	status  *systray.MenuItem
	detail  *systray.MenuItem
	hint    *systray.MenuItem
	models  [maxModelSlots]*systray.MenuItem
	system  *systray.MenuItem
	start   *systray.MenuItem
	stop    *systray.MenuItem
	restart *systray.MenuItem
	install *systray.MenuItem
	logs    *systray.MenuItem
	config  *systray.MenuItem
	quit    *systray.MenuItem
}

// Tray drives a plugin and mirrors its state into the system tray.
type Tray struct {
	plugin  *plugin.Plugin
	actions plugin.Actions
	changes <-chan struct{}
	log     logger.Logger

	items   items
	refresh chan struct{}

	lastIcon string
	mu       sync.Mutex
}

// New creates a tray host. changes may be nil.
func New(p *plugin.Plugin, actions plugin.Actions, changes <-chan struct{}, log logger.Logger) *Tray {
	if log == nil {
		log = logger.NewEnvLogger("[tray]")
	}
	return &Tray{
		plugin:  p,
		actions: actions,
		changes: changes,
		log:     log,
		refresh: make(chan struct{}, 1),
	}
}

// Supported reports whether this platform has a tray host.
func Supported() bool { return true }

// Run blocks until Quit is clicked or ctx is cancelled. It must be called
// from the main goroutine on macOS.
func (t *Tray) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		systray.Quit()
	}()

	systray.Run(func() { t.onReady(ctx, cancel) }, func() {
		cancel()
		t.plugin.SaveHistory()
	})
	return nil
}

func (t *Tray) onReady(ctx context.Context, cancel context.CancelFunc) {
	systray.SetTooltip("llama-swap")

	it := &t.items
	it.status = systray.AddMenuItem("Starting...", "")
	it.status.Disable()
	it.detail = systray.AddMenuItem("", "")
	it.detail.Disable()
	it.hint = systray.AddMenuItem("", "")
	it.hint.Disable()
	it.hint.Hide()

	systray.AddSeparator()
	it.start = systray.AddMenuItem("Start Llama-Swap", "")
	it.stop = systray.AddMenuItem("Stop Llama-Swap", "")
	it.restart = systray.AddMenuItem("Restart Llama-Swap", "")
	it.install = systray.AddMenuItem("Install Llama-Swap Service", "")

	systray.AddSeparator()
	for i := range it.models {
		it.models[i] = systray.AddMenuItem("", "")
		it.models[i].Disable()
		it.models[i].Hide()
	}
	it.system = systray.AddMenuItem("", "")
	it.system.Disable()
	it.system.Hide()

	systray.AddSeparator()
	it.logs = systray.AddMenuItem("Open Logs", "")
	it.config = systray.AddMenuItem("Open Config", "")
	it.quit = systray.AddMenuItem("Quit", "")

	t.plugin.LoadHistory()
	go t.poll(ctx)
	go t.handleClicks(ctx, cancel)
}

// poll owns the plugin: every Update and Snapshot happens here.
func (t *Tray) poll(ctx context.Context) {
	for {
		t.plugin.Update(ctx)
		t.apply(t.plugin.Snapshot())

		timer := time.NewTimer(t.plugin.Interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-t.changes:
			timer.Stop()
			t.plugin.MarkChanged()
		case <-t.refresh:
			timer.Stop()
			t.plugin.MarkChanged()
		case <-timer.C:
		}
	}
}

func (t *Tray) apply(s render.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if icon, err := render.PNG(render.StatusIcon(s.Display.Color())); err == nil {
		if key := string(icon); key != t.lastIcon {
			systray.SetIcon(icon)
			t.lastIcon = key
		}
	}

	v := buildView(s)
	it := &t.items
	systray.SetTooltip(v.Tooltip)
	it.status.SetTitle(v.Status)
	it.detail.SetTitle(v.Detail)
	setText(it.hint, v.Hint)

	setVisible(it.start, v.ShowStart && t.actions.Start != nil)
	setVisible(it.stop, v.ShowStop && t.actions.Stop != nil)
	setVisible(it.restart, v.ShowRestart && t.actions.Restart != nil)
	setVisible(it.install, v.ShowInstall && t.actions.Install != nil)
	setVisible(it.logs, t.actions.OpenLogs != nil)
	setVisible(it.config, t.actions.OpenConfig != nil)

	for i, item := range it.models {
		if i < len(v.Models) {
			setText(item, v.Models[i])
		} else {
			item.Hide()
		}
	}
	setText(it.system, v.System)
}

func (t *Tray) handleClicks(ctx context.Context, cancel context.CancelFunc) {
	it := &t.items
	for {
		select {
		case <-ctx.Done():
			return
		case <-it.start.ClickedCh:
			t.run(ctx, "start", t.actions.Start)
		case <-it.stop.ClickedCh:
			t.run(ctx, "stop", t.actions.Stop)
		case <-it.restart.ClickedCh:
			t.run(ctx, "restart", t.actions.Restart)
		case <-it.install.ClickedCh:
			t.run(ctx, "install", t.actions.Install)
		case <-it.logs.ClickedCh:
			t.run(ctx, "open logs", t.actions.OpenLogs)
		case <-it.config.ClickedCh:
			t.run(ctx, "open config", t.actions.OpenConfig)
		case <-it.quit.ClickedCh:
			cancel()
			return
		}
	}
}

// run executes an action and asks the poll loop for an early refresh.
func (t *Tray) run(ctx context.Context, name string, action plugin.Action) {
	if action == nil {
		return
	}
	if err := action(ctx); err != nil {
		t.log.Error("%s failed: %v", name, err)
	}
	select {
	case t.refresh <- struct{}{}:
	default:
	}
}

func setVisible(item *systray.MenuItem, visible bool) {
	if visible {
		item.Show()
	} else {
		item.Hide()
	}
}

func setText(item *systray.MenuItem, text string) {
	if text == "" {
		item.Hide()
		return
	}
	item.SetTitle(text)
	item.Show()
}
