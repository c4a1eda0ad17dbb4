package plugin

import (
	"context"
	"io"
	"time"

	"github.com/rileyhilliard/llamabar/internal/history"
	"github.com/rileyhilliard/llamabar/internal/render"
)

// slowCycle is the iteration time above which a cycle is logged.
const slowCycle = 500 * time.Millisecond

// LoadHistory replaces the store with the persisted one, when persistence
// is enabled. A corrupt file is logged and starts an empty history.
func (p *Plugin) LoadHistory() {
	if !p.cfg.History.Persist {
		return
	}
	path := p.cfg.History.PersistPath()
	store, err := history.Load(path, p.cfg.History.Size, p.cfg.History.Retention, p.now())
	if err != nil {
		p.log.Warn("discarding history at %s: %v", path, err)
	}
	p.store = store
}

// SaveHistory persists the store, when persistence is enabled.
func (p *Plugin) SaveHistory() {
	if !p.cfg.History.Persist {
		return
	}
	path := p.cfg.History.PersistPath()
	if err := p.store.Save(path, p.now()); err != nil {
		p.log.Warn("failed to save history to %s: %v", path, err)
	}
}

// RunOnce renders a single frame, for SwiftBar's non-streaming mode.
func (p *Plugin) RunOnce(ctx context.Context, w io.Writer) error {
	p.LoadHistory()
	p.Update(ctx)
	_, err := io.WriteString(w, p.Render())
	p.SaveHistory()
	return err
}

// RunStreaming writes a frame per cycle until ctx is cancelled or w fails.
// A receive on changes wakes the loop early and counts as a state change.
// History is saved on exit.
func (p *Plugin) RunStreaming(ctx context.Context, w io.Writer, changes <-chan struct{}) error {
	p.LoadHistory()
	defer p.SaveHistory()

	for {
		start := time.Now()
		p.Update(ctx)
		if _, err := io.WriteString(w, render.Frame(p.Render())); err != nil {
			return err
		}
		if elapsed := time.Since(start); elapsed > slowCycle {
			p.log.Debug("slow cycle: %s", elapsed.Round(time.Millisecond))
		}

		timer := time.NewTimer(p.Interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-changes:
			timer.Stop()
			p.log.Debug("config changed, refreshing")
			p.MarkChanged()
		case <-timer.C:
		}
	}
}
