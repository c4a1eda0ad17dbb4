//go:build !darwin

package tray

import (
	"context"

	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/rileyhilliard/llamabar/internal/logger"
	"github.com/rileyhilliard/llamabar/internal/plugin"
)

// Tray is unavailable on this platform.
type Tray struct{}

// New returns a tray whose Run reports the platform as unsupported.
func New(p *plugin.Plugin, actions plugin.Actions, changes <-chan struct{}, log logger.Logger) *Tray {
	return &Tray{}
}

// Supported reports whether this platform has a tray host.
func Supported() bool { return false }

// Run always fails.
func (t *Tray) Run(ctx context.Context) error {
	return errors.New(errors.ErrService,
		"The tray host only runs on macOS",
		"Use SwiftBar, or run: llamabar dashboard")
}
