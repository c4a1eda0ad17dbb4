package state

import (
	"time"

	"github.com/rileyhilliard/llamabar/internal/config"
)

// PollingMode selects the sleep interval between update cycles.
type PollingMode int

const (
	// ModeIdle polls slowly when nothing is happening.
	ModeIdle PollingMode = iota
	// ModeActive polls fast while requests are in flight.
	ModeActive
	// ModeStarting polls at a middle rate right after a state change.
	ModeStarting
)

// String returns a human-readable representation of the mode.
func (m PollingMode) String() string {
	switch m {
	case ModeActive:
		return "Active"
	case ModeStarting:
		return "Starting"
	default:
		return "Idle"
	}
}

// Interval returns the configured sleep for this mode.
func (m PollingMode) Interval(cfg config.PollingConfig) time.Duration {
	switch m {
	case ModeActive:
		return cfg.ActiveInterval
	case ModeStarting:
		return cfg.StartingInterval
	default:
		return cfg.IdleInterval
	}
}

// ComputeMode picks the next polling mode. Priority is
// status change > minimum dwell in Starting > queue activity > idle.
func ComputeMode(changed, activity bool, sinceChange, dwell time.Duration) PollingMode {
	switch {
	case changed:
		return ModeStarting
	case sinceChange < dwell:
		return ModeStarting
	case activity:
		return ModeActive
	default:
		return ModeIdle
	}
}
