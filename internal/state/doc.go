// Package state holds the small state machines that drive the plugin:
// the adaptive polling mode, the launch agent's lifecycle, and the
// display state that picks the icon colour and status line.
//
// All of them are pure functions of observed inputs so the polling loop
// can recompute them every cycle.
package state
