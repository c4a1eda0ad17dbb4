// Package ui holds the terminal styling shared by the preview command and
// the dashboard: the colour palette, status symbols, block sparklines and
// the Bubble Tea spinner.
//
// Colors mirror the menu bar palette so a state reads the same in the
// terminal as on the icon:
//
//	ColorReady    (green)  - model loaded and idle
//	ColorBusy     (blue)   - requests in flight
//	ColorStarting (amber)  - loading or agent starting
//	ColorIdle     (grey)   - service up, no model
//	ColorError    (red)    - stopped or not installed
//
// Use DisableColors() for monochrome output (--no-color or NO_COLOR).
package ui
