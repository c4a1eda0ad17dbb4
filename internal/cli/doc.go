// Package cli implements the llamabar command-line interface.
//
// With no subcommand llamabar runs as a SwiftBar plugin: it streams frames
// when SwiftBar sets SWIFTBAR and streaming is enabled, and otherwise
// prints a single frame. Menu items call back into the same binary:
//
//	llamabar do_start | do_stop | do_restart   - control the LaunchAgent
//	llamabar do_install | do_uninstall         - manage the plist
//	llamabar open_logs | open_config           - open files in their apps
//
// Terminal commands:
//
//	llamabar preview [--raw]   - render one frame to the terminal
//	llamabar dashboard         - live Bubble Tea view
//	llamabar tray              - native menu bar item without SwiftBar
//	llamabar config init       - write the default config
//	llamabar version           - print build information
package cli
