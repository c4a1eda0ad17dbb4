package ui

// Unicode symbols for status indicators.
const (
	SymbolDot     = "●" // Status dot
	SymbolSuccess = "✓" // Action succeeded
	SymbolFail    = "✗" // Action failed
	SymbolPending = "○" // Model unloaded
)
