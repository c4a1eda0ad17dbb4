package state

// AgentState is the lifecycle of the llama-swap launch agent.
type AgentState int

const (
	// AgentBinaryNotFound means llama-swap is not installed at all.
	AgentBinaryNotFound AgentState = iota
	// AgentPlistMissing means the binary exists but no LaunchAgent is installed.
	AgentPlistMissing
	AgentStopped
	// AgentStarting means the process is up but the API is not answering yet.
	AgentStarting
	AgentRunning
)

// NotReadyReason explains why the agent cannot be started from the menu.
type NotReadyReason int

const (
	ReasonNone NotReadyReason = iota
	ReasonBinaryNotFound
	ReasonPlistMissing
)

// String returns a human-readable representation of the state.
func (a AgentState) String() string {
	switch a {
	case AgentBinaryNotFound:
		return "NotReady(BinaryNotFound)"
	case AgentPlistMissing:
		return "NotReady(PlistMissing)"
	case AgentStopped:
		return "Stopped"
	case AgentStarting:
		return "Starting"
	case AgentRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// NotReady reports whether the agent is missing a prerequisite.
func (a AgentState) NotReady() bool {
	return a == AgentBinaryNotFound || a == AgentPlistMissing
}

// Reason returns why the agent is not ready, or ReasonNone.
func (a AgentState) Reason() NotReadyReason {
	switch a {
	case AgentBinaryNotFound:
		return ReasonBinaryNotFound
	case AgentPlistMissing:
		return ReasonPlistMissing
	default:
		return ReasonNone
	}
}

// FromSystemCheck derives the agent state from the layered service checks.
// An answering API wins over everything else; a live process without an
// API is still starting.
func FromSystemCheck(plistInstalled, binaryAvailable, processRunning, apiResponsive bool) AgentState {
	switch {
	case apiResponsive:
		return AgentRunning
	case processRunning:
		return AgentStarting
	case plistInstalled:
		return AgentStopped
	case !binaryAvailable:
		return AgentBinaryNotFound
	default:
		return AgentPlistMissing
	}
}
