package service

// Health is the coarse service status shown in the menu.
type Health int

const (
	HealthUnknown Health = iota
	HealthRunning
	HealthStopped
)

// String returns a human-readable representation of the health.
func (h Health) String() string {
	switch h {
	case HealthRunning:
		return "Running"
	case HealthStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Status is the result of the layered service checks, from the plist on
// disk down to the HTTP API answering.
type Status struct {
	PlistInstalled bool
	Loaded         bool
	ProcessRunning bool
	APIResponsive  bool

	// PID of the llama-swap process, 0 when not running.
	PID int
}

// Health collapses the layers. An answering API is Running, nothing alive
// is Stopped, and a process without an API is Unknown.
func (s Status) Health() Health {
	switch {
	case s.APIResponsive:
		return HealthRunning
	case !s.ProcessRunning:
		return HealthStopped
	default:
		return HealthUnknown
	}
}

// FullyRunning reports whether every layer is up.
func (s Status) FullyRunning() bool {
	return s.PlistInstalled && s.Loaded && s.ProcessRunning && s.APIResponsive
}

// Summary is the health plus, unless every layer is up, the description
// of what is missing: "Running", "Stopped · Not installed".
func (s Status) Summary() string {
	health := s.Health().String()
	if s.FullyRunning() {
		return health
	}
	if desc := s.Description(); desc != health {
		return health + " · " + desc
	}
	return health
}

// Description explains the layer combination in a few words.
func (s Status) Description() string {
	switch {
	case !s.PlistInstalled:
		return "Not installed"
	case s.Loaded && s.ProcessRunning && s.APIResponsive:
		return "Running"
	case s.Loaded && s.ProcessRunning:
		return "Process running but API unresponsive"
	case s.Loaded && !s.APIResponsive:
		return "Loaded but not running"
	case !s.Loaded && !s.ProcessRunning && !s.APIResponsive:
		return "Stopped"
	default:
		return "Unknown state"
	}
}
