package metrics

import "fmt"

// ModelState is the coarse lifecycle of a model reported by llama-swap.
type ModelState int

const (
	ModelUnknown ModelState = iota
	ModelLoading
	ModelRunning
)

// String returns a human-readable representation of the state.
func (s ModelState) String() string {
	switch s {
	case ModelRunning:
		return "Running"
	case ModelLoading:
		return "Loading"
	default:
		return "Unknown"
	}
}

// RunningModel is one entry of the /running response.
type RunningModel struct {
	Model string `json:"model"`
	State string `json:"state"`
}

// ModelState maps llama-swap state strings onto ModelState.
func (r RunningModel) ModelState() ModelState {
	switch r.State {
	case "ready":
		return ModelRunning
	case "starting", "stopping":
		return ModelLoading
	default:
		return ModelUnknown
	}
}

// RunningResponse is the body of GET /running.
type RunningResponse struct {
	Running []RunningModel `json:"running"`
}

// Metrics holds the scraped llama.cpp server counters for one model.
type Metrics struct {
	PromptTokensPerSec    float64
	PredictedTokensPerSec float64
	RequestsProcessing    int
	RequestsDeferred      int
	DecodeTotal           int

	// MemoryMB is the RSS of processes serving this model, if any were found.
	MemoryMB float64
}

// QueueStatus summarises processing and deferred requests.
func (m Metrics) QueueStatus() string {
	switch {
	case m.RequestsProcessing == 0 && m.RequestsDeferred == 0:
		return "Idle"
	case m.RequestsDeferred == 0:
		return fmt.Sprintf("%d active", m.RequestsProcessing)
	case m.RequestsProcessing == 0:
		return fmt.Sprintf("%d queued", m.RequestsDeferred)
	default:
		return fmt.Sprintf("%d active, %d queued", m.RequestsProcessing, m.RequestsDeferred)
	}
}

// QueueDepth is processing plus deferred requests.
func (m Metrics) QueueDepth() int {
	return m.RequestsProcessing + m.RequestsDeferred
}

// ModelMetrics pairs a model with its state and metrics.
type ModelMetrics struct {
	Name    string
	State   ModelState
	Metrics Metrics
}

// AllMetrics is one successful poll of the API.
type AllMetrics struct {
	Models []ModelMetrics
}

// HasActivity reports whether any model is processing or queueing requests.
func (a *AllMetrics) HasActivity() bool {
	if a == nil {
		return false
	}
	for _, m := range a.Models {
		if m.Metrics.QueueDepth() > 0 {
			return true
		}
	}
	return false
}

// Totals sums processing and deferred requests over all models.
func (a *AllMetrics) Totals() (processing, deferred int) {
	if a == nil {
		return 0, 0
	}
	for _, m := range a.Models {
		processing += m.Metrics.RequestsProcessing
		deferred += m.Metrics.RequestsDeferred
	}
	return processing, deferred
}

// SystemMetrics is host-wide resource usage.
type SystemMetrics struct {
	CPUPercent    float64
	UsedMemoryGB  float64
	MemoryPercent float64
}

// ProcessInfo describes a running llama process.
type ProcessInfo struct {
	PID           int32
	Name          string
	MemoryMB      float64
	InferredModel string
}
