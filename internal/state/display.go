package state

import (
	"fmt"
	"image/color"

	"github.com/rileyhilliard/llamabar/internal/metrics"
)

// DisplayState is what the menu bar icon communicates.
type DisplayState int

const (
	AgentNotLoaded DisplayState = iota
	ServiceStopped
	AgentStartingUp
	ServiceLoadedNoModel
	ModelLoading
	ModelProcessingQueue
	ModelReady
)

// Semantic palette.
var (
	ColorBlue   = color.RGBA{R: 0, G: 122, B: 255, A: 255}
	ColorGreen  = color.RGBA{R: 52, G: 199, B: 89, A: 255}
	ColorYellow = color.RGBA{R: 255, G: 149, B: 0, A: 255}
	ColorGrey   = color.RGBA{R: 142, G: 142, B: 147, A: 255}
	ColorRed    = color.RGBA{R: 255, G: 59, B: 48, A: 255}
)

// String returns the state name.
func (d DisplayState) String() string {
	switch d {
	case AgentNotLoaded:
		return "AgentNotLoaded"
	case ServiceStopped:
		return "ServiceStopped"
	case AgentStartingUp:
		return "AgentStarting"
	case ServiceLoadedNoModel:
		return "ServiceLoadedNoModel"
	case ModelLoading:
		return "ModelLoading"
	case ModelProcessingQueue:
		return "ModelProcessingQueue"
	case ModelReady:
		return "ModelReady"
	default:
		return "Unknown"
	}
}

// StatusMessage is the status line shown at the top of the menu.
func (d DisplayState) StatusMessage() string {
	switch d {
	case AgentNotLoaded:
		return "Agent not loaded"
	case ServiceStopped:
		return "Service stopped"
	case AgentStartingUp:
		return "Starting agent..."
	case ServiceLoadedNoModel:
		return "No models loaded"
	case ModelLoading:
		return "Loading model..."
	case ModelProcessingQueue:
		return "Processing queue..."
	case ModelReady:
		return "Model ready"
	default:
		return "Unknown state"
	}
}

// Color is the status dot colour.
func (d DisplayState) Color() color.RGBA {
	switch d {
	case ModelProcessingQueue:
		return ColorBlue
	case ModelReady:
		return ColorGreen
	case ModelLoading, AgentStartingUp:
		return ColorYellow
	case ServiceLoadedNoModel:
		return ColorGrey
	default:
		return ColorRed
	}
}

// Hex formats c as #rrggbb for SwiftBar's color= parameter.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Derive computes the display state. For a running agent, loading beats
// queue activity and queue activity beats ready.
func Derive(agent AgentState, models map[string]metrics.ModelState, activity bool) DisplayState {
	switch agent {
	case AgentStopped:
		return ServiceStopped
	case AgentStarting:
		return AgentStartingUp
	case AgentRunning:
	default:
		return AgentNotLoaded
	}

	if len(models) == 0 {
		return ServiceLoadedNoModel
	}
	for _, s := range models {
		if s == metrics.ModelLoading {
			return ModelLoading
		}
	}
	if activity {
		return ModelProcessingQueue
	}
	return ModelReady
}
