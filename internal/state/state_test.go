package state

import (
	"testing"
	"time"

	"github.com/rileyhilliard/llamabar/internal/config"
	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/stretchr/testify/assert"
)

func TestComputeMode(t *testing.T) {
	dwell := 5 * time.Second

	tests := []struct {
		name        string
		changed     bool
		activity    bool
		sinceChange time.Duration
		want        PollingMode
	}{
		{"change wins over activity", true, true, time.Minute, ModeStarting},
		{"change with no activity", true, false, 0, ModeStarting},
		{"inside dwell", false, true, 4 * time.Second, ModeStarting},
		{"dwell boundary leaves Starting", false, false, 5 * time.Second, ModeIdle},
		{"activity after dwell", false, true, 6 * time.Second, ModeActive},
		{"idle after dwell", false, false, time.Minute, ModeIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeMode(tt.changed, tt.activity, tt.sinceChange, dwell))
		})
	}

	assert.Equal(t, ModeActive, ComputeMode(false, true, 0, 0), "zero dwell disables Starting hold")
}

func TestPollingModeInterval(t *testing.T) {
	cfg := config.DefaultConfig().Polling

	assert.Equal(t, 3*time.Second, ModeIdle.Interval(cfg))
	assert.Equal(t, time.Second, ModeActive.Interval(cfg))
	assert.Equal(t, 2*time.Second, ModeStarting.Interval(cfg))

	assert.Equal(t, "Idle", ModeIdle.String())
	assert.Equal(t, "Active", ModeActive.String())
	assert.Equal(t, "Starting", ModeStarting.String())
}

func TestFromSystemCheck(t *testing.T) {
	tests := []struct {
		name                             string
		plist, binary, process, apiAlive bool
		want                             AgentState
	}{
		{"fully running", true, true, true, true, AgentRunning},
		{"api up without plist", false, true, true, true, AgentRunning},
		{"process without api", true, true, true, false, AgentStarting},
		{"installed but stopped", true, true, false, false, AgentStopped},
		{"installed, binary gone", true, false, false, false, AgentStopped},
		{"nothing installed", false, false, false, false, AgentBinaryNotFound},
		{"binary without plist", false, true, false, false, AgentPlistMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromSystemCheck(tt.plist, tt.binary, tt.process, tt.apiAlive))
		})
	}
}

func TestAgentStateHelpers(t *testing.T) {
	assert.True(t, AgentBinaryNotFound.NotReady())
	assert.True(t, AgentPlistMissing.NotReady())
	assert.False(t, AgentStopped.NotReady())
	assert.Equal(t, ReasonBinaryNotFound, AgentBinaryNotFound.Reason())
	assert.Equal(t, ReasonPlistMissing, AgentPlistMissing.Reason())
	assert.Equal(t, ReasonNone, AgentRunning.Reason())
	assert.Equal(t, "NotReady(PlistMissing)", AgentPlistMissing.String())
	assert.Equal(t, "Running", AgentRunning.String())
}

func TestDerive(t *testing.T) {
	ready := map[string]metrics.ModelState{"a": metrics.ModelRunning}
	loading := map[string]metrics.ModelState{"a": metrics.ModelRunning, "b": metrics.ModelLoading}

	tests := []struct {
		name     string
		agent    AgentState
		models   map[string]metrics.ModelState
		activity bool
		want     DisplayState
	}{
		{"binary missing", AgentBinaryNotFound, nil, false, AgentNotLoaded},
		{"plist missing", AgentPlistMissing, ready, true, AgentNotLoaded},
		{"stopped", AgentStopped, nil, false, ServiceStopped},
		{"starting", AgentStarting, nil, false, AgentStartingUp},
		{"no models", AgentRunning, nil, true, ServiceLoadedNoModel},
		{"loading beats activity", AgentRunning, loading, true, ModelLoading},
		{"activity beats ready", AgentRunning, ready, true, ModelProcessingQueue},
		{"ready", AgentRunning, ready, false, ModelReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.agent, tt.models, tt.activity))
		})
	}
}

func TestDisplayPalette(t *testing.T) {
	assert.Equal(t, ColorBlue, ModelProcessingQueue.Color())
	assert.Equal(t, ColorGreen, ModelReady.Color())
	assert.Equal(t, ColorYellow, ModelLoading.Color())
	assert.Equal(t, ColorYellow, AgentStartingUp.Color())
	assert.Equal(t, ColorGrey, ServiceLoadedNoModel.Color())
	assert.Equal(t, ColorRed, ServiceStopped.Color())
	assert.Equal(t, ColorRed, AgentNotLoaded.Color())

	assert.Equal(t, "#007aff", Hex(ColorBlue))
	assert.Equal(t, "#34c759", Hex(ColorGreen))
	assert.Equal(t, "Model ready", ModelReady.StatusMessage())
	assert.Equal(t, "Service stopped", ServiceStopped.StatusMessage())
	assert.Equal(t, "AgentStarting", AgentStartingUp.String())
}
