package tray

import (
	"fmt"
	"testing"
	"time"

	"github.com/rileyhilliard/llamabar/internal/history"
	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/rileyhilliard/llamabar/internal/render"
	"github.com/rileyhilliard/llamabar/internal/service"
	"github.com/rileyhilliard/llamabar/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildViewRunning(t *testing.T) {
	now := time.Now()
	store := history.NewStore(10, time.Hour)
	models := []metrics.ModelMetrics{{
		Name: "qwen:7b", State: metrics.ModelRunning,
		Metrics: metrics.Metrics{PredictedTokensPerSec: 20, RequestsDeferred: 2},
	}}
	store.PushModels(&metrics.AllMetrics{Models: models}, now)
	store.PushSystem(metrics.SystemMetrics{CPUPercent: 12.4, MemoryPercent: 55.6}, 0, now)

	v := buildView(render.Snapshot{
		Display: state.ModelProcessingQueue,
		Agent:   state.AgentRunning,
		Mode:    state.ModeActive,
		Service: service.Status{PlistInstalled: true, Loaded: true, ProcessRunning: true, APIResponsive: true},
		Models:  models,
		History: store,
	})

	assert.Equal(t, "Processing queue...", v.Status)
	assert.Equal(t, "llama-swap: Processing queue...", v.Tooltip)
	assert.Equal(t, "Running · polling Active", v.Detail)
	assert.True(t, v.ShowStop)
	assert.True(t, v.ShowRestart)
	assert.False(t, v.ShowStart)
	assert.False(t, v.ShowInstall)
	require.Len(t, v.Models, 1)
	assert.Equal(t, "qwen:7b · Running · 2 queued · 20.0 tok/s (avg 20.0)", v.Models[0])
	assert.Equal(t, "CPU 12% · Memory 56%", v.System)
}

func TestBuildViewControls(t *testing.T) {
	v := buildView(render.Snapshot{Agent: state.AgentBinaryNotFound})
	assert.Equal(t, "Install llama-swap binary first: brew install llama-swap", v.Hint)
	assert.False(t, v.ShowStart || v.ShowStop || v.ShowRestart || v.ShowInstall)

	v = buildView(render.Snapshot{Agent: state.AgentPlistMissing})
	assert.True(t, v.ShowInstall)

	v = buildView(render.Snapshot{Agent: state.AgentStopped, ErrorCount: 4})
	assert.True(t, v.ShowStart)
	assert.Contains(t, v.Detail, "4 API errors")
	assert.Empty(t, v.System)
}

func TestBuildViewCapsModels(t *testing.T) {
	var models []metrics.ModelMetrics
	for i := 0; i < maxModelSlots+3; i++ {
		models = append(models, metrics.ModelMetrics{Name: fmt.Sprintf("m%d", i)})
	}
	v := buildView(render.Snapshot{Agent: state.AgentRunning, Models: models})
	assert.Len(t, v.Models, maxModelSlots)
}
