package render

import (
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/llamabar/internal/history"
	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/rileyhilliard/llamabar/internal/service"
	"github.com/rileyhilliard/llamabar/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exe = "/usr/local/bin/llamabar"

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func runningSnapshot() Snapshot {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := history.NewStore(10, time.Hour)
	models := []metrics.ModelMetrics{{
		Name:  "qwen:7b",
		State: metrics.ModelRunning,
		Metrics: metrics.Metrics{
			PredictedTokensPerSec: 25, PromptTokensPerSec: 300,
			RequestsProcessing: 1,
		},
	}}
	for i := 0; i < 3; i++ {
		store.PushModels(&metrics.AllMetrics{Models: models}, base.Add(time.Duration(i)*time.Second))
		store.PushSystem(metrics.SystemMetrics{CPUPercent: 20, UsedMemoryGB: 12, MemoryPercent: 40}, 2048, base.Add(time.Duration(i)*time.Second))
	}

	return Snapshot{
		Display:     state.ModelProcessingQueue,
		Agent:       state.AgentRunning,
		Mode:        state.ModeActive,
		Service:     service.Status{PlistInstalled: true, Loaded: true, ProcessRunning: true, APIResponsive: true, PID: 4242},
		Models:      models,
		History:     store,
		Executable:  exe,
		ChartWidth:  60,
		ChartHeight: 20,
	}
}

func TestBuildMenuRunning(t *testing.T) {
	out := BuildMenu(runningSnapshot())
	ls := lines(out)

	require.NotEmpty(t, ls)
	assert.True(t, strings.HasPrefix(ls[0], "| image="), ls[0])
	assert.Equal(t, Separator, ls[1])
	assert.Equal(t, "Processing queue... | color=#007aff", ls[2])

	assert.Contains(t, out, "--Polling: Active\n")
	assert.Contains(t, out, "--Service: Running\n")
	assert.Contains(t, out, "--PID: 4242\n")
	assert.NotContains(t, out, "API errors")

	assert.Contains(t, out, "Stop Llama-Swap | bash="+exe+" param1=do_stop terminal=false refresh=true")
	assert.Contains(t, out, "Restart Llama-Swap | bash="+exe+" param1=do_restart terminal=false refresh=true")
	assert.NotContains(t, out, "Start Llama-Swap")

	assert.Contains(t, out, "qwen:7b · Running | color=#34c759")
	assert.Contains(t, out, "Queue: 1 active\n")
	assert.Contains(t, out, "Gen: 25.0 tok/s | image=")
	assert.Contains(t, out, "Prompt: 300.0 tok/s | image=")
	assert.Contains(t, out, "--Mean: 25.0 tok/s\n")
	assert.Contains(t, out, "--Min / Max: 25.0 / 25.0\n")
	assert.Contains(t, out, "--σ: 0\n")
	assert.Contains(t, out, "--3 samples over 2s")
	assert.NotContains(t, out, "Memory: 0")

	assert.Contains(t, out, "CPU: 20.0% | image=")
	assert.Contains(t, out, "Memory: 12.0 GB (40%) | image=")
	assert.Contains(t, out, "Llama memory: 2.0 GB | image=")

	n := len(ls)
	assert.Equal(t, Separator, ls[n-4])
	assert.Equal(t, "Open Logs | bash="+exe+" param1=open_logs terminal=false refresh=true", ls[n-3])
	assert.Equal(t, "Open Config | bash="+exe+" param1=open_config terminal=false refresh=true", ls[n-2])
	assert.Equal(t, "Refresh | refresh=true", ls[n-1])
}

func TestBuildMenuControls(t *testing.T) {
	tests := []struct {
		agent   state.AgentState
		want    []string
		notWant []string
	}{
		{
			agent: state.AgentBinaryNotFound,
			want: []string{
				"Cannot find llama-swap in $PATH",
				"Install llama-swap binary first: brew install llama-swap",
			},
			notWant: []string{"param1=do_start", "param1=do_install"},
		},
		{
			agent:   state.AgentPlistMissing,
			want:    []string{"Install Llama-Swap Service | bash=" + exe + " param1=do_install"},
			notWant: []string{"param1=do_start", "param1=do_stop"},
		},
		{
			agent:   state.AgentStopped,
			want:    []string{"Start Llama-Swap | bash=" + exe + " param1=do_start", "--Uninstall Service"},
			notWant: []string{"param1=do_stop", "param1=do_restart"},
		},
		{
			agent:   state.AgentStarting,
			want:    []string{"param1=do_stop", "param1=do_restart"},
			notWant: []string{"param1=do_start"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.agent.String(), func(t *testing.T) {
			out := BuildMenu(Snapshot{Agent: tt.agent, Executable: exe})
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}

func TestBuildMenuAPIDown(t *testing.T) {
	snap := runningSnapshot()
	snap.Models = nil
	snap.ErrorCount = 3
	snap.Display = state.AgentStartingUp

	out := BuildMenu(snap)

	assert.Contains(t, out, "Starting agent... | color=#ff9500")
	assert.Contains(t, out, "--API errors: 3 | color=#ff3b30")
	// History survives an outage.
	assert.Contains(t, out, "qwen:7b · unloaded | color=#8e8e93")
	assert.Contains(t, out, "Gen: 25.0 tok/s")
	assert.NotContains(t, out, "Queue:")
}

func TestBuildMenuWithoutHistory(t *testing.T) {
	out := BuildMenu(Snapshot{Agent: state.AgentRunning, Executable: exe})
	assert.NotContains(t, out, "System")
	assert.Contains(t, out, "Refresh | refresh=true")
}

func TestBuildErrorMenu(t *testing.T) {
	assert.Equal(t, "⚠️ Error\n---\nFailed to load config | color=red\n", BuildErrorMenu("Failed to load config"))
	assert.Equal(t, "⚠️ Error\n---\na b | color=red\n", BuildErrorMenu("a\nb"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0", formatValue(0))
	assert.Equal(t, "3.14", formatValue(3.14159))
	assert.Equal(t, "25.0", formatValue(25))
	assert.Equal(t, "1234", formatValue(1234.4))
	assert.Equal(t, "512 MB", formatMB(512))
	assert.Equal(t, "4.0 GB", formatMB(4096))
}

func TestBuildMenuServiceHealth(t *testing.T) {
	tests := []struct {
		name   string
		status service.Status
		want   string
	}{
		{"all layers up", service.Status{PlistInstalled: true, Loaded: true, ProcessRunning: true, APIResponsive: true}, "--Service: Running\n"},
		{"started by hand", service.Status{ProcessRunning: true, APIResponsive: true}, "--Service: Running · Not installed\n"},
		{"api silent", service.Status{PlistInstalled: true, Loaded: true, ProcessRunning: true}, "--Service: Unknown · Process running but API unresponsive\n"},
		{"stopped", service.Status{PlistInstalled: true}, "--Service: Stopped\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := runningSnapshot()
			s.Service = tt.status
			assert.Contains(t, BuildMenu(s), tt.want)
		})
	}
}
