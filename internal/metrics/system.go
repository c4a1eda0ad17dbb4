package metrics

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/rileyhilliard/llamabar/internal/logger"
)

// LlamaBinaries are the process names treated as part of the llama stack.
var LlamaBinaries = []string{"llama-server", "llama-swap", "llama-cli"}

const bytesPerMB = 1024 * 1024
const bytesPerGB = 1024 * 1024 * 1024

// procSnapshot is the subset of a process the matcher needs.
type procSnapshot struct {
	PID     int32
	Name    string
	Cmdline []string
	RSS     uint64
}

// SystemCollector samples host CPU, memory and llama processes via gopsutil.
type SystemCollector struct {
	cpuWindow time.Duration
	log       logger.Logger

	// overridable in tests
	listProcs func(ctx context.Context) ([]procSnapshot, error)
	cpuSample func(ctx context.Context, window time.Duration) (float64, error)
	memSample func(ctx context.Context) (used, total uint64, err error)
}

// NewSystemCollector creates a collector that measures CPU over window.
func NewSystemCollector(window time.Duration, log logger.Logger) *SystemCollector {
	if log == nil {
		log = logger.Noop()
	}
	return &SystemCollector{
		cpuWindow: window,
		log:       log,
		listProcs: listProcesses,
		cpuSample: sampleCPU,
		memSample: sampleMemory,
	}
}

// Collect returns host CPU and memory usage. Probe failures leave zeros.
func (c *SystemCollector) Collect(ctx context.Context) SystemMetrics {
	var sm SystemMetrics

	if pct, err := c.cpuSample(ctx, c.cpuWindow); err != nil {
		c.log.Debug("cpu sample failed: %v", err)
	} else {
		sm.CPUPercent = pct
	}

	used, total, err := c.memSample(ctx)
	if err != nil {
		c.log.Debug("memory sample failed: %v", err)
		return sm
	}
	sm.UsedMemoryGB = float64(used) / bytesPerGB
	if total > 0 {
		sm.MemoryPercent = float64(used) / float64(total) * 100
	}
	return sm
}

// LlamaProcesses lists running llama-server, llama-swap and llama-cli processes.
func (c *SystemCollector) LlamaProcesses(ctx context.Context) []ProcessInfo {
	procs, err := c.listProcs(ctx)
	if err != nil {
		c.log.Debug("process listing failed: %v", err)
		return nil
	}

	var out []ProcessInfo
	for _, p := range procs {
		cmdline := strings.Join(p.Cmdline, " ")
		if !isLlamaProcess(p.Name, cmdline) {
			continue
		}
		out = append(out, ProcessInfo{
			PID:           p.PID,
			Name:          p.Name,
			MemoryMB:      float64(p.RSS) / bytesPerMB,
			InferredModel: InferModel(p.Cmdline),
		})
	}
	return out
}

// LlamaMemoryMB sums the RSS of all llama processes.
func LlamaMemoryMB(procs []ProcessInfo) float64 {
	var total float64
	for _, p := range procs {
		total += p.MemoryMB
	}
	return total
}

// ModelMemoryMB sums the RSS of processes serving model.
func ModelMemoryMB(procs []ProcessInfo, model string) float64 {
	var total float64
	for _, p := range procs {
		if p.InferredModel != "" && modelMatches(p.InferredModel, model) {
			total += p.MemoryMB
		}
	}
	return total
}

// modelMatches compares a gguf-derived name with a llama-swap model id.
// llama-swap ids are often shorter aliases ("qwen2.5:7b") of the file name.
func modelMatches(inferred, model string) bool {
	if model == "" {
		return false
	}
	a := strings.ToLower(inferred)
	b := strings.ToLower(strings.ReplaceAll(model, ":", "-"))
	return a == strings.ToLower(model) || a == b || strings.Contains(a, b)
}

// isLlamaProcess matches the binary name or a command line that runs one,
// but not processes that merely mention the binary in an argument.
func isLlamaProcess(name, cmdline string) bool {
	for _, bin := range LlamaBinaries {
		if name == bin {
			return true
		}
		if strings.HasPrefix(cmdline, bin+" ") || cmdline == bin {
			return true
		}
		if strings.Contains(cmdline, "/"+bin+" ") || strings.HasSuffix(cmdline, "/"+bin) {
			return true
		}
	}
	return false
}

// InferModel derives a display name from a llama-server command line:
// the --alias value, else the --model basename without .gguf, else
// "Port N" from --port.
func InferModel(args []string) string {
	if v := flagValue(args, "--alias", "-a"); v != "" {
		return v
	}
	if v := flagValue(args, "--model", "-m"); v != "" {
		return strings.TrimSuffix(filepath.Base(v), ".gguf")
	}
	if v := flagValue(args, "--port"); v != "" {
		return "Port " + v
	}
	return ""
}

func flagValue(args []string, names ...string) string {
	for i, a := range args {
		for _, n := range names {
			if a == n && i+1 < len(args) {
				return args[i+1]
			}
			if strings.HasPrefix(a, n+"=") {
				return strings.TrimPrefix(a, n+"=")
			}
		}
	}
	return ""
}

func sampleCPU(ctx context.Context, window time.Duration) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, nil
	}
	return pcts[0], nil
}

func sampleMemory(ctx context.Context) (uint64, uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	return vm.Used, vm.Total, nil
}

func listProcesses(ctx context.Context) ([]procSnapshot, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]procSnapshot, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		args, _ := p.CmdlineSliceWithContext(ctx)

		snap := procSnapshot{PID: p.Pid, Name: name, Cmdline: args}
		// only pay for memory info on candidates
		if isLlamaProcess(name, strings.Join(args, " ")) {
			if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
				snap.RSS = mi.RSS
			}
		}
		out = append(out, snap)
	}
	return out, nil
}

// FindByName returns the first process whose name or command line matches bin.
func (c *SystemCollector) FindByName(ctx context.Context, bin string) (ProcessInfo, bool) {
	procs, err := c.listProcs(ctx)
	if err != nil {
		c.log.Debug("process listing failed: %v", err)
		return ProcessInfo{}, false
	}
	for _, p := range procs {
		cmdline := strings.Join(p.Cmdline, " ")
		if p.Name == bin || strings.HasPrefix(cmdline, bin+" ") || strings.Contains(cmdline, "/"+bin+" ") ||
			cmdline == bin || strings.HasSuffix(cmdline, "/"+bin) {
			return ProcessInfo{PID: p.PID, Name: p.Name, MemoryMB: float64(p.RSS) / bytesPerMB}, true
		}
	}
	return ProcessInfo{}, false
}
