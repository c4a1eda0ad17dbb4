package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/llamabar/internal/exec"
	"github.com/rileyhilliard/llamabar/internal/metrics"
)

// BinaryName is the llama-swap executable name.
const BinaryName = "llama-swap"

// ProcessFinder looks up a process by binary name.
type ProcessFinder interface {
	FindByName(ctx context.Context, bin string) (metrics.ProcessInfo, bool)
}

// Checker runs the layered service checks.
type Checker struct {
	launchd *Launchd
	procs   ProcessFinder
	binary  string

	lookPath func(string) (string, error)
}

// NewChecker creates a checker. binary is the configured llama-swap path,
// empty to search for it. procs may be nil to trust launchctl alone.
func NewChecker(l *Launchd, procs ProcessFinder, binary string) *Checker {
	return &Checker{
		launchd:  l,
		procs:    procs,
		binary:   binary,
		lookPath: exec.LookPath,
	}
}

// Check probes the plist file, launchd and the process table. apiOK is
// the outcome of the metrics fetch that ran this cycle.
func (c *Checker) Check(ctx context.Context, apiOK bool) Status {
	st := Status{APIResponsive: apiOK}

	if _, err := os.Stat(c.launchd.PlistPath()); err == nil {
		st.PlistInstalled = true
	}

	st.Loaded, st.PID = c.launchd.List(ctx)
	st.ProcessRunning = st.PID > 0

	if !st.ProcessRunning && c.procs != nil {
		name := BinaryName
		if c.binary != "" {
			name = filepath.Base(c.binary)
		}
		if p, ok := c.procs.FindByName(ctx, name); ok {
			st.ProcessRunning = true
			st.PID = int(p.PID)
		}
	}

	return st
}

// FindBinary returns the llama-swap executable path.
func (c *Checker) FindBinary() (string, error) {
	return FindBinary(c.binary, c.lookPath)
}

// BinaryAvailable reports whether llama-swap can be found.
func (c *Checker) BinaryAvailable() bool {
	_, err := c.FindBinary()
	return err == nil
}

// FindBinary resolves configured, or searches $PATH and Homebrew for llama-swap.
func FindBinary(configured string, lookPath func(string) (string, error)) (string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if configured != "" {
		if info, err := os.Stat(configured); err == nil && !info.IsDir() {
			return configured, nil
		}
		return lookPath(configured)
	}
	return lookPath(BinaryName)
}
