package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/rileyhilliard/llamabar/internal/exec"
	"github.com/rileyhilliard/llamabar/internal/logger"
)

// Launchd controls one LaunchAgent in the user's GUI domain.
type Launchd struct {
	label     string
	plistPath string
	uid       int
	run       exec.Runner
	log       logger.Logger
}

// NewLaunchd creates a controller for label whose plist lives at plistPath.
// A nil runner uses exec.Run.
func NewLaunchd(label, plistPath string, run exec.Runner, log logger.Logger) *Launchd {
	if run == nil {
		run = exec.Run
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Launchd{
		label:     label,
		plistPath: plistPath,
		uid:       os.Getuid(),
		run:       run,
		log:       log,
	}
}

// Label returns the job label.
func (l *Launchd) Label() string {
	return l.label
}

// PlistPath returns where the agent's plist is installed.
func (l *Launchd) PlistPath() string {
	return l.plistPath
}

// Domain is the launchd domain target, gui/<uid>.
func (l *Launchd) Domain() string {
	return fmt.Sprintf("gui/%d", l.uid)
}

// Target is the service target, gui/<uid>/<label>.
func (l *Launchd) Target() string {
	return l.Domain() + "/" + l.label
}

// List runs `launchctl list <label>`. A job is loaded when the command
// succeeds; it is running when the output carries a non-zero PID.
func (l *Launchd) List(ctx context.Context) (loaded bool, pid int) {
	out, err := l.run(ctx, "launchctl", "list", l.label)
	if err != nil {
		return false, 0
	}
	return true, parsePID(out)
}

// IsLoaded reports whether launchd knows about the job.
func (l *Launchd) IsLoaded(ctx context.Context) bool {
	loaded, _ := l.List(ctx)
	return loaded
}

// Start bootstraps the agent if needed, then kickstarts it.
func (l *Launchd) Start(ctx context.Context) error {
	if err := l.ensureBootstrapped(ctx); err != nil {
		return err
	}
	if _, err := l.run(ctx, "launchctl", "kickstart", l.Target()); err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"Failed to start service",
			"Check "+l.plistPath+" and the llama-swap log")
	}
	l.log.Info("started %s", l.label)
	return nil
}

// Stop boots the agent out. A job that is already gone is not an error.
func (l *Launchd) Stop(ctx context.Context) error {
	if err := l.bootout(ctx); err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"Failed to stop service",
			"Try: launchctl bootout "+l.Target())
	}
	l.log.Info("stopped %s", l.label)
	return nil
}

// Restart kills and relaunches the agent, bootstrapping it first if needed.
func (l *Launchd) Restart(ctx context.Context) error {
	if err := l.ensureBootstrapped(ctx); err != nil {
		return err
	}
	if _, err := l.run(ctx, "launchctl", "kickstart", "-k", l.Target()); err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"Failed to restart service",
			"Check "+l.plistPath+" and the llama-swap log")
	}
	l.log.Info("restarted %s", l.label)
	return nil
}

// Install writes the agent plist and loads it, replacing a loaded copy.
func (l *Launchd) Install(ctx context.Context, spec AgentSpec) error {
	if spec.Label == "" {
		spec.Label = l.label
	}
	if err := WritePlist(l.plistPath, NewAgentPlist(spec)); err != nil {
		return err
	}

	if l.IsLoaded(ctx) {
		if err := l.bootout(ctx); err != nil {
			return errors.WrapWithCode(err, errors.ErrService, "Failed to unload previous agent", "")
		}
	}
	if _, err := l.run(ctx, "launchctl", "bootstrap", l.Domain(), l.plistPath); err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"Failed to load service",
			"Check the plist with: plutil -lint "+l.plistPath)
	}
	l.log.Info("installed %s at %s", l.label, l.plistPath)
	return nil
}

// Uninstall unloads the agent and removes its plist.
func (l *Launchd) Uninstall(ctx context.Context) error {
	if err := l.bootout(ctx); err != nil {
		return errors.WrapWithCode(err, errors.ErrService, "Failed to stop service", "")
	}
	if err := os.Remove(l.plistPath); err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrService,
			"Failed to remove LaunchAgent plist",
			"Delete "+l.plistPath+" by hand")
	}
	l.log.Info("uninstalled %s", l.label)
	return nil
}

func (l *Launchd) ensureBootstrapped(ctx context.Context) error {
	if l.IsLoaded(ctx) {
		return nil
	}
	if _, err := os.Stat(l.plistPath); err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"LaunchAgent is not installed",
			"Use 'Install Llama-Swap Service' from the menu, or run: llamabar do_install")
	}
	if _, err := l.run(ctx, "launchctl", "bootstrap", l.Domain(), l.plistPath); err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"Failed to load service",
			"Check the plist with: plutil -lint "+l.plistPath)
	}
	return nil
}

func (l *Launchd) bootout(ctx context.Context) error {
	_, err := l.run(ctx, "launchctl", "bootout", l.Target())
	if err != nil && isMissingJob(err) {
		l.log.Debug("bootout %s: job not loaded", l.label)
		return nil
	}
	return err
}

// isMissingJob matches launchctl's "not loaded" failures: exit 3 (ESRCH)
// and 113 ("Could not find service").
func isMissingJob(err error) bool {
	switch exec.ExitCode(err) {
	case 3, 113:
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such process") ||
		strings.Contains(msg, "could not find") ||
		strings.Contains(msg, "not loaded")
}

// parsePID extracts the value of a `"PID" = 1234;` line.
func parsePID(out string) int {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, `"PID"`) {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return 0
		}
		val := strings.Trim(strings.TrimSpace(parts[1]), `;" `)
		pid, err := strconv.Atoi(val)
		if err != nil || pid <= 0 {
			return 0
		}
		return pid
	}
	return 0
}
