// Package exec runs local commands for service control and file opening.
package exec

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/llamabar/internal/errors"
)

// Runner executes a command and returns its trimmed combined output.
// Service code takes a Runner so tests can substitute a fake.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// CommandError is returned when a command ran but exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, e.Output)
}

// Run is the default Runner.
func Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	msg := strings.TrimSpace(string(out))

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return msg, &CommandError{
				Command:  strings.TrimSpace(name + " " + strings.Join(args, " ")),
				ExitCode: exitErr.ExitCode(),
				Output:   msg,
			}
		}
		return msg, errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't run "+name,
			"Make sure the command exists and is executable.")
	}
	return msg, nil
}

// ExitCode extracts the exit code from a Runner error, or -1.
func ExitCode(err error) int {
	var ce *CommandError
	if stderrors.As(err, &ce) {
		return ce.ExitCode
	}
	return -1
}

// Start launches a command without waiting for it, for GUI helpers like open(1).
func Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't run "+name,
			"Make sure the command exists and is executable.")
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
