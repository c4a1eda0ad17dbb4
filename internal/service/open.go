package service

import (
	"os"

	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/rileyhilliard/llamabar/internal/exec"
)

// Opener launches a GUI helper without waiting for it.
type Opener func(name string, args ...string) error

// Open hands path to open(1). The file must exist.
func Open(path string, opener Opener) error {
	if opener == nil {
		opener = exec.Start
	}
	if _, err := os.Stat(path); err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"File not found: "+path,
			"Check the path in your llamabar config")
	}
	if err := opener("open", path); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec, "Failed to open "+path, "")
	}
	return nil
}
