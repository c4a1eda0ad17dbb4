package exec

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rileyhilliard/llamabar/internal/config"
)

// CommonBinPaths are typical install locations that SwiftBar's minimal
// PATH does not include.
var CommonBinPaths = []string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"~/.local/bin",
	"~/go/bin",
}

// LookPath searches $PATH, then CommonBinPaths, for an executable named cmd.
func LookPath(cmd string) (string, error) {
	if p, err := exec.LookPath(cmd); err == nil {
		return p, nil
	}

	for _, dir := range CommonBinPaths {
		candidate := filepath.Join(config.ExpandTilde(dir), cmd)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", &exec.Error{Name: cmd, Err: exec.ErrNotFound}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}
