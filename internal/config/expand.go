package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return unchanged if we can't get home
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// Expand replaces ${HOME} and ${USER}, then expands a leading ~.
func Expand(s string) string {
	if s == "" {
		return s
	}

	result := s
	if strings.Contains(result, "${HOME}") {
		home, _ := os.UserHomeDir()
		result = strings.ReplaceAll(result, "${HOME}", home)
	}
	if strings.Contains(result, "${USER}") {
		result = strings.ReplaceAll(result, "${USER}", os.Getenv("USER"))
	}

	return ExpandTilde(result)
}

// expandPaths expands every filesystem path in cfg in place.
func expandPaths(cfg *Config) {
	cfg.Service.Binary = Expand(cfg.Service.Binary)
	cfg.Service.PlistPath = Expand(cfg.Service.PlistPath)
	cfg.Service.ConfigPath = Expand(cfg.Service.ConfigPath)
	cfg.Service.LogPath = Expand(cfg.Service.LogPath)
	cfg.History.DataDir = Expand(cfg.History.DataDir)
}
