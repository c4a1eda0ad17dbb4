package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/llamabar/internal/errors"
	"gopkg.in/yaml.v3"
)

var sectionComments = map[string]string{
	"api":     "llama-swap HTTP API",
	"service": "LaunchAgent that runs llama-swap",
	"polling": "Adaptive polling intervals (Go durations)",
	"history": "Sparkline history retention",
	"chart":   "Sparkline image size in pixels",
}

// fileView mirrors Config with durations as strings, so the written file
// reads "3s" instead of nanoseconds.
type fileView struct {
	Version int `yaml:"version"`
	API     struct {
		BaseURL string `yaml:"base_url"`
		Port    int    `yaml:"port"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Service ServiceConfig `yaml:"service"`
	Polling struct {
		Streaming        bool   `yaml:"streaming"`
		IdleInterval     string `yaml:"idle_interval"`
		ActiveInterval   string `yaml:"active_interval"`
		StartingInterval string `yaml:"starting_interval"`
		StartingDwell    string `yaml:"starting_dwell"`
		CPUSample        string `yaml:"cpu_sample"`
	} `yaml:"polling"`
	History struct {
		Size      int    `yaml:"size"`
		Retention string `yaml:"retention"`
		Persist   bool   `yaml:"persist"`
		DataDir   string `yaml:"data_dir"`
	} `yaml:"history"`
	Chart ChartConfig `yaml:"chart"`
}

func toFileView(cfg *Config) fileView {
	var f fileView
	f.Version = cfg.Version
	f.API.BaseURL = cfg.API.BaseURL
	f.API.Port = cfg.API.Port
	f.API.Timeout = cfg.API.Timeout.String()
	f.Service = cfg.Service
	f.Polling.Streaming = cfg.Polling.Streaming
	f.Polling.IdleInterval = cfg.Polling.IdleInterval.String()
	f.Polling.ActiveInterval = cfg.Polling.ActiveInterval.String()
	f.Polling.StartingInterval = cfg.Polling.StartingInterval.String()
	f.Polling.StartingDwell = cfg.Polling.StartingDwell.String()
	f.Polling.CPUSample = cfg.Polling.CPUSample.String()
	f.History.Size = cfg.History.Size
	f.History.Retention = cfg.History.Retention.String()
	f.History.Persist = cfg.History.Persist
	f.History.DataDir = cfg.History.DataDir
	f.Chart = cfg.Chart
	return f
}

// Marshal renders cfg as commented YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(toFileView(cfg)); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	for section, comment := range sectionComments {
		if key := findMapKey(&doc, section); key != nil {
			key.HeadComment = comment
		}
	}
	doc.HeadComment = "llamabar configuration. Environment overrides: LLAMABAR_<SECTION>_<KEY>."

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default config to path, creating parent dirs.
// An existing file is only replaced when overwrite is true.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config already exists: "+path,
				"Pass --force to overwrite it")
		}
	}

	data, err := Marshal(DefaultConfig())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to render default config", "")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory",
			"Check permissions on "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check permissions on "+path)
	}
	return nil
}

// findMapKey finds the key node for name in the document's top-level mapping.
func findMapKey(node *yaml.Node, name string) *yaml.Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == name {
			return keyNode
		}
	}

	return nil
}
