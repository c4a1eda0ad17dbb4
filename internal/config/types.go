package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
const CurrentConfigVersion = 1

// MetricsFileName is the history snapshot written to the plugin data dir.
const MetricsFileName = "llamabar-metrics.json"

// Config represents the complete llamabar configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Service ServiceConfig `yaml:"service" mapstructure:"service"`
	Polling PollingConfig `yaml:"polling" mapstructure:"polling"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Chart   ChartConfig   `yaml:"chart" mapstructure:"chart"`
}

// APIConfig points at the llama-swap HTTP API.
type APIConfig struct {
	// BaseURL is scheme and host, without port.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	Port int `yaml:"port" mapstructure:"port"`

	// Timeout bounds every request, including per-model metric scrapes.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Endpoint returns BaseURL joined with Port.
func (a APIConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", a.BaseURL, a.Port)
}

// ServiceConfig describes the llama-swap LaunchAgent.
type ServiceConfig struct {
	// Label is the launchd job label.
	Label string `yaml:"label" mapstructure:"label"`

	// Binary is the llama-swap executable. Empty means search $PATH and Homebrew.
	Binary string `yaml:"binary" mapstructure:"binary"`

	PlistPath  string `yaml:"plist_path" mapstructure:"plist_path"`
	ConfigPath string `yaml:"config_path" mapstructure:"config_path"`
	LogPath    string `yaml:"log_path" mapstructure:"log_path"`

	// Listen is passed to llama-swap as --listen when installing the agent.
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// PollingConfig controls the adaptive polling loop.
type PollingConfig struct {
	// Streaming keeps the process alive under SwiftBar and emits frames.
	Streaming bool `yaml:"streaming" mapstructure:"streaming"`

	IdleInterval     time.Duration `yaml:"idle_interval" mapstructure:"idle_interval"`
	ActiveInterval   time.Duration `yaml:"active_interval" mapstructure:"active_interval"`
	StartingInterval time.Duration `yaml:"starting_interval" mapstructure:"starting_interval"`

	// StartingDwell is the minimum time spent in Starting after a state change.
	StartingDwell time.Duration `yaml:"starting_dwell" mapstructure:"starting_dwell"`

	// CPUSample is the window used to measure CPU usage.
	CPUSample time.Duration `yaml:"cpu_sample" mapstructure:"cpu_sample"`
}

// HistoryConfig controls metric retention.
type HistoryConfig struct {
	// Size is the per-series ring capacity.
	Size int `yaml:"size" mapstructure:"size"`

	// Retention drops samples older than this.
	Retention time.Duration `yaml:"retention" mapstructure:"retention"`

	// Persist saves history between one-shot invocations and on shutdown.
	Persist bool `yaml:"persist" mapstructure:"persist"`

	// DataDir holds the history snapshot. SWIFTBAR_PLUGIN_DATA_PATH wins when set.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// PersistPath returns the full path of the history snapshot.
func (h HistoryConfig) PersistPath() string {
	return filepath.Join(h.DataDir, MetricsFileName)
}

// ChartConfig sizes the sparkline images.
type ChartConfig struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
}

// DefaultConfig returns a Config with sensible defaults.
// Paths are left unexpanded; Load expands them.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: "http://127.0.0.1",
			Port:    45786,
			Timeout: time.Second,
		},
		Service: ServiceConfig{
			Label:      "com.user.llama-swap",
			PlistPath:  "~/Library/LaunchAgents/com.user.llama-swap.plist",
			ConfigPath: "~/.llamaswap/config.yaml",
			LogPath:    "~/Library/Logs/LlamaSwap.log",
			Listen:     "127.0.0.1:45786",
		},
		Polling: PollingConfig{
			Streaming:        true,
			IdleInterval:     3 * time.Second,
			ActiveInterval:   time.Second,
			StartingInterval: 2 * time.Second,
			StartingDwell:    5 * time.Second,
			CPUSample:        200 * time.Millisecond,
		},
		History: HistoryConfig{
			Size:      300,
			Retention: 5 * time.Minute,
			Persist:   true,
			DataDir:   "~/Library/Application Support/SwiftBar/PluginData",
		},
		Chart: ChartConfig{
			Width:  60,
			Height: 20,
		},
	}
}
