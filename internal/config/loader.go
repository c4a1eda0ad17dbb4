package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/spf13/viper"
)

const (
	// GlobalConfigDir is the directory for the llamabar config, relative to home.
	GlobalConfigDir = ".config/llamabar"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix namespaces environment overrides (LLAMABAR_API_PORT etc).
	EnvPrefix = "LLAMABAR"
	// PluginDataEnv is set by SwiftBar to the plugin's private data directory.
	PluginDataEnv = "SWIFTBAR_PLUGIN_DATA_PATH"
)

// DefaultPath returns ~/.config/llamabar/config.yaml, or "" without a home dir.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. ~/.config/llamabar/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct, or run 'llamabar config init'")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if global := DefaultPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Load reads config from path over the defaults. An empty path loads defaults
// plus environment overrides only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'llamabar config init' to create one, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// LoadOrDefault loads the found config, or defaults when none exists.
// The plugin must render something even without a config file.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.port", d.API.Port)
	v.SetDefault("api.timeout", d.API.Timeout)

	v.SetDefault("service.label", d.Service.Label)
	v.SetDefault("service.binary", d.Service.Binary)
	v.SetDefault("service.plist_path", d.Service.PlistPath)
	v.SetDefault("service.config_path", d.Service.ConfigPath)
	v.SetDefault("service.log_path", d.Service.LogPath)
	v.SetDefault("service.listen", d.Service.Listen)

	v.SetDefault("polling.streaming", d.Polling.Streaming)
	v.SetDefault("polling.idle_interval", d.Polling.IdleInterval)
	v.SetDefault("polling.active_interval", d.Polling.ActiveInterval)
	v.SetDefault("polling.starting_interval", d.Polling.StartingInterval)
	v.SetDefault("polling.starting_dwell", d.Polling.StartingDwell)
	v.SetDefault("polling.cpu_sample", d.Polling.CPUSample)

	v.SetDefault("history.size", d.History.Size)
	v.SetDefault("history.retention", d.History.Retention)
	v.SetDefault("history.persist", d.History.Persist)
	v.SetDefault("history.data_dir", d.History.DataDir)

	v.SetDefault("chart.width", d.Chart.Width)
	v.SetDefault("chart.height", d.Chart.Height)
}

// parseConfig converts viper config to our Config struct.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		source := "environment overrides"
		if path != "" {
			source = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax and duration values in "+source)
	}

	if dir := os.Getenv(PluginDataEnv); dir != "" {
		cfg.History.DataDir = dir
	}
	expandPaths(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
