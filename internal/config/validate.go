package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rileyhilliard/llamabar/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but llamabar only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade llamabar or lower the version field")
	}

	if err := validateAPI(cfg.API); err != nil {
		return err
	}

	if cfg.Service.Label == "" {
		return errors.New(errors.ErrConfig,
			"service.label is empty",
			"Set it to the launchd label of your llama-swap agent, e.g. com.user.llama-swap")
	}

	durations := []struct {
		key string
		val time.Duration
	}{
		{"polling.idle_interval", cfg.Polling.IdleInterval},
		{"polling.active_interval", cfg.Polling.ActiveInterval},
		{"polling.starting_interval", cfg.Polling.StartingInterval},
		{"history.retention", cfg.History.Retention},
	}
	for _, d := range durations {
		if d.val <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be positive, got %s", d.key, d.val),
				"Use a Go duration such as 1s, 500ms or 5m")
		}
	}

	if cfg.Polling.StartingDwell < 0 || cfg.Polling.CPUSample < 0 {
		return errors.New(errors.ErrConfig,
			"polling.starting_dwell and polling.cpu_sample cannot be negative",
			"Use 0 to disable them")
	}

	if cfg.History.Size <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history.size must be positive, got %d", cfg.History.Size),
			"300 keeps five minutes at the active polling rate")
	}

	if cfg.Chart.Width < 2 || cfg.Chart.Height < 2 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("chart size %dx%d is too small", cfg.Chart.Width, cfg.Chart.Height),
			"Use at least 2x2; the default is 60x20")
	}

	return nil
}

func validateAPI(api APIConfig) error {
	u, err := url.Parse(api.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("api.base_url %q is not a valid URL", api.BaseURL),
			"Use scheme and host only, e.g. http://127.0.0.1")
	}
	if api.Port <= 0 || api.Port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("api.port %d is out of range", api.Port),
			"llama-swap listens on 45786 unless configured otherwise")
	}
	if api.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"api.timeout must be positive",
			"Keep it short (1s) so the menu never stalls")
	}
	return nil
}
