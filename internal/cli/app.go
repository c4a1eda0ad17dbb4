package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/llamabar/internal/config"
	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/rileyhilliard/llamabar/internal/exec"
	"github.com/rileyhilliard/llamabar/internal/logger"
	"github.com/rileyhilliard/llamabar/internal/metrics"
	"github.com/rileyhilliard/llamabar/internal/plugin"
	"github.com/rileyhilliard/llamabar/internal/service"
	"github.com/rileyhilliard/llamabar/internal/watch"
)

// app wires the loaded config to the components every command shares.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	client  *metrics.Client
	system  *metrics.SystemCollector
	launchd *service.Launchd
	checker *service.Checker
	exe     string
}

func newApp() (*app, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		log:    logger.Default(),
		client: metrics.NewClient(cfg.API, logger.NewEnvLogger("[api]")),
		system: metrics.NewSystemCollector(cfg.Polling.CPUSample, logger.NewEnvLogger("[system]")),
		exe:    executablePath(),
	}
	a.launchd = service.NewLaunchd(cfg.Service.Label, cfg.Service.PlistPath, exec.Run, logger.NewEnvLogger("[launchd]"))
	a.checker = service.NewChecker(a.launchd, a.system, cfg.Service.Binary)
	return a, nil
}

func (a *app) plugin() *plugin.Plugin {
	return plugin.New(a.cfg, plugin.Deps{
		API:        a.client,
		System:     a.system,
		Checker:    a.checker,
		Executable: a.exe,
	})
}

// actions backs the interactive hosts with the same operations as the
// do_* subcommands.
func (a *app) actions() plugin.Actions {
	return plugin.Actions{
		Start:   a.launchd.Start,
		Stop:    a.launchd.Stop,
		Restart: a.launchd.Restart,
		Install: a.install,
		OpenLogs: func(context.Context) error {
			return service.Open(a.cfg.Service.LogPath, nil)
		},
		OpenConfig: func(context.Context) error {
			return service.Open(a.cfg.Service.ConfigPath, nil)
		},
	}
}

func (a *app) install(ctx context.Context) error {
	bin, err := a.checker.FindBinary()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"Cannot find llama-swap in $PATH",
			"Install llama-swap binary first: brew install llama-swap")
	}
	return a.launchd.Install(ctx, service.AgentSpec{
		Label:      a.cfg.Service.Label,
		Binary:     bin,
		ConfigPath: a.cfg.Service.ConfigPath,
		Listen:     a.cfg.Service.Listen,
		LogPath:    a.cfg.Service.LogPath,
	})
}

// watchChanges watches llama-swap's config. A watcher that fails to start
// is logged and yields a nil channel, which never fires.
func (a *app) watchChanges() (<-chan struct{}, func()) {
	w, err := watch.New(logger.NewEnvLogger("[watch]"), watch.DefaultDebounce, a.cfg.Service.ConfigPath)
	if err != nil {
		a.log.Warn("config watch disabled: %v", err)
		return nil, func() {}
	}
	return w.Changes(), func() { _ = w.Close() }
}

// executablePath is what menu actions invoke to call back into llamabar.
func executablePath() string {
	exe, err := os.Executable()
	if err != nil {
		return os.Args[0]
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}
