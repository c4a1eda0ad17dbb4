package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/llamabar/internal/config"
	"github.com/rileyhilliard/llamabar/internal/history"
	"github.com/rileyhilliard/llamabar/internal/render"
	"github.com/rileyhilliard/llamabar/internal/ui"
)

var uninstallPurge bool

// actionCmd builds a menu callback subcommand. These are hidden because
// SwiftBar invokes them; they still work from a terminal.
func actionCmd(use, short, done string, pick func(a *app) func(context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:    use,
		Short:  short,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := pick(a)(cmd.Context()); err != nil {
				return err
			}
			if done != "" {
				cmd.Printf("%s %s\n", ui.SymbolSuccess, done)
			}
			return nil
		},
	}
}

var uninstallCmd = &cobra.Command{
	Use:    render.ActionUninstall,
	Short:  "Remove the llama-swap LaunchAgent",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.launchd.Uninstall(cmd.Context()); err != nil {
			return err
		}
		cmd.Printf("%s Removed %s\n", ui.SymbolSuccess, a.launchd.PlistPath())
		if uninstallPurge {
			return purgeHistory(cmd, a.cfg)
		}
		return nil
	},
}

func purgeHistory(cmd *cobra.Command, cfg *config.Config) error {
	if err := history.Clear(cfg.History.PersistPath()); err != nil {
		return err
	}
	cmd.Printf("%s Cleared metric history\n", ui.SymbolSuccess)
	return nil
}

func init() {
	uninstallCmd.Flags().BoolVar(&uninstallPurge, "purge", false, "also delete saved metric history")

	rootCmd.AddCommand(
		actionCmd(render.ActionStart, "Start llama-swap", "Started llama-swap",
			func(a *app) func(context.Context) error { return a.launchd.Start }),
		actionCmd(render.ActionStop, "Stop llama-swap", "Stopped llama-swap",
			func(a *app) func(context.Context) error { return a.launchd.Stop }),
		actionCmd(render.ActionRestart, "Restart llama-swap", "Restarted llama-swap",
			func(a *app) func(context.Context) error { return a.launchd.Restart }),
		actionCmd(render.ActionInstall, "Install the llama-swap LaunchAgent", "Installed llama-swap LaunchAgent",
			func(a *app) func(context.Context) error { return a.install }),
		actionCmd(render.ActionOpenLogs, "Open the llama-swap log", "",
			func(a *app) func(context.Context) error { return a.actions().OpenLogs }),
		actionCmd(render.ActionOpenConfig, "Open the llama-swap config", "",
			func(a *app) func(context.Context) error { return a.actions().OpenConfig }),
		uninstallCmd,
	)
}
