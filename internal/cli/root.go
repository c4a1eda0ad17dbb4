package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/rileyhilliard/llamabar/internal/logger"
	"github.com/rileyhilliard/llamabar/internal/render"
	"github.com/rileyhilliard/llamabar/internal/ui"
)

// Global flags
var (
	configFlag  string
	verboseFlag bool
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "llamabar",
	Short: "Monitor and control llama-swap from the macOS menu bar",
	Long: `llamabar is a SwiftBar plugin for llama-swap.

It polls the llama-swap API for loaded models, throughput and queue depth,
draws a status icon with sparklines, and starts or stops the llama-swap
LaunchAgent from the menu.

Run without arguments from SwiftBar. From a terminal, try:
  llamabar preview
  llamabar dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verboseFlag)
		if noColorFlag || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlugin(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.config/llamabar/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

// Execute runs the command tree and exits with its status.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes args and returns the exit code. Failures of the plugin
// itself, panics included, still print a menu so SwiftBar shows them.
func run(args []string, stdout, stderr io.Writer) (code int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprint(stdout, render.BuildErrorMenu(fmt.Sprintf("Plugin crashed: %v", r)))
			fmt.Fprintf(stderr, "panic: %v\n", r)
			code = 1
		}
	}()

	resetContexts(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	if cmd == rootCmd {
		fmt.Fprint(stdout, render.BuildErrorMenu(errors.MenuText(err)))
	}
	fmt.Fprintln(stderr, err)
	return 1
}

// resetContexts clears contexts cobra kept from an earlier run, so every
// subcommand inherits the current one.
func resetContexts(cmd *cobra.Command) {
	cmd.SetContext(nil) //nolint:staticcheck
	for _, c := range cmd.Commands() {
		resetContexts(c)
	}
}
