package cli

import (
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/llamabar/internal/logger"
	"github.com/rileyhilliard/llamabar/internal/tray"
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Run as a native menu bar item without SwiftBar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		changes, stop := a.watchChanges()
		defer stop()
		return tray.New(a.plugin(), a.actions(), changes, logger.NewEnvLogger("[tray]")).Run(cmd.Context())
	},
}

func init() {
	trayCmd.Hidden = !tray.Supported()
	rootCmd.AddCommand(trayCmd)
}
