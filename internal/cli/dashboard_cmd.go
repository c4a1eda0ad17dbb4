package cli

import (
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/llamabar/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live terminal view of llama-swap",
	Long: `Open a full-screen view with the same data as the menu: loaded models,
throughput sparklines, queue depth and system load. The service can be
started, stopped and restarted from the keyboard.`,
	Aliases: []string{"dash"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		p := a.plugin()
		p.LoadHistory()
		defer p.SaveHistory()

		changes, stop := a.watchChanges()
		defer stop()
		return dashboard.Run(cmd.Context(), p, a.actions(), changes)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
