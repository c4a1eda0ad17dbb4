package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/llamabar/internal/config"
	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/rileyhilliard/llamabar/internal/ui"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the llamabar config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long: `Write a config file populated with the defaults.

The file goes to --config when given, otherwise ~/.config/llamabar/config.yaml.
An existing file is kept unless you confirm or pass --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInit(cmd, configTarget(), configInitForce, isInteractive())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(configFlag)
		if err != nil {
			return err
		}
		if path == "" {
			cmd.Printf("%s no config file, using defaults (create one at %s)\n", ui.SymbolPending, config.DefaultPath())
			return nil
		}
		cmd.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(configFlag)
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config")
	configCmd.AddCommand(configInitCmd, configPathCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func configTarget() string {
	if configFlag != "" {
		return config.ExpandTilde(configFlag)
	}
	return config.DefaultPath()
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func configInit(cmd *cobra.Command, path string, force, interactive bool) error {
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Cannot determine a config location",
			"Pass --config with the file to create")
	}

	overwrite := force
	if _, err := os.Stat(path); err == nil && !force && interactive {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := config.WriteDefault(path, overwrite); err != nil {
		return err
	}

	cmd.Printf("%s Created %s\n\n", ui.SymbolSuccess, path)
	cmd.Println("Next steps:")
	cmd.Println("  llamabar preview     - Render the menu in this terminal")
	cmd.Println("  llamabar do_install  - Install the llama-swap LaunchAgent")
	return nil
}
