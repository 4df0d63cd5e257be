package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskman/cmd/taskman/output"
	"taskman/internal/infrastructure/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage taskman configuration settings.

Configuration is stored in YAML format at:
  ~/.config/taskman/config.yml

The 'api' section points the client at the backend; the 'server' section
is read by taskmand.

Examples:
  # Show current configuration
  taskman config show

  # Show config file location
  taskman config path

  # Write a fresh default config
  taskman config init --force`,
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if formatter.Format() == output.FormatText || formatter.Format() == output.FormatIDs {
			return output.NewFormatter(output.FormatYAML, os.Stdout).Print(cfg)
		}
		return formatter.Print(cfg)
	},
}

// configPathCmd shows the config file path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(cfgFile)
		return nil
	},
}

// configInitCmd writes the default configuration
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default configuration to the config file.

An existing file is only replaced with --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(cfgFile); err == nil && !force {
			ok, err := printer.Confirm("Replace %s with defaults?", cfgFile)
			if err != nil {
				return err
			}
			if !ok {
				printer.Info("Config unchanged")
				return nil
			}
		}

		if err := config.NewLoaderAt(cfgFile).Save(config.DefaultConfig()); err != nil {
			return err
		}
		printer.Success("Wrote default config to %s", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite without confirmation")
}
