package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd checks that the backend is reachable
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the backend connection",
	Long: `Call the backend health endpoint at api.base_url.

Exits with status 1 when the backend cannot be reached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		health, err := container.Client.Health(getContext(cmd))
		if err != nil {
			return fmt.Errorf("backend %s unavailable: %w", container.Client.BaseURL(), err)
		}

		if formatter.Structured() {
			return formatter.Print(health)
		}
		printer.Success("%s is %s", container.Client.BaseURL(), health.Status)
		return nil
	},
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion()
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
}
