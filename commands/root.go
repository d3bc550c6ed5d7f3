package commands

import (
	"github.com/spf13/cobra"
	"p9e.in/ncac/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "ncac",
	Short: "Non-conformance and corrective action registry",
	Long: `ncac records non-conformances (NC) with their root cause analysis and
corrective actions. Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg.Port)
	},
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// SetConfig hands the loaded configuration to every command.
func SetConfig(c config.Config) {
	cfg = c
}

// SetVersion enables --version on the root command.
func SetVersion(version, buildTime string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("Version:   {{.Version}}\nBuildTime: " + buildTime + "\n")
}
