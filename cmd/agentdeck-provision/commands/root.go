// Package commands provides the CLI commands for the AgentDeck provisioner.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentdeck/provisioner/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	envFile  string
	logLevel string
	jsonLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "agentdeck-provision",
	Short: "Provision AgentDeck's MCP provider configuration",
	Long: `agentdeck-provision registers a set of MCP providers with the AgentDeck
desktop application by merging rendered provider entries into AgentDeck's
configuration file.

The configuration file is owned by AgentDeck: entries written by other tools
are preserved, and a timestamped backup is taken before any pre-existing
entries are touched.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{
			Level:  logging.ParseLevel(logLevel),
			Pretty: !jsonLogs,
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand, show help
		cmd.Help()
	},
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "KEY=VALUE parameter file (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit structured JSON logs instead of console output")

	// Version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("agentdeck-provision %s (%s)\n", Version, BuildTime))

	// Add subcommands
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(validateCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
