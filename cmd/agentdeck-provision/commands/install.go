package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentdeck/provisioner/internal/installer"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Render and merge the provider entries into AgentDeck's configuration",
	Long: `Run the full provisioning flow: resolve parameters from the env file
(or built-in defaults), render the provider template, and merge the result
into AgentDeck's configuration file.

Entries written by AgentDeck or other tools are preserved. When the file
already has provider entries, a timestamped backup is written next to it
before anything is changed.`,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	result, err := installer.New(envFile).Run()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Provisioned %s (%d added, %d replaced, %d kept)\n",
		result.TargetPath, result.Added, result.Replaced, result.Kept)
	if result.BackupPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Previous configuration backed up to %s\n", result.BackupPath)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Restart AgentDeck to pick up the new providers.")
	return nil
}
