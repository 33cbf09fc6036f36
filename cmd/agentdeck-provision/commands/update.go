package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentdeck/provisioner/internal/installer"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update provider packages, then re-run install",
	Long: `Re-resolve the provider package versions with npm inside the
installation directory, then re-run the full provisioning flow so the
configuration reflects the updated packages.`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	result, err := installer.New(envFile).Update(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated and provisioned %s (%d added, %d replaced, %d kept)\n",
		result.TargetPath, result.Added, result.Replaced, result.Kept)
	return nil
}
