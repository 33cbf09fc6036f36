package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentdeck/provisioner/internal/hostconfig"
	"github.com/agentdeck/provisioner/internal/manifest"
	"github.com/agentdeck/provisioner/internal/params"
	"github.com/agentdeck/provisioner/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the installation matches expectations",
	Long: `Run the installation report: a set of independent checks covering the
parameter file, installed provider packages, the orchestrator runtime, the
node/npx subprocess CLI, and the provider registration inside AgentDeck's
configuration file.

Warnings are advisory; the command exits non-zero only when a check fails
hard.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	set, err := params.Load(envFile)
	if err != nil {
		return err
	}

	m, err := manifest.Load()
	if err != nil {
		return err
	}

	targetPath, err := hostconfig.Locate()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Validating AgentDeck installation:")
	runner := report.NewRunner(cmd.OutOrStdout(),
		report.DefaultChecks(envFile, set.InstallDir(), m, targetPath))
	return runner.Run()
}
