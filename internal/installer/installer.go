// Package installer orchestrates the provisioning flow.
package installer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentdeck/provisioner/internal/hostconfig"
	"github.com/agentdeck/provisioner/internal/logging"
	"github.com/agentdeck/provisioner/internal/manifest"
	"github.com/agentdeck/provisioner/internal/params"
	"github.com/agentdeck/provisioner/internal/template"
)

// Installer runs the provisioning flow: load parameters, render the
// template, locate the target, merge and write. The steps run in strict
// sequence; any fatal error aborts the whole run and the operator re-runs
// after fixing the cause.
type Installer struct {
	// EnvFile is the KEY=VALUE parameter file. Its absence is not an error.
	EnvFile string
	// LocateTarget resolves the host configuration path; overridable so
	// tests can point at a temp directory.
	LocateTarget func() (string, error)
	Log          zerolog.Logger
}

// New returns an Installer reading parameters from envFile.
func New(envFile string) *Installer {
	return &Installer{
		EnvFile:      envFile,
		LocateTarget: hostconfig.Locate,
		Log:          logging.With().Str("component", "installer").Logger(),
	}
}

// Run executes the full provisioning flow and returns what it did.
func (i *Installer) Run() (*hostconfig.Result, error) {
	set, err := params.Load(i.EnvFile)
	if err != nil {
		return nil, err
	}
	if set.FromDefaults() {
		i.Log.Warn().Str("path", i.EnvFile).Msg("parameter file not found, using built-in defaults")
	} else {
		i.Log.Debug().Str("path", i.EnvFile).Msg("loaded parameters")
	}

	doc, err := template.Render(template.Default(), set)
	if err != nil {
		return nil, err
	}
	i.Log.Debug().Int("providers", len(doc.Servers)).Msg("rendered provider configuration")

	targetPath, err := i.LocateTarget()
	if err != nil {
		return nil, err
	}

	return hostconfig.NewProvisioner(targetPath).Provision(doc)
}

// Update re-resolves the provider package versions with npm inside the
// installation directory, then re-runs the provisioning flow.
func (i *Installer) Update(ctx context.Context) (*hostconfig.Result, error) {
	set, err := params.Load(i.EnvFile)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load()
	if err != nil {
		return nil, err
	}

	installDir := set.InstallDir()
	args := append([]string{"update"}, m.Packages()...)
	i.Log.Info().Str("dir", installDir).Strs("packages", m.Packages()).Msg("updating provider packages")

	cmd := exec.CommandContext(ctx, "npm", args...)
	cmd.Dir = installDir
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("npm update failed: %s: %w", strings.TrimSpace(string(output)), err)
	}

	return i.Run()
}
