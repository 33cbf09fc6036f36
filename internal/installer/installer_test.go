package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdeck/provisioner/internal/hostconfig"
	"github.com/agentdeck/provisioner/internal/logging"
)

func newTestInstaller(t *testing.T, envContent string) (*Installer, string) {
	t.Helper()
	dir := t.TempDir()

	envFile := filepath.Join(dir, ".env")
	if envContent != "" {
		require.NoError(t, os.WriteFile(envFile, []byte(envContent), 0644))
	}

	target := filepath.Join(dir, "AgentDeck", "agentdeck_config.json")
	inst := New(envFile)
	inst.LocateTarget = func() (string, error) { return target, nil }
	inst.Log = logging.Logger
	return inst, target
}

func TestRunProvisionsFreshTarget(t *testing.T) {
	inst, target := newTestInstaller(t, "INSTALL_DIR=/opt/agentdeck\nTRACKER_ACCESS_TOKEN=tok-1\n")

	result, err := inst.Run()
	require.NoError(t, err)
	assert.Empty(t, result.BackupPath)
	assert.Equal(t, 4, result.Added)

	data, err := os.ReadFile(target)
	require.NoError(t, err)

	doc, err := hostconfig.Parse(data)
	require.NoError(t, err)
	require.Contains(t, doc.Servers, "agentdeck-orchestrator")

	orchestrator, err := doc.DecodeServer("agentdeck-orchestrator")
	require.NoError(t, err)
	assert.Equal(t, "/opt/agentdeck", orchestrator.Env["AGENTDECK_HOME"])

	tracker, err := doc.DecodeServer("agentdeck-tracker")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", tracker.Headers["Authorization"])
}

func TestRunMissingEnvFileUsesDefaults(t *testing.T) {
	inst, target := newTestInstaller(t, "")

	_, err := inst.Run()
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)

	doc, err := hostconfig.Parse(data)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	orchestrator, err := doc.DecodeServer("agentdeck-orchestrator")
	require.NoError(t, err)
	assert.Equal(t, home, orchestrator.Env["AGENTDECK_HOME"])
}

func TestRunPreservesForeignProviders(t *testing.T) {
	inst, target := newTestInstaller(t, "")

	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, []byte(`{"mcpServers":{"other-tool":{"command":"other"}}}`), 0644))

	result, err := inst.Run()
	require.NoError(t, err)
	assert.NotEmpty(t, result.BackupPath, "pre-existing entries require a backup")
	assert.Equal(t, 1, result.Kept)

	data, err := os.ReadFile(target)
	require.NoError(t, err)

	doc, err := hostconfig.Parse(data)
	require.NoError(t, err)
	assert.Contains(t, doc.Servers, "other-tool")
	assert.Contains(t, doc.Servers, "agentdeck-workspace")
}

func TestRunFailsOnCorruptTarget(t *testing.T) {
	inst, target := newTestInstaller(t, "")

	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, []byte("not json at all"), 0644))

	_, err := inst.Run()
	assert.Error(t, err)
}

func TestRunFailsWhenTargetCannotBeLocated(t *testing.T) {
	inst, _ := newTestInstaller(t, "")
	inst.LocateTarget = func() (string, error) { return "", hostconfig.ErrUnsupportedOS }

	_, err := inst.Run()
	assert.ErrorIs(t, err, hostconfig.ErrUnsupportedOS)
}

func TestRunFailsOnUnreadableEnvFile(t *testing.T) {
	dir := t.TempDir()
	// A directory where the parameter file should be is a read failure,
	// not absence, and must abort the run.
	envDir := filepath.Join(dir, ".env")
	require.NoError(t, os.MkdirAll(envDir, 0755))

	inst := New(envDir)
	inst.LocateTarget = func() (string, error) { return filepath.Join(dir, "cfg.json"), nil }

	_, err := inst.Run()
	assert.Error(t, err)
}
