package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdeck/provisioner/internal/manifest"
)

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Orchestrator: "@agentdeck/orchestrator",
		Providers: []manifest.Provider{
			{Name: "agentdeck-orchestrator", Package: "@agentdeck/orchestrator"},
			{Name: "agentdeck-tracker"},
		},
	}
}

func TestRunnerReportsFailuresWithoutShortCircuit(t *testing.T) {
	var buf bytes.Buffer
	ran := 0
	mk := func(status Status, name string) Check {
		return func() Result {
			ran++
			return Result{Name: name, Status: status}
		}
	}

	runner := NewRunner(&buf, []Check{
		mk(StatusPass, "first"),
		mk(StatusFail, "second"),
		mk(StatusWarn, "third"),
		mk(StatusFail, "fourth"),
	})

	err := runner.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 validation check(s) failed")
	assert.Equal(t, 4, ran, "a failure must not short-circuit later checks")

	out := buf.String()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "fourth")
}

func TestRunnerWarningsDoNotFail(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(&buf, []Check{
		func() Result { return Result{Name: "advisory", Status: StatusWarn, Detail: "heads up"} },
	})

	assert.NoError(t, runner.Run())
	assert.Contains(t, buf.String(), "heads up")
}

func TestCheckParameterFile(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(present, []byte("DEBUG=true\n"), 0644))

	assert.Equal(t, StatusPass, CheckParameterFile(present)().Status)

	res := CheckParameterFile(filepath.Join(dir, "missing.env"))()
	assert.Equal(t, StatusWarn, res.Status)
	assert.Contains(t, res.Detail, "defaults")
}

func TestCheckProviderPackage(t *testing.T) {
	installDir := t.TempDir()
	pkgDir := filepath.Join(installDir, "node_modules", "@agentdeck", "orchestrator")
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(`{"name":"@agentdeck/orchestrator"}`), 0644))

	assert.Equal(t, StatusPass, CheckProviderPackage(installDir, "@agentdeck/orchestrator")().Status)

	res := CheckProviderPackage(installDir, "@agentdeck/provider-workspace")()
	assert.Equal(t, StatusFail, res.Status)
	assert.Contains(t, res.Detail, "not installed")
}

func TestCheckOrchestratorRuntime(t *testing.T) {
	installDir := t.TempDir()
	m := testManifest()

	res := CheckOrchestratorRuntime(installDir, m)()
	assert.Equal(t, StatusFail, res.Status)

	require.NoError(t, os.MkdirAll(filepath.Join(installDir, "node_modules", "@agentdeck", "orchestrator"), 0755))
	assert.Equal(t, StatusPass, CheckOrchestratorRuntime(installDir, m)().Status)
}

func TestCheckSubprocessCLIMissingFromPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	res := CheckSubprocessCLI()()
	assert.Equal(t, StatusFail, res.Status)
	assert.Contains(t, res.Detail, "not found on PATH")
}

func TestCheckRegistration(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "agentdeck_config.json")
	m := testManifest()

	// Target absent: not provisioned yet.
	res := CheckRegistration(target, m)()
	assert.Equal(t, StatusFail, res.Status)

	// One of two providers registered.
	require.NoError(t, os.WriteFile(target, []byte(`{"mcpServers":{"agentdeck-orchestrator":{"command":"npx"}}}`), 0644))
	res = CheckRegistration(target, m)()
	assert.Equal(t, StatusFail, res.Status)
	assert.Contains(t, res.Detail, "agentdeck-tracker")

	// All registered.
	require.NoError(t, os.WriteFile(target, []byte(`{
		"mcpServers": {
			"agentdeck-orchestrator": {"command": "npx"},
			"agentdeck-tracker": {"url": "http://localhost:8765/mcp"}
		}
	}`), 0644))
	res = CheckRegistration(target, m)()
	assert.Equal(t, StatusPass, res.Status)
}

func TestDefaultChecksCoverEveryConcern(t *testing.T) {
	m := testManifest()
	checks := DefaultChecks(".env", t.TempDir(), m, filepath.Join(t.TempDir(), "agentdeck_config.json"))

	// parameter file + orchestrator + one per package + CLI + registration
	assert.Len(t, checks, 2+len(m.Packages())+2)
}
