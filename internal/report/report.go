// Package report implements the post-install validation checks.
//
// Each check is side-effect-free and independent of the others: ordering is
// irrelevant and a failure never short-circuits later checks. Warnings are
// advisory and do not affect the exit status.
package report

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"

	"github.com/agentdeck/provisioner/internal/hostconfig"
	"github.com/agentdeck/provisioner/internal/manifest"
)

// Status classifies a check outcome.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

// Result is the outcome of one check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Check is a single validation producing one Result.
type Check func() Result

// Runner executes checks and reports to the operator.
type Runner struct {
	Out    io.Writer
	Checks []Check
}

// NewRunner returns a Runner writing to out.
func NewRunner(out io.Writer, checks []Check) *Runner {
	return &Runner{Out: out, Checks: checks}
}

// Run executes every check, prints one line per result, and returns an error
// iff any check failed hard.
func (r *Runner) Run() error {
	pass := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	failures := 0
	for _, check := range r.Checks {
		res := check()
		switch res.Status {
		case StatusPass:
			fmt.Fprintf(r.Out, "  %s %s", pass("✓"), res.Name)
		case StatusWarn:
			fmt.Fprintf(r.Out, "  %s %s", warn("!"), res.Name)
		case StatusFail:
			failures++
			fmt.Fprintf(r.Out, "  %s %s", fail("✗"), res.Name)
		}
		if res.Detail != "" {
			fmt.Fprintf(r.Out, " — %s", res.Detail)
		}
		fmt.Fprintln(r.Out)
	}

	if failures > 0 {
		return fmt.Errorf("%d validation check(s) failed", failures)
	}
	return nil
}

// DefaultChecks builds the standard installation report: parameter file
// presence, provider package presence, orchestrator runtime presence,
// subprocess CLI availability, and provider registration in the host
// configuration at targetPath.
func DefaultChecks(envFile, installDir string, m *manifest.Manifest, targetPath string) []Check {
	checks := []Check{
		CheckParameterFile(envFile),
		CheckOrchestratorRuntime(installDir, m),
	}
	for _, pkg := range m.Packages() {
		checks = append(checks, CheckProviderPackage(installDir, pkg))
	}
	checks = append(checks, CheckSubprocessCLI())
	checks = append(checks, CheckRegistration(targetPath, m))
	return checks
}

// CheckParameterFile reports whether the parameter file exists. Absence is a
// warning: the installer degrades to built-in defaults.
func CheckParameterFile(envFile string) Check {
	return func() Result {
		name := fmt.Sprintf("parameter file %s", envFile)
		if _, err := os.Stat(envFile); err != nil {
			return Result{Name: name, Status: StatusWarn, Detail: "not found, installer uses built-in defaults"}
		}
		return Result{Name: name, Status: StatusPass}
	}
}

// CheckProviderPackage reports whether the provider npm package is installed
// under the installation directory.
func CheckProviderPackage(installDir, pkg string) Check {
	return func() Result {
		name := fmt.Sprintf("provider package %s", pkg)
		pkgDir := filepath.Join(installDir, "node_modules", filepath.FromSlash(pkg))
		if _, err := os.Stat(filepath.Join(pkgDir, "package.json")); err != nil {
			return Result{Name: name, Status: StatusFail, Detail: fmt.Sprintf("not installed under %s", installDir)}
		}
		return Result{Name: name, Status: StatusPass}
	}
}

// CheckOrchestratorRuntime reports whether the orchestrator runtime package
// is installed.
func CheckOrchestratorRuntime(installDir string, m *manifest.Manifest) Check {
	return func() Result {
		name := "orchestrator runtime"
		pkgDir := filepath.Join(installDir, "node_modules", filepath.FromSlash(m.Orchestrator))
		if _, err := os.Stat(pkgDir); err != nil {
			return Result{Name: name, Status: StatusFail, Detail: fmt.Sprintf("%s not installed under %s", m.Orchestrator, installDir)}
		}
		return Result{Name: name, Status: StatusPass}
	}
}

// CheckSubprocessCLI reports whether node and npx are on PATH. The version
// probe is advisory only.
func CheckSubprocessCLI() Check {
	return func() Result {
		name := "node runtime"
		if _, err := exec.LookPath("node"); err != nil {
			return Result{Name: name, Status: StatusFail, Detail: "node not found on PATH"}
		}
		if _, err := exec.LookPath("npx"); err != nil {
			return Result{Name: name, Status: StatusFail, Detail: "npx not found on PATH"}
		}

		out, err := exec.Command("node", "--version").Output()
		if err != nil {
			return Result{Name: name, Status: StatusWarn, Detail: "installed, but version probe failed"}
		}
		return Result{Name: name, Status: StatusPass, Detail: strings.TrimSpace(string(out))}
	}
}

// CheckRegistration reports whether every manifest provider is registered in
// the host configuration document at targetPath.
func CheckRegistration(targetPath string, m *manifest.Manifest) Check {
	return func() Result {
		name := "provider registration"
		data, err := os.ReadFile(targetPath)
		if err != nil {
			return Result{Name: name, Status: StatusFail, Detail: fmt.Sprintf("%s not readable, run install first", targetPath)}
		}

		var missing []string
		for _, p := range m.Providers {
			entry := gjson.GetBytes(data, hostconfig.ServersKey+"."+p.Name)
			if !entry.Exists() {
				missing = append(missing, p.Name)
			}
		}
		if len(missing) > 0 {
			return Result{Name: name, Status: StatusFail, Detail: fmt.Sprintf("missing entries: %s", strings.Join(missing, ", "))}
		}
		return Result{Name: name, Status: StatusPass, Detail: fmt.Sprintf("%d providers registered", len(m.Providers))}
	}
}
