// Package params resolves installation parameters from an optional .env file.
package params

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Spec describes a single installation parameter.
type Spec struct {
	Name    string
	Default string
	// Path marks values that hold filesystem paths and need their JSON
	// escape character doubled before textual substitution.
	Path bool
}

// Specs returns the parameters recognized by the provisioner with their
// built-in defaults. Defaults are computed per call because the home
// directory can differ between test environments.
func Specs() []Spec {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return []Spec{
		{Name: "INSTALL_DIR", Default: home, Path: true},
		{Name: "WORKSPACE_PROJECT_PATH", Default: home, Path: true},
		{Name: "TRACKER_MCP_URL", Default: "http://localhost:8765/mcp"},
		{Name: "TRACKER_ACCESS_TOKEN", Default: ""},
		{Name: "RESEARCH_MCP_URL", Default: "http://localhost:8799/mcp"},
		{Name: "DEBUG", Default: "false"},
	}
}

// Set holds parameter overrides loaded from a .env file, layered over the
// built-in defaults at resolution time.
type Set struct {
	overrides    map[string]string
	source       string
	fromDefaults bool
}

// Load reads the KEY=VALUE parameter file at path. A missing file is not an
// error: the returned Set resolves every key to its default and reports
// FromDefaults() == true so callers can warn the operator. Any other read
// failure is fatal.
func Load(path string) (*Set, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Set{
				overrides:    map[string]string{},
				source:       path,
				fromDefaults: true,
			}, nil
		}
		return nil, fmt.Errorf("failed to read parameter file %s: %w", path, err)
	}

	return &Set{overrides: values, source: path}, nil
}

// Resolve returns the override for key if the parameter file supplied one,
// otherwise fallback. Absent keys never fail; an unknown key with an empty
// fallback resolves to the empty string.
func (s *Set) Resolve(key, fallback string) string {
	if v, ok := s.overrides[key]; ok {
		return v
	}
	return fallback
}

// InstallDir resolves the installation directory parameter against its
// built-in default.
func (s *Set) InstallDir() string {
	for _, spec := range Specs() {
		if spec.Name == "INSTALL_DIR" {
			return s.Resolve(spec.Name, spec.Default)
		}
	}
	return s.Resolve("INSTALL_DIR", "")
}

// Debug reports whether the DEBUG parameter resolves to "true". Any other
// value, including absence, means false.
func (s *Set) Debug() bool {
	return s.Resolve("DEBUG", "false") == "true"
}

// FromDefaults reports whether the parameter file was absent and every key
// resolves to its built-in default.
func (s *Set) FromDefaults() bool {
	return s.fromDefaults
}

// Source returns the path the Set was loaded from.
func (s *Set) Source() string {
	return s.source
}
