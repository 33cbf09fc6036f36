// Package manifest describes the provider packages this tool provisions.
package manifest

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed providers.yaml
var raw []byte

// Provider is one pluggable remote integration registered with the host.
type Provider struct {
	// Name is the registry key under mcpServers in the host configuration.
	Name string `yaml:"name"`
	// Package is the npm package implementing the provider, when it runs
	// locally. Empty for purely remote providers.
	Package     string `yaml:"package,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Manifest lists the providers and the orchestrator runtime package.
type Manifest struct {
	Orchestrator string     `yaml:"orchestrator"`
	Providers    []Provider `yaml:"providers"`
}

// Load parses the embedded provider manifest.
func Load() (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse embedded provider manifest: %w", err)
	}
	if m.Orchestrator == "" {
		return nil, fmt.Errorf("embedded provider manifest names no orchestrator package")
	}
	return &m, nil
}

// Packages returns every npm package the installation needs, orchestrator
// first, without duplicates.
func (m *Manifest) Packages() []string {
	seen := map[string]bool{m.Orchestrator: true}
	packages := []string{m.Orchestrator}
	for _, p := range m.Providers {
		if p.Package == "" || seen[p.Package] {
			continue
		}
		seen[p.Package] = true
		packages = append(packages, p.Package)
	}
	return packages
}
