// Package template renders the provider configuration template.
package template

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/agentdeck/provisioner/internal/hostconfig"
	"github.com/agentdeck/provisioner/internal/params"
)

//go:embed config_template.json
var configTemplate string

// Default returns the embedded provider configuration template.
func Default() string {
	return configTemplate
}

// placeholderPattern matches {{NAME}} tokens embedded in string values.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Substitute replaces every {{NAME}} placeholder in templateText with the
// parameter resolved from set. Substitution is a pure textual pass over the
// serialized document, so a placeholder anywhere in a string value at any
// depth is replaced identically. Values of parameters flagged as paths get
// their backslashes doubled first, because the surrounding document is
// string-serialized JSON. Placeholders naming no known parameter resolve to
// whatever the parameter file supplies, or the empty string.
func Substitute(templateText string, set *params.Set) string {
	specs := make(map[string]params.Spec)
	for _, spec := range params.Specs() {
		specs[spec.Name] = spec
	}

	return placeholderPattern.ReplaceAllStringFunc(templateText, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		spec, known := specs[name]
		value := set.Resolve(name, spec.Default)
		if known && spec.Path {
			value = strings.ReplaceAll(value, `\`, `\\`)
		}
		return value
	})
}

// Render substitutes parameters into templateText and parses the result.
// A parse failure here is a fatal templating error (an unescaped value broke
// the document syntax) and surfaces before anything is written.
func Render(templateText string, set *params.Set) (*hostconfig.Document, error) {
	rendered := Substitute(templateText, set)

	doc, err := hostconfig.Parse([]byte(rendered))
	if err != nil {
		return nil, fmt.Errorf("rendered template is not a valid configuration document: %w", err)
	}

	for name := range doc.Servers {
		if _, err := doc.DecodeServer(name); err != nil {
			return nil, fmt.Errorf("rendered template: %w", err)
		}
	}
	return doc, nil
}
