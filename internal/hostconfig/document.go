package hostconfig

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// ServersKey is the top-level key of the host's provider registry.
const ServersKey = "mcpServers"

// ServerConfig describes how AgentDeck launches or reaches one MCP provider.
type ServerConfig struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Document is the host configuration file. The provider registry under
// "mcpServers" is the only part this tool understands; every other top-level
// key the host application wrote is kept verbatim as raw JSON.
//
// Provider entries are raw JSON too: an entry is replaced wholesale on
// merge, never field-merged, and entries this tool does not own must survive
// a rewrite byte-for-byte in content.
type Document struct {
	Servers map[string]json.RawMessage
	extra   map[string]json.RawMessage
}

// NewDocument returns an empty shell document.
func NewDocument() *Document {
	return &Document{
		Servers: make(map[string]json.RawMessage),
		extra:   make(map[string]json.RawMessage),
	}
}

// Parse decodes a host configuration document. JSONC comments and trailing
// commas are tolerated on read; anything else malformed is an error.
func Parse(data []byte) (*Document, error) {
	data = jsonc.ToJSON(data)

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	doc := NewDocument()
	for key, value := range top {
		if key != ServersKey {
			doc.extra[key] = value
			continue
		}
		var servers map[string]json.RawMessage
		if err := json.Unmarshal(value, &servers); err != nil {
			return nil, fmt.Errorf("invalid %q section: %w", ServersKey, err)
		}
		for name, entry := range servers {
			doc.Servers[name] = entry
		}
	}
	return doc, nil
}

// MarshalJSON serializes the document with the provider registry and all
// preserved top-level keys.
func (d *Document) MarshalJSON() ([]byte, error) {
	top := make(map[string]json.RawMessage, len(d.extra)+1)
	for key, value := range d.extra {
		top[key] = value
	}

	servers, err := json.Marshal(d.Servers)
	if err != nil {
		return nil, err
	}
	top[ServersKey] = servers

	return json.Marshal(top)
}

// SetServer registers or replaces a provider entry.
func (d *Document) SetServer(name string, cfg ServerConfig) error {
	entry, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	d.Servers[name] = entry
	return nil
}

// DecodeServer decodes the named provider entry into its typed form.
func (d *Document) DecodeServer(name string) (ServerConfig, error) {
	raw, ok := d.Servers[name]
	if !ok {
		return ServerConfig{}, fmt.Errorf("no provider entry %q", name)
	}
	var cfg ServerConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("provider entry %q: %w", name, err)
	}
	return cfg, nil
}

// Merge returns the union of existing and rendered. Rendered entries win on
// name collision and replace the existing entry wholesale; entries present
// only in existing are preserved untouched, as are the existing document's
// unknown top-level keys.
func Merge(existing, rendered *Document) *Document {
	out := NewDocument()
	for key, value := range existing.extra {
		out.extra[key] = value
	}
	for key, value := range rendered.extra {
		out.extra[key] = value
	}
	for name, entry := range existing.Servers {
		out.Servers[name] = entry
	}
	for name, entry := range rendered.Servers {
		out.Servers[name] = entry
	}
	return out
}
