package tracker

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scoutmcp/scout/internal/files"
	"github.com/scoutmcp/scout/internal/perms"
)

// mirrorEntry is the shape of one server entry in the external config file
// consumed by the agent runtime: {mcpServers: {<name>: {type, command, args, env}}}.
type mirrorEntry struct {
	Type    string            `json:"type"`
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// mirror projects local-connection server entries into the external config
// file. The durable store is authoritative; mirror writes are best-effort and
// never fail the triggering operation.
type mirror struct {
	path string
}

// set adds or replaces the entry for name, preserving unrelated keys in the
// file (both other servers and any top-level keys the runtime owns).
func (m *mirror) set(name string, cfg *ServerConfig) error {
	if cfg == nil || cfg.Command == "" {
		return fmt.Errorf("no local launch configuration for %s", name)
	}

	doc, servers, err := m.read()
	if err != nil {
		return err
	}

	entry, err := json.Marshal(mirrorEntry{
		Type:    "stdio",
		Command: cfg.Command,
		Args:    cfg.Args,
		Env:     cfg.Env,
	})
	if err != nil {
		return fmt.Errorf("failed to encode config entry for %s: %w", name, err)
	}
	servers[name] = entry

	return m.write(doc, servers)
}

// remove deletes the entry for name if present, preserving unrelated keys.
func (m *mirror) remove(name string) error {
	doc, servers, err := m.read()
	if err != nil {
		return err
	}

	if _, present := servers[name]; !present {
		return nil
	}
	delete(servers, name)

	return m.write(doc, servers)
}

// read parses the external config file into its top-level keys and the
// mcpServers map. A missing file yields an empty document.
func (m *mirror) read() (map[string]json.RawMessage, map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(m.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("failed to read external config %s: %w", m.path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("failed to decode external config %s: %w", m.path, err)
		}
	}

	servers := make(map[string]json.RawMessage)
	if raw, ok := doc["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return nil, nil, fmt.Errorf("failed to decode mcpServers in %s: %w", m.path, err)
		}
	}

	return doc, servers, nil
}

// write re-encodes the document with the updated mcpServers map and rewrites
// the file atomically.
func (m *mirror) write(doc map[string]json.RawMessage, servers map[string]json.RawMessage) error {
	raw, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("failed to encode mcpServers: %w", err)
	}
	doc["mcpServers"] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode external config: %w", err)
	}

	return files.WriteAtomic(m.path, data, perms.RegularFile)
}
