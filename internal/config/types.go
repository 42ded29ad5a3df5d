package config

import (
	"time"
)

var (
	_ Provider = (*DefaultLoader)(nil)
)

type Loader interface {
	Load(path string) (*Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type DefaultLoader struct{}

// Default values applied when the corresponding config key is absent.
const (
	DefaultCatalogURL = "https://registry.smithery.ai/api/v1"
	DefaultCacheTTL   = 5 * time.Minute
	DefaultStorePath  = ".scout/servers.json"
	DefaultMirrorPath = ".mcp.json"
)

// Config represents the .scout.toml file structure.
type Config struct {
	// CatalogURL is the base URL of the remote server catalog.
	CatalogURL string `toml:"catalog_url"`

	// CacheTTL is how long catalog search results are cached, as a Go
	// duration string (e.g. "5m").
	CacheTTL string `toml:"cache_ttl,omitempty"`

	// StorePath is the durable installed-server store file.
	StorePath string `toml:"store_path,omitempty"`

	// MirrorPath is the external config file consumed by the agent runtime.
	MirrorPath string `toml:"mirror_path,omitempty"`

	// IndexerCommand is the external code-indexing CLI binary, when available.
	IndexerCommand string `toml:"indexer_command,omitempty"`

	// CompletionDeployment names the Azure OpenAI deployment used for
	// AI-assisted recommendations. Credentials come from the environment.
	CompletionDeployment string `toml:"completion_deployment,omitempty"`

	configFilePath string `toml:"-"`
}

// CacheTTLDuration returns the parsed cache TTL, falling back to the default
// when unset.
func (c *Config) CacheTTLDuration() (time.Duration, error) {
	if c.CacheTTL == "" {
		return DefaultCacheTTL, nil
	}

	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, NewErrInvalidValue("cache_ttl", c.CacheTTL)
	}
	if d <= 0 {
		return 0, NewErrInvalidValue("cache_ttl", c.CacheTTL)
	}

	return d, nil
}
