// Package config loads and persists the .scout.toml project configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/scoutmcp/scout/internal/perms"
)

// Init creates the base skeleton configuration file for a scout project.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content := fmt.Sprintf("catalog_url = %q\n", DefaultCatalogURL)

	if err := os.WriteFile(path, []byte(content), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load reads, validates, and defaults the configuration at path.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'scout init'", ErrConfigLoadFailed)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	_, err = toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate existing config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	// Track the path that loaded this file.
	cfg.configFilePath = path

	return cfg, nil
}

// SaveConfig saves the current configuration to the config file.
func (c *Config) SaveConfig() error {
	if c.configFilePath == "" {
		return fmt.Errorf("config file path not present")
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configFilePath, data, perms.RegularFile)
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.CatalogURL) == "" {
		c.CatalogURL = DefaultCatalogURL
	}
	if strings.TrimSpace(c.StorePath) == "" {
		c.StorePath = DefaultStorePath
	}
	if strings.TrimSpace(c.MirrorPath) == "" {
		c.MirrorPath = DefaultMirrorPath
	}
}

// validate checks the config section values for errors.
func (c *Config) validate() error {
	if !strings.HasPrefix(c.CatalogURL, "http://") && !strings.HasPrefix(c.CatalogURL, "https://") {
		return NewErrInvalidValue("catalog_url", c.CatalogURL)
	}

	if _, err := c.CacheTTLDuration(); err != nil {
		return err
	}

	return nil
}
