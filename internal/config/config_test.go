package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultLoader_Init(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".scout.toml")
	loader := &DefaultLoader{}

	require.NoError(t, loader.Init(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "catalog_url")
	require.Contains(t, string(data), DefaultCatalogURL)

	// Initializing over an existing file is refused.
	require.ErrorContains(t, loader.Init(path), "already exists")
}

func TestDefaultLoader_Load(t *testing.T) {
	t.Parallel()

	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), ".scout.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `catalog_url = "https://catalog.example.com/api/v1"`)

		cfg, err := (&DefaultLoader{}).Load(path)
		require.NoError(t, err)
		require.Equal(t, "https://catalog.example.com/api/v1", cfg.CatalogURL)
		require.Equal(t, DefaultStorePath, cfg.StorePath)
		require.Equal(t, DefaultMirrorPath, cfg.MirrorPath)

		ttl, err := cfg.CacheTTLDuration()
		require.NoError(t, err)
		require.Equal(t, DefaultCacheTTL, ttl)
	})

	t.Run("full config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
catalog_url = "https://catalog.example.com/api/v1"
cache_ttl = "90s"
store_path = "state/servers.json"
mirror_path = "state/.mcp.json"
indexer_command = "indexer-cli"
completion_deployment = "gpt-4o"
`)

		cfg, err := (&DefaultLoader{}).Load(path)
		require.NoError(t, err)
		require.Equal(t, "state/servers.json", cfg.StorePath)
		require.Equal(t, "indexer-cli", cfg.IndexerCommand)
		require.Equal(t, "gpt-4o", cfg.CompletionDeployment)

		ttl, err := cfg.CacheTTLDuration()
		require.NoError(t, err)
		require.Equal(t, 90*time.Second, ttl)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := (&DefaultLoader{}).Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.ErrorIs(t, err, ErrConfigLoadFailed)
		require.ErrorContains(t, err, "scout init")
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := (&DefaultLoader{}).Load("   ")
		require.ErrorIs(t, err, ErrConfigLoadFailed)
	})

	t.Run("invalid catalog URL", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `catalog_url = "ftp://catalog.example.com"`)

		_, err := (&DefaultLoader{}).Load(path)
		require.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("invalid cache TTL", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
catalog_url = "https://catalog.example.com"
cache_ttl = "soon"
`)

		_, err := (&DefaultLoader{}).Load(path)
		require.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("non-positive cache TTL", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
catalog_url = "https://catalog.example.com"
cache_ttl = "-5m"
`)

		_, err := (&DefaultLoader{}).Load(path)
		require.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestConfig_SaveConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".scout.toml")
	require.NoError(t, os.WriteFile(path, []byte(`catalog_url = "https://catalog.example.com"`), 0o644))

	cfg, err := (&DefaultLoader{}).Load(path)
	require.NoError(t, err)

	cfg.IndexerCommand = "indexer-cli"
	require.NoError(t, cfg.SaveConfig())

	reloaded, err := (&DefaultLoader{}).Load(path)
	require.NoError(t, err)
	require.Equal(t, "indexer-cli", reloaded.IndexerCommand)
}

func TestConfig_SaveConfig_NoPath(t *testing.T) {
	t.Parallel()

	cfg := &Config{CatalogURL: "https://catalog.example.com"}
	require.ErrorContains(t, cfg.SaveConfig(), "config file path not present")
}
