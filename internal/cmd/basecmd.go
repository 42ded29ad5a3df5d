package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scoutmcp/scout/internal/catalog"
	"github.com/scoutmcp/scout/internal/completion"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/flags"
	"github.com/scoutmcp/scout/internal/recommend"
	"github.com/scoutmcp/scout/internal/tracker"
)

type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger.
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the current logger for the command.
func (c *BaseCmd) Logger() hclog.Logger {
	if c.logger != nil {
		return c.logger
	}

	// Get log level from flags first, then environment, then default
	logLevel := flags.LogLevel
	if logLevel == "" {
		logLevel = strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
		if logLevel == "" {
			logLevel = flags.DefaultLogLevel
		}
	}

	// Get log path from flags first, then environment
	logPath := flags.LogPath
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))
	}

	var output io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file (%s): %v, using stderr\n", logPath, err)
		} else {
			output = f
		}
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "scout-default",
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger
}

// CreateCatalog constructs the catalog client from the loaded project config.
func (c *BaseCmd) CreateCatalog(cfg *config.Config) (*catalog.Client, error) {
	ttl, err := cfg.CacheTTLDuration()
	if err != nil {
		return nil, err
	}

	opts := []catalog.Option{
		catalog.WithCacheTTL(ttl),
	}
	if token := strings.TrimSpace(os.Getenv(flags.EnvVarRegistryToken)); token != "" {
		opts = append(opts, catalog.WithToken(token))
	}

	// NewClient attaches its own logger name.
	return catalog.NewClient(c.Logger(), cfg.CatalogURL, opts...)
}

// CreateEngine constructs the recommendation engine, wiring in the AI
// completion client when one is configured via the environment.
func (c *BaseCmd) CreateEngine(cfg *config.Config) (*recommend.Engine, error) {
	client, err := c.CreateCatalog(cfg)
	if err != nil {
		return nil, err
	}

	cc := completion.FromEnvironment(
		os.Getenv(flags.EnvVarOpenAIEndpoint),
		os.Getenv(flags.EnvVarOpenAIAPIKey),
		completionDeployment(cfg),
	)

	return recommend.NewEngine(c.Logger(), client, cc), nil
}

// CreateTracker constructs the installed-server tracker backed by the
// configured durable store, mirroring local servers into the client config.
func (c *BaseCmd) CreateTracker(cfg *config.Config) (*tracker.Tracker, error) {
	return tracker.NewTracker(
		c.Logger(),
		cfg.StorePath,
		tracker.WithMirrorFile(cfg.MirrorPath),
	)
}

func completionDeployment(cfg *config.Config) string {
	if d := strings.TrimSpace(os.Getenv(flags.EnvVarOpenAIDeployment)); d != "" {
		return d
	}
	return cfg.CompletionDeployment
}
