package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/catalog"
	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/errors"
	"github.com/scoutmcp/scout/internal/flags"
	"github.com/scoutmcp/scout/internal/tracker"
)

type InstallCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
	Command   string
	Args      []string
	Env       []string
	URL       string
}

func NewInstallCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &InstallCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "install <qualified-name>",
		Short: "Installs an MCP server into the project.",
		Long:  c.longDescription(),
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	cobraCommand.Flags().StringVar(&c.Command, "command", "", "Launch command for a local server")
	cobraCommand.Flags().StringArrayVar(&c.Args, "arg", nil, "Launch argument for a local server (can be repeated)")
	cobraCommand.Flags().StringArrayVar(&c.Env, "env", nil, "Environment variable KEY=VALUE for a local server (can be repeated)")
	cobraCommand.Flags().StringVar(&c.URL, "url", "", "Endpoint URL for a remote server")

	return cobraCommand, nil
}

func (c *InstallCmd) longDescription() string {
	return `Installs an MCP server into the project: the server is looked up in the
catalog, recorded in the durable installed-server store, and local servers are
mirrored into the agent client configuration ('.mcp.json').

Installing an already-installed server refreshes its record in place.`
}

func (c *InstallCmd) run(cobraCmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("server name is required and cannot be empty")
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	client, err := c.CreateCatalog(cfg)
	if err != nil {
		return err
	}

	server, ok := client.GetServerDetails(cobraCmd.Context(), name)
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrServerNotFound, name)
	}

	connType, serverCfg, err := c.connectionConfig(server)
	if err != nil {
		return err
	}

	trk, err := c.CreateTracker(cfg)
	if err != nil {
		return err
	}

	installed, err := trk.Register(server, connType, serverCfg)
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Installed server '%s' (%s)\n", installed.QualifiedName, installed.ConnectionType)

	if creds := catalog.ExtractRequiredCredentials(server); len(creds) > 0 {
		fmt.Fprintln(out, "  Required credentials:")
		for _, cred := range creds {
			fmt.Fprintf(out, "    - %s\n", cred.Name)
		}
	}

	return nil
}

// connectionConfig decides how the installed server will be reached. Explicit
// flags win; otherwise the catalog's declared connections decide.
func (c *InstallCmd) connectionConfig(server catalog.Server) (tracker.ConnectionType, *tracker.ServerConfig, error) {
	if c.URL != "" && c.Command != "" {
		return "", nil, fmt.Errorf("--url and --command are mutually exclusive")
	}

	if c.URL != "" {
		return tracker.ConnectionRemote, &tracker.ServerConfig{URL: c.URL}, nil
	}

	if c.Command != "" {
		env, err := parseEnv(c.Env)
		if err != nil {
			return "", nil, err
		}
		return tracker.ConnectionLocal, &tracker.ServerConfig{
			Command: c.Command,
			Args:    c.Args,
			Env:     env,
		}, nil
	}

	// No flags: fall back to the catalog's first usable connection.
	for _, conn := range server.Connections {
		if conn.Type != catalog.ConnectionStdio && conn.URL != "" {
			return tracker.ConnectionRemote, &tracker.ServerConfig{URL: conn.URL}, nil
		}
	}

	if server.IsRemote {
		return "", nil, fmt.Errorf("server '%s' is remote but declares no connection URL; pass --url", server.QualifiedName)
	}

	return "", nil, fmt.Errorf("server '%s' runs locally; pass --command (and optionally --arg/--env)", server.QualifiedName)
}

func parseEnv(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --env value '%s', expected KEY=VALUE", pair)
		}
		env[key] = value
	}

	return env, nil
}
