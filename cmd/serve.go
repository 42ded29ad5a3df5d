package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/agent"
	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/flags"
)

type ServeCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
}

func NewServeCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ServeCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "serve",
		Short: "Serves scout's discovery tools over MCP on stdio.",
		Long: `Serves scout's discovery tools over the Model Context Protocol on
stdin/stdout, so agent hosts can search, inspect and track MCP servers
through tool calls.`,
		RunE: c.run,
	}

	return cobraCommand, nil
}

func (c *ServeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	client, err := c.CreateCatalog(cfg)
	if err != nil {
		return err
	}

	engine, err := c.CreateEngine(cfg)
	if err != nil {
		return err
	}

	trk, err := c.CreateTracker(cfg)
	if err != nil {
		return err
	}

	srv := agent.NewServer(c.Logger(), engine, client, trk)

	return srv.Start(cobraCmd.Context())
}
