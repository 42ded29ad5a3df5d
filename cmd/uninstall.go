package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/flags"
)

type UninstallCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
}

func NewUninstallCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &UninstallCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "uninstall <qualified-name>",
		Short: "Removes an installed MCP server from the project.",
		Long: `Removes an installed MCP server from the durable store and from the
mirrored agent client configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	return cobraCommand, nil
}

func (c *UninstallCmd) run(cobraCmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("server name is required and cannot be empty")
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	trk, err := c.CreateTracker(cfg)
	if err != nil {
		return err
	}

	if err := trk.Unregister(name); err != nil {
		return err
	}

	fmt.Fprintf(cobraCmd.OutOrStdout(), "✓ Uninstalled server '%s'\n", name)

	return nil
}
