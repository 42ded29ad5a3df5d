package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/flags"
)

type InitCmd struct {
	*cmd.BaseCmd
	cfgInitializer config.Initializer
}

func NewInitCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &InitCmd{
		BaseCmd:        baseCmd,
		cfgInitializer: opts.ConfigInitializer,
	}

	cobraCommand := &cobra.Command{
		Use:   "init",
		Short: "Initializes the current directory as a `scout` project",
		Long:  c.longDescription(),
		RunE:  c.run,
	}

	return cobraCommand, nil
}

func (c *InitCmd) longDescription() string {
	return `Initializes the current directory as a 'scout' project by creating a
skeleton '.scout.toml' configuration file pointing at the default server catalog.`
}

func (c *InitCmd) run(cobraCmd *cobra.Command, _ []string) error {
	path := flags.ConfigFile
	if path == "" {
		path = flags.DefaultConfigFile
	}

	if err := c.cfgInitializer.Init(path); err != nil {
		return err
	}

	abs := path
	if wd, err := os.Getwd(); err == nil && !filepath.IsAbs(path) {
		abs = filepath.Join(wd, path)
	}

	fmt.Fprintf(cobraCmd.OutOrStdout(), "✓ Initialized scout project: %s\n", abs)

	return nil
}
