package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/flags"
	"github.com/scoutmcp/scout/internal/indexer"
)

type IndexCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
}

func NewIndexCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &IndexCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "index [args...]",
		Short: "Runs the configured code-indexing CLI against the project.",
		Long: `Runs the external code-indexing CLI configured via 'indexer_command' in
'.scout.toml', passing through any arguments, and reports its structured result.`,
		RunE: c.run,
	}

	return cobraCommand, nil
}

func (c *IndexCmd) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	if cfg.IndexerCommand == "" {
		return fmt.Errorf("no indexer configured: set 'indexer_command' in %s", flags.ConfigFile)
	}

	runner, err := indexer.NewRunner(c.Logger(), cfg.IndexerCommand)
	if err != nil {
		return err
	}

	result, err := runner.Run(cobraCmd.Context(), args...)
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	if result.Failed() {
		fmt.Fprintf(out, "✗ Indexer reported failure: %s\n", result.Message)
		return nil
	}

	fmt.Fprintf(out, "✓ Indexer finished: %s\n", result.Status)
	if result.Message != "" {
		fmt.Fprintf(out, "  %s\n", result.Message)
	}

	return nil
}
