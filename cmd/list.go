package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/flags"
	"github.com/scoutmcp/scout/internal/tracker"
)

type ListCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
	Stats     bool
	JSON      bool
}

func NewListCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "list",
		Short: "Lists the MCP servers installed into the project.",
		RunE:  c.run,
	}

	cobraCommand.Flags().BoolVar(&c.Stats, "stats", false, "Show store statistics instead of the server list")
	cobraCommand.Flags().BoolVar(&c.JSON, "json", false, "Output as JSON")

	return cobraCommand, nil
}

func (c *ListCmd) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	trk, err := c.CreateTracker(cfg)
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	if c.Stats {
		stats := trk.Stats()
		if c.JSON {
			return printJSON(out, stats)
		}

		fmt.Fprintf(out, "Installed servers: %d\n", stats.Total)
		for _, status := range []tracker.Status{tracker.StatusConnected, tracker.StatusDisconnected, tracker.StatusError} {
			if n := stats.ByStatus[status]; n > 0 {
				fmt.Fprintf(out, "  %s: %d\n", status, n)
			}
		}
		for _, ct := range []tracker.ConnectionType{tracker.ConnectionLocal, tracker.ConnectionRemote} {
			if n := stats.ByConnection[ct]; n > 0 {
				fmt.Fprintf(out, "  %s: %d\n", ct, n)
			}
		}
		return nil
	}

	servers := trk.List()

	if c.JSON {
		return printJSON(out, servers)
	}

	if len(servers) == 0 {
		fmt.Fprintln(out, "No servers installed.")
		return nil
	}

	for _, s := range servers {
		fmt.Fprintf(out, "  %s (%s, %s)\n", s.QualifiedName, s.ConnectionType, s.Status)
		if s.Error != "" {
			fmt.Fprintf(out, "    error: %s\n", s.Error)
		}
	}

	return nil
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
