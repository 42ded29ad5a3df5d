package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/catalog"
	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/flags"
)

type SearchCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
	Page      int
	PageSize  int
	Owner     string
	JSON      bool
}

func NewSearchCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &SearchCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "search <query>",
		Short: "Searches the remote catalog for MCP servers.",
		Long:  c.longDescription(),
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	cobraCommand.Flags().IntVar(&c.Page, "page", 1, "Result page to fetch")
	cobraCommand.Flags().IntVar(&c.PageSize, "page-size", 10, "Number of results per page")
	cobraCommand.Flags().StringVar(&c.Owner, "owner", "", "Restrict results to servers from this owner")
	cobraCommand.Flags().BoolVar(&c.JSON, "json", false, "Output results as JSON")

	return cobraCommand, nil
}

func (c *SearchCmd) longDescription() string {
	return `Searches the remote catalog for MCP servers matching a free-text query.
Results are cached in-memory for the configured TTL; repeating a query within
the window does not hit the catalog again.`
}

func (c *SearchCmd) run(cobraCmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search query is required and cannot be empty")
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	client, err := c.CreateCatalog(cfg)
	if err != nil {
		return err
	}

	result := client.Search(cobraCmd.Context(), query, catalog.SearchOptions{
		Page:     c.Page,
		PageSize: c.PageSize,
		Owner:    c.Owner,
	})

	if c.JSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(cobraCmd.OutOrStdout(), string(data))
		return nil
	}

	out := cobraCmd.OutOrStdout()

	if len(result.Servers) == 0 {
		fmt.Fprintf(out, "No servers found for '%s'\n", query)
		return nil
	}

	fmt.Fprintf(out, "Found %d server(s) (page %d):\n\n", result.TotalCount, result.Page)

	for _, s := range result.Servers {
		badges := serverBadges(s)
		fmt.Fprintf(out, "  %s%s\n", s.QualifiedName, badges)
		if s.Description != "" {
			fmt.Fprintf(out, "    %s\n", s.Description)
		}
	}

	return nil
}

func serverBadges(s catalog.Server) string {
	var b []string
	if s.IsVerified {
		b = append(b, "verified")
	}
	if s.IsRemote {
		b = append(b, "remote")
	}
	if s.UseCount > 0 {
		b = append(b, fmt.Sprintf("%d uses", s.UseCount))
	}
	if len(b) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%s]", strings.Join(b, ", "))
}
