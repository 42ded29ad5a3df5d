package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/flags"
)

type RecommendCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
	JSON      bool
}

func NewRecommendCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &RecommendCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "recommend <task description>",
		Short: "Recommends MCP servers for a natural-language task description.",
		Long:  c.longDescription(),
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	cobraCommand.Flags().BoolVar(&c.JSON, "json", false, "Output the full result as JSON")

	return cobraCommand, nil
}

func (c *RecommendCmd) longDescription() string {
	return `Recommends MCP servers for a natural-language task description.
Keywords are extracted from the description (AI-assisted when a completion
service is configured, deterministic otherwise), the catalog is searched for
each keyword concurrently, and the merged candidates are ranked by relevance.`
}

func (c *RecommendCmd) run(cobraCmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("task description is required and cannot be empty")
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	engine, err := c.CreateEngine(cfg)
	if err != nil {
		return err
	}

	result := engine.Recommend(cobraCmd.Context(), query)

	if c.JSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(cobraCmd.OutOrStdout(), string(data))
		return nil
	}

	out := cobraCmd.OutOrStdout()

	if len(result.Recommendations) == 0 {
		if result.Error != "" {
			fmt.Fprintf(out, "No recommendations: %s\n", result.Error)
		} else {
			fmt.Fprintln(out, "No recommendations found.")
		}
		return nil
	}

	fmt.Fprintf(out, "Recommendations for: %s\n", result.Query)
	fmt.Fprintf(out, "(method: %s, confidence: %.2f, keywords: %s)\n\n",
		result.Method, result.Confidence, strings.Join(result.SearchKeywords, ", "))

	for i, rec := range result.Recommendations {
		fmt.Fprintf(out, "%d. %s (%.2f)\n", i+1, rec.Server.QualifiedName, rec.Score)
		if rec.Server.Description != "" {
			fmt.Fprintf(out, "   %s\n", rec.Server.Description)
		}
		if rec.Reasoning != "" {
			fmt.Fprintf(out, "   %s\n", rec.Reasoning)
		}
	}

	return nil
}
