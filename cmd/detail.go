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
	"github.com/scoutmcp/scout/internal/errors"
	"github.com/scoutmcp/scout/internal/flags"
)

type DetailCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
	JSON      bool
}

func NewDetailCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &DetailCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "detail <qualified-name>",
		Short: "Shows catalog details and credential requirements for a server.",
		Long:  c.longDescription(),
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	cobraCommand.Flags().BoolVar(&c.JSON, "json", false, "Output details as JSON")

	return cobraCommand, nil
}

func (c *DetailCmd) longDescription() string {
	return `Shows the catalog record for a single server by qualified name, including its
connection options and the credentials (environment variables) it requires.`
}

func (c *DetailCmd) run(cobraCmd *cobra.Command, args []string) error {
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

	creds := catalog.ExtractRequiredCredentials(server)

	if c.JSON {
		payload := struct {
			catalog.Server
			Credentials []catalog.CredentialRequirement `json:"credentials,omitempty"`
		}{Server: server, Credentials: creds}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode details: %w", err)
		}
		fmt.Fprintln(cobraCmd.OutOrStdout(), string(data))
		return nil
	}

	out := cobraCmd.OutOrStdout()

	fmt.Fprintf(out, "%s%s\n", server.QualifiedName, serverBadges(server))
	if server.DisplayName != "" && server.DisplayName != server.QualifiedName {
		fmt.Fprintf(out, "  Name: %s\n", server.DisplayName)
	}
	if server.Description != "" {
		fmt.Fprintf(out, "  %s\n", server.Description)
	}
	if server.Homepage != "" {
		fmt.Fprintf(out, "  Homepage: %s\n", server.Homepage)
	}
	if server.Security != nil {
		fmt.Fprintf(out, "  Security scan passed: %t\n", server.Security.Passed)
	}

	if len(server.Connections) > 0 {
		fmt.Fprintln(out, "  Connections:")
		for _, conn := range server.Connections {
			if conn.URL != "" {
				fmt.Fprintf(out, "    - %s (%s)\n", conn.Type, conn.URL)
			} else {
				fmt.Fprintf(out, "    - %s\n", conn.Type)
			}
		}
	}

	if len(creds) > 0 {
		fmt.Fprintln(out, "  Required credentials:")
		for _, cred := range creds {
			optional := ""
			if !cred.Required {
				optional = " (optional)"
			}
			fmt.Fprintf(out, "    - %s%s: %s\n", cred.Name, optional, cred.Description)
		}
	}

	return nil
}
