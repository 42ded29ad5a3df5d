package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/flags"
)

var version = "dev" // Set at build time using -ldflags

type cmdOption = cmdopts.CmdOption

type RootCmd struct {
	*cmd.BaseCmd
}

func Execute() {
	logger, err := configureLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error executing root command: %s\n", err)
		os.Exit(1)
	}

	rootCmd, err := NewRootCmd(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error executing root command: %s\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd(logger hclog.Logger) (*cobra.Command, error) {
	baseCmd := &cmd.BaseCmd{}
	baseCmd.SetLogger(logger)

	c := &RootCmd{
		BaseCmd: baseCmd,
	}

	rootCmd := &cobra.Command{
		Use:          "scout <command> [args]",
		Short:        "'scout' discovers, recommends and tracks MCP servers for a project.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      version,
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	subCmds := []func(*cmd.BaseCmd, ...cmdOption) (*cobra.Command, error){
		NewInitCmd,
		NewRecommendCmd,
		NewSearchCmd,
		NewDetailCmd,
		NewInstallCmd,
		NewUninstallCmd,
		NewListCmd,
		NewIndexCmd,
		NewServeCmd,
		NewDaemonCmd,
	}

	for _, newCmd := range subCmds {
		subCmd, err := newCmd(baseCmd)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(subCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'scout' CLI searches a remote MCP server catalog, recommends servers for a
natural-language task description, and tracks the lifecycle of servers installed
into the current project.`
}

func configureLogger() (hclog.Logger, error) {
	logPath := strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))

	// If SCOUT_LOG_PATH is not set, don't log anywhere.
	logOutput := io.Discard

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		logOutput = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "scout",
		Level:  hclog.LevelFromString(getLogLevel()),
		Output: logOutput,
	})

	return logger, nil
}

func getLogLevel() string {
	lvl := strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return "info"
	}
}
