package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scoutmcp/scout/internal/cmd"
	cmdopts "github.com/scoutmcp/scout/internal/cmd/options"
	"github.com/scoutmcp/scout/internal/config"
	"github.com/scoutmcp/scout/internal/daemon"
	"github.com/scoutmcp/scout/internal/flags"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Addr        string
	CORSOrigins []string
	cfgLoader   config.Loader
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon [--addr]",
		Short: "Launches a `scout` daemon instance",
		Long: "Launches a `scout` daemon instance, exposing recommendations and the " +
			"installed-server store via HTTP API",
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		daemon.DefaultAddr,
		"Address for the daemon to bind",
	)

	cobraCommand.Flags().StringArrayVar(
		&c.CORSOrigins,
		"cors-origin",
		nil,
		"Allowed CORS origin (can be repeated)",
	)

	return cobraCommand, nil
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *DaemonCmd) run(_ *cobra.Command, _ []string) error {
	addr := strings.TrimSpace(c.Addr)
	if addr == "" {
		return fmt.Errorf("daemon address cannot be empty")
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
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

	srv, err := daemon.NewAPIServer(
		c.Logger().Named("daemon"),
		engine,
		trk,
		daemon.WithAddr(addr),
		daemon.WithCORSOrigins(c.CORSOrigins),
	)
	if err != nil {
		return fmt.Errorf("failed to create scout daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	if err := srv.Start(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
