package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/newsverdict/internal/config"
	"github.com/nao1215/newsverdict/internal/database"
	nvlog "github.com/nao1215/newsverdict/internal/log"
	"github.com/nao1215/newsverdict/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recorded runs over a read-only HTTP API",
		Long: `Serve exposes the run history as JSON.

Endpoints:
  GET /healthz
  GET /runs?limit=N
  GET /runs/latest
  GET /runs/:id
  GET /runs/:id/markdown
  GET /articles/:id/history

Examples:
  newsverdict serve
  newsverdict serve --addr 0.0.0.0:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", config.DefaultServeAddr, "Listen address")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory holding the history database")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return err
	}

	logger := nvlog.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	if logJSON {
		logger = nvlog.NewSecureJSONLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving run history from %s on http://%s\n", db.Path(), addr)
	return server.New(db, server.WithLogger(logger)).Run(ctx, addr)
}
