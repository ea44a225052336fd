package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/sitepulse/internal/probe"
	"github.com/nao1215/sitepulse/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for the dashboard",
		Long: `Serve starts an HTTP server exposing analysis, history, comparison,
reports, settings and site checks as a JSON API for the browser dashboard.

The server stops gracefully on SIGINT or SIGTERM. Logs are written as JSON.
Use --store postgres to share history between several server instances.

Examples:
  sitepulse serve
  sitepulse serve --listen 0.0.0.0:8080 --allowed-origin https://dash.example.com`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", "", "Listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringSlice("allowed-origin", nil, "Allowed CORS origin (repeatable; default any)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	listen, err := cmd.Flags().GetString("listen")
	if err != nil {
		return err
	}
	origins, err := cmd.Flags().GetStringSlice("allowed-origin")
	if err != nil {
		return err
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if listen != "" {
		a.cfg.ListenAddr = listen
	}
	if len(origins) > 0 {
		a.cfg.AllowedOrigins = origins
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.service, a.history, a.kv,
		server.WithLogger(a.logger),
		server.WithAllowedOrigins(a.cfg.AllowedOrigins),
		server.WithProber(probe.New(probe.WithHTTPClient(a.httpClient))),
		server.WithKeySetter(a.client),
	)
	return srv.Run(ctx, a.cfg.ListenAddr)
}
