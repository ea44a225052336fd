package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/nao1215/sitepulse/internal/analysis"
	"github.com/nao1215/sitepulse/internal/config"
	"github.com/nao1215/sitepulse/internal/history"
	"github.com/nao1215/sitepulse/internal/kvstore"
	"github.com/nao1215/sitepulse/internal/log"
	"github.com/nao1215/sitepulse/internal/notify"
	"github.com/nao1215/sitepulse/internal/pagespeed"
	"github.com/nao1215/sitepulse/internal/simulator"
	"github.com/spf13/cobra"
)

// app holds the components shared by the subcommands.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	kv         kvstore.Store
	client     *pagespeed.Client
	httpClient *http.Client
	service    *analysis.Service
	history    *history.Store
	notifier   *notify.Notifier
}

// newApp loads the configuration and opens the store. Callers must Close it.
func newApp(cmd *cobra.Command, jsonLogs bool) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if jsonLogs {
		logger = log.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	slog.SetDefault(logger)
	logger.Debug("configuration loaded", "config", cfg.String(), "file", cfg.ConfigFilePath)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	kv, err := kvstore.Open(ctx, cfg.StoreTarget())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}

	key, err := cfg.ResolveAPIKey(ctx, kv)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	hc, err := pagespeed.NewHTTPClient(cfg.ProxyAddress, cfg.Timeout)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	client := pagespeed.NewClient(key,
		pagespeed.WithEndpoint(cfg.Endpoint),
		pagespeed.WithHTTPClient(hc),
	)

	a := &app{
		cfg:        cfg,
		logger:     logger,
		kv:         kv,
		client:     client,
		httpClient: hc,
		history:    history.New(kv),
		notifier:   notify.New(cmd.ErrOrStderr(), getQuietFlag(cmd)),
	}
	a.service = a.newService()
	return a, nil
}

// newService builds the analysis service from the current configuration.
func (a *app) newService() *analysis.Service {
	return analysis.New(a.client, simulator.New(),
		analysis.WithLogger(a.logger),
		analysis.WithConcurrency(a.cfg.Concurrency),
	)
}

// Close releases the store.
func (a *app) Close() error {
	return a.kv.Close()
}

// loadConfig builds the configuration: defaults, config file, environment,
// then any global flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath := flagString(cmd, "config")

	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return nil, err
	}

	if v, ok := changedString(cmd, "api-key"); ok {
		cfg.APIKey = v
	}
	if v, ok := changedString(cmd, "store"); ok {
		cfg.StoreDriver = v
	}
	if v, ok := changedString(cmd, "db-dir"); ok {
		cfg.DBDir = v
	}
	if v, ok := changedString(cmd, "database-url"); ok {
		cfg.DatabaseURL = v
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getQuietFlag reports whether --quiet was given.
func getQuietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		quiet, err = cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return false
		}
	}
	return quiet
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := changedString(cmd, name)
	return v
}

// changedString returns the flag value and whether the user set it.
func changedString(cmd *cobra.Command, name string) (string, bool) {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.Root().PersistentFlags().Lookup(name)
	}
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}
