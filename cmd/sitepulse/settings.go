package main

import (
	"fmt"
	"strings"

	"github.com/nao1215/sitepulse/internal/config"
	"github.com/spf13/cobra"
)

// NewSettingsCmd creates the settings command.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
		Long: `Settings manages the values SitePulse keeps in its store. The stored API
key is used when no key is given by flag, environment or config file.

Examples:
  # Show whether a key is stored
  sitepulse settings

  # Store an API key
  sitepulse settings --key AIza...

  # Remove the stored key
  sitepulse settings --clear`,
		Args: cobra.NoArgs,
		RunE: runSettingsCmd,
	}

	cmd.Flags().String("key", "", "Store this PageSpeed Insights API key")
	cmd.Flags().Bool("clear", false, "Remove the stored API key")
	cmd.MarkFlagsMutuallyExclusive("key", "clear")

	return cmd
}

// runSettingsCmd executes the settings command.
func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	key, err := cmd.Flags().GetString("key")
	if err != nil {
		return err
	}
	clearKey, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	switch {
	case cmd.Flags().Changed("key"):
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("--key must not be empty (use --clear to remove the stored key)")
		}
		if err := config.SaveSettings(ctx, a.kv, config.Settings{APIKey: key}); err != nil {
			return err
		}
		a.notifier.Success("API key saved")
		return nil
	case clearKey:
		if err := config.SaveSettings(ctx, a.kv, config.Settings{}); err != nil {
			return err
		}
		a.notifier.Success("API key removed")
		return nil
	}

	s, err := config.LoadSettings(ctx, a.kv)
	if err != nil {
		return err
	}
	stored := "not set"
	if s.APIKey != "" {
		stored = "set"
	}
	mode := "simulated"
	if a.service.LiveEnabled() {
		mode = "live"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Stored API key: %s\n", stored)
	fmt.Fprintf(out, "Analysis mode:  %s\n", mode)
	fmt.Fprintf(out, "Store:          %s\n", a.cfg.StoreDriver)
	return nil
}
