package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for SitePulse.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitepulse",
		Short: "Website performance, accessibility and SEO health checks",
		Long: `SitePulse scores a website's performance, accessibility, best practices
and SEO using the PageSpeed Insights API, keeps a local history of results
and renders text, Markdown or JSON reports.

Without an API key every analysis is simulated. Set one with --api-key,
the SITEPULSE_API_KEY environment variable, the config file, or
'sitepulse settings --key'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.BoolP("quiet", "q", false, "Only print warnings and errors on stderr")
	pf.StringP("config", "c", "", "Configuration file path (default: .sitepulse in current or home directory)")
	pf.String("api-key", "", "PageSpeed Insights API key (overrides env, config file and stored settings)")
	pf.String("store", "", "Storage backend: sqlite, postgres or memory (default sqlite)")
	pf.String("db-dir", "", "SQLite data directory (default: XDG data directory)")
	pf.String("database-url", "", "PostgreSQL connection string for --store postgres")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewSettingsCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
