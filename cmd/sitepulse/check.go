package main

import (
	"fmt"
	"strings"

	"github.com/nao1215/sitepulse/internal/format"
	"github.com/nao1215/sitepulse/internal/probe"
	"github.com/nao1215/sitepulse/internal/report"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Check that a site responds and detect its technologies",
		Long: `Check requests the URL once, reports whether it answered, its status code
and response time, and lists third-party technologies found in the page
(Shopify, jQuery, Google Analytics, Google Tag Manager, Facebook Pixel,
WordPress).

Examples:
  sitepulse check https://example.com
  sitepulse check --json https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCheckCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output the result in JSON format")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	prober := probe.New(probe.WithHTTPClient(a.httpClient))
	res := prober.Check(cmd.Context(), args[0])

	out := cmd.OutOrStdout()
	if jsonOutput {
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(res)
		return err
	}

	if !res.Accessible {
		a.notifier.Error("%s is not reachable: %s", res.URL, res.Error)
		return fmt.Errorf("site check failed for %s", res.URL)
	}

	a.notifier.Success("%s responded with %d in %s ms", res.URL, res.StatusCode, format.Int(int(res.ResponseTime().Milliseconds())))
	if res.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", res.Title)
	}
	techs := "none detected"
	if len(res.Technologies) > 0 {
		techs = strings.Join(res.Technologies, ", ")
	}
	fmt.Fprintf(out, "Technologies: %s\n", techs)
	return nil
}
