package main

import (
	"path/filepath"
	"time"

	"github.com/nao1215/sitepulse/internal/export"
	"github.com/nao1215/sitepulse/internal/format"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved analyses as CSV or JSON",
		Long: `Export writes the saved history as CSV (one row per analysis, scores
as columns) or JSON.

Without --output or --s3 the export is printed to standard output.
With --s3 the file is uploaded to the bucket configured under export.s3
in the configuration file.

Examples:
  # Print CSV to the terminal
  sitepulse export

  # Write JSON to a file
  sitepulse export --format json -o exports/history.json

  # Upload to the configured S3 bucket
  sitepulse export --s3`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("format", "f", string(export.FormatCSV), "Export format: csv or json")
	cmd.Flags().StringP("output", "o", "", "Write the export to this file (0600, directories created)")
	cmd.Flags().Bool("s3", false, "Upload the export to the configured S3 bucket")
	cmd.MarkFlagsMutuallyExclusive("output", "s3")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	f, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	toS3, err := cmd.Flags().GetBool("s3")
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	entries, err := a.history.List(ctx)
	if err != nil {
		return err
	}
	data, err := export.EncodeHistory(f, entries)
	if err != nil {
		return err
	}

	var (
		sink export.Sink
		name string
	)
	switch {
	case toS3:
		s3, err := export.NewS3Sink(export.S3Config{
			Endpoint:  a.cfg.Export.Endpoint,
			Bucket:    a.cfg.Export.Bucket,
			Region:    a.cfg.Export.Region,
			AccessKey: a.cfg.Export.AccessKey,
			SecretKey: a.cfg.Export.SecretKey,
			UseSSL:    a.cfg.Export.UseSSL,
		})
		if err != nil {
			return err
		}
		sink, name = s3, f.FileName(time.Now())
	case output != "":
		sink, name = export.NewFileSink(filepath.Dir(output)), filepath.Base(output)
	default:
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	location, err := sink.Put(ctx, name, data, f.ContentType())
	if err != nil {
		return err
	}
	a.notifier.Success("Exported %s entries to %s", format.Int(len(entries)), location)
	return nil
}
