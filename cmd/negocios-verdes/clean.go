package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"negociosverdes/internal/export"
	"negociosverdes/internal/pipeline"
	"negociosverdes/internal/source"
	"negociosverdes/pkg/config"
)

func cleanCmd() *cobra.Command {
	var (
		from string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Run the cleaning pipeline once and write the result",
		Long: `Fetches the raw registry, cleans and classifies it, and writes the table to --out.
The format follows the extension: .csv, .xlsx or .db (SQLite).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clean(cmd.Context(), from, out, cmd)
		},
	}

	cmd.Flags().StringVar(&from, "source", "", "URL or path of the raw CSV (defaults to DATA_FILE or DATA_URL)")
	cmd.Flags().StringVarP(&out, "out", "o", export.BaseName+".csv", "Output file (.csv, .xlsx or .db)")
	return cmd
}

func clean(ctx context.Context, from, out string, cmd *cobra.Command) error {
	if _, err := export.FormatForPath(out); err != nil {
		return err
	}

	cfg, err := config.LoadFromEnv(ServiceName + "-clean")
	if err != nil {
		return err
	}
	if from == "" {
		from = cfg.Source()
	}

	src := source.New(from, cfg.FetchTimeout)
	res, err := pipeline.New(src, cfg.Log, nil).Run(ctx)
	if err != nil {
		return err
	}

	if err := export.WriteFile(ctx, out, res.Table); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	report := res.Report
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows (%d aligned) to %s\n", report.OutputRows, report.Aligned, out)
	for _, name := range report.SkippedSteps() {
		step, _ := report.Step(name)
		fmt.Fprintf(cmd.OutOrStdout(), "  skipped %s: %s\n", name, step.Reason)
	}
	return nil
}
