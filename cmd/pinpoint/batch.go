package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/pinpoint/internal/batch"
	"github.com/Veraticus/pinpoint/internal/cli"
	"github.com/Veraticus/pinpoint/internal/config"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/sheets"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <input.csv>",
		Short: "Verify every address in a CSV file",
		Long: `Verify a CSV of orders with orderId, customerName and rawAddress columns.

Results are written in input order. Press Ctrl+C to stop early; rows that
already finished are still written.`,
		Example: `  pinpoint batch orders.csv -o verified.csv
  pinpoint batch orders.csv --workers 4 --sheets`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().StringP("output", "o", "verified.csv", "output CSV file")
	cmd.Flags().Bool("sheets", false, "write results to Google Sheets instead of CSV")
	cmd.Flags().Int("workers", 0, "concurrent verifications (default from batch.workers)")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	output, _ := cmd.Flags().GetString("output")
	toSheets, _ := cmd.Flags().GetBool("sheets")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = viper.GetInt("batch.workers")
	}

	rows, err := readInput(input)
	if err != nil {
		return err
	}

	writer, target, err := resultWriter(cmd.Context(), output, toSheets)
	if err != nil {
		return err
	}

	// The credential is checked before any row so a bad key never yields a
	// file full of error rows.
	a, err := newApp(cmd.Context(), appOptions{withStorage: true})
	if err != nil {
		return err
	}
	defer a.Close()

	opts := batch.Options{Logger: a.logger, Metrics: a.metrics, Workers: workers}
	if !noProgress {
		opts.Progress = cli.BarProgress(cli.NewProgressBar(cmd.ErrOrStderr(), len(rows)))
	}
	driver := batch.NewDriver(a.verifier, opts)

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := interrupts.HandleInterrupts(cmd.Context(), target)
	defer stop()

	report, runErr := driver.Run(ctx, rows)

	var abort *batch.AbortError
	if runErr != nil && !errors.As(runErr, &abort) && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("batch failed: %w", runErr)
	}

	// Partial results are written even when the batch stopped early.
	if err := writer.WriteResults(context.WithoutCancel(cmd.Context()), report.Results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderReport(report, target))

	if abort != nil {
		return abort
	}
	return nil
}

func readInput(path string) (rows []model.Row, err error) {
	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err = batch.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	slog.Info("loaded batch input", "file", path, "rows", len(rows))
	return rows, nil
}

// resultWriter picks the output sink and a human-readable name for it.
func resultWriter(ctx context.Context, output string, toSheets bool) (batch.ResultWriter, string, error) {
	if toSheets {
		cfg, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, "", err
		}
		w, err := sheets.NewWriter(ctx, *cfg, slog.Default())
		if err != nil {
			return nil, "", fmt.Errorf("failed to create sheets writer: %w", err)
		}
		return w, "Google Sheets", nil
	}

	return &fileWriter{path: config.ExpandPath(output)}, output, nil
}

// fileWriter creates the output file only when results are written, so an
// early failure leaves no empty file behind.
type fileWriter struct {
	path string
}

func (w *fileWriter) WriteResults(ctx context.Context, results []model.RowResult) (err error) {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return batch.NewCSVWriter(f).WriteResults(ctx, results)
}
