// Package batch replays the single-record pipeline over tabular input.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/pinpoint/internal/common"
	"github.com/Veraticus/pinpoint/internal/metrics"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

// AbortError stops a batch when the extraction service revokes authorization.
type AbortError struct {
	Err     error
	OrderID string
	// Row is the 1-based position of the failing row in the input.
	Row int
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("batch aborted at row %d (order %s): %v", e.Row, e.OrderID, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// ProgressFunc is called after each row finishes.
type ProgressFunc func(done, total int)

// Options configures a Driver.
type Options struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Progress ProgressFunc
	// Workers bounds concurrent verifications. One processes rows strictly in sequence.
	Workers int
}

// Driver runs a verifier over many rows.
type Driver struct {
	verifier service.Verifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	progress ProgressFunc
	workers  int
}

// NewDriver creates a driver.
func NewDriver(v service.Verifier, opts Options) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Driver{
		verifier: v,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		progress: opts.Progress,
		workers:  opts.Workers,
	}
}

// Report is the outcome of a batch run.
type Report struct {
	StartedAt time.Time
	BatchID   string
	Results   []model.RowResult
	Total     int
	Duration  time.Duration
}

// Counts tallies successful, failed and skipped rows.
func (r *Report) Counts() (success, failed, skipped int) {
	for _, res := range r.Results {
		switch {
		case res.Record.Status == model.StatusSuccess:
			success++
		case res.Record.Remarks == model.SkippedEmptyRemark:
			skipped++
		default:
			failed++
		}
	}
	return success, failed, skipped
}

// Complete reports whether every input row has a result.
func (r *Report) Complete() bool {
	return len(r.Results) == r.Total
}

// Run verifies rows and returns their results in input order.
//
// A row failure is recorded on that row and the batch continues. An
// authorization failure stops the batch with an *AbortError; cancellation of
// ctx stops it with ctx's error. In both cases the report holds the completed
// prefix of rows.
func (d *Driver) Run(ctx context.Context, rows []model.Row) (*Report, error) {
	report := &Report{
		BatchID:   uuid.NewString(),
		Total:     len(rows),
		StartedAt: time.Now(),
	}
	d.logger.Info("starting batch", "batch_id", report.BatchID, "rows", len(rows), "workers", d.workers)

	results := make([]model.RowResult, len(rows))
	done := make([]bool, len(rows))

	var (
		mu       sync.Mutex
		finished int
	)
	markDone := func(i int, res model.RowResult) {
		results[i] = res
		done[i] = true

		mu.Lock()
		finished++
		n := finished
		mu.Unlock()

		if d.progress != nil {
			d.progress(n, len(rows))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			if strings.TrimSpace(row.RawAddress) == "" {
				d.metrics.ObserveBatchRow("skipped")
				markDone(i, model.RowResult{Row: row, Record: model.SkippedRecord(row.Input())})
				return nil
			}

			rowCtx := service.WithOrigin(gctx, service.Origin{BatchID: report.BatchID, OrderID: row.OrderID})
			rec, err := d.verifier.Verify(rowCtx, row.Input())

			if errors.Is(err, common.ErrUnauthorized) {
				d.metrics.ObserveBatchRow("aborted")
				return &AbortError{Row: i + 1, OrderID: row.OrderID, Err: err}
			}
			if err != nil && gctx.Err() != nil {
				// Canceled mid-flight; the row is not part of the completed prefix.
				return nil
			}

			if err != nil {
				d.metrics.ObserveBatchRow("error")
				d.logger.Warn("row failed", "order_id", row.OrderID, "error", err)
			} else {
				d.metrics.ObserveBatchRow("success")
			}
			markDone(i, model.RowResult{Row: row, Record: rec, Err: err})
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	prefix := 0
	for prefix < len(done) && done[prefix] {
		prefix++
	}
	report.Results = results[:prefix]
	report.Duration = time.Since(report.StartedAt)

	success, failed, skipped := report.Counts()
	d.logger.Info("batch finished",
		"batch_id", report.BatchID,
		"completed", prefix,
		"rows", len(rows),
		"success", success,
		"failed", failed,
		"skipped", skipped,
		"duration", report.Duration)

	return report, err
}
