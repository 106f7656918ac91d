package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pinpoint/internal/common"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

// fakeVerifier echoes the address back and fails on addresses containing a marker.
type fakeVerifier struct {
	seen   []string
	origin []service.Origin
	mu     sync.Mutex
	jitter bool
}

func (f *fakeVerifier) Verify(ctx context.Context, raw model.RawInput) (model.VerificationRecord, error) {
	f.mu.Lock()
	f.seen = append(f.seen, raw.Address)
	f.origin = append(f.origin, service.OriginFrom(ctx))
	f.mu.Unlock()

	if f.jitter {
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	}

	switch {
	case strings.Contains(raw.Address, "UNAUTHORIZED"):
		err := fmt.Errorf("extract: %w", common.ErrUnauthorized)
		return model.ErrorRecord(raw, "rejected"), err
	case strings.Contains(raw.Address, "OUTAGE"):
		err := fmt.Errorf("%w: down", common.ErrExtractionUnavailable)
		return model.ErrorRecord(raw, "unavailable"), err
	}

	return model.VerificationRecord{
		Status:       model.StatusSuccess,
		AddressLine1: raw.Address,
		Remarks:      "Address verified successfully",
	}, nil
}

func quietOptions(workers int) Options {
	return Options{Workers: workers, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func makeRows(addresses ...string) []model.Row {
	rows := make([]model.Row, len(addresses))
	for i, a := range addresses {
		rows[i] = model.Row{OrderID: fmt.Sprintf("ORD-%d", i+1), RawAddress: a}
	}
	return rows
}

func TestDriver_PreservesOrder(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			var addresses []string
			for i := range 20 {
				addresses = append(addresses, fmt.Sprintf("House %d, Pune", i))
			}
			verifier := &fakeVerifier{jitter: true}

			var progress []int
			var mu sync.Mutex
			opts := quietOptions(workers)
			opts.Progress = func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				assert.Equal(t, 20, total)
				progress = append(progress, done)
			}

			report, err := NewDriver(verifier, opts).Run(context.Background(), makeRows(addresses...))
			require.NoError(t, err)

			require.Len(t, report.Results, 20)
			assert.True(t, report.Complete())
			for i, res := range report.Results {
				assert.Equal(t, fmt.Sprintf("ORD-%d", i+1), res.Row.OrderID)
				assert.Equal(t, addresses[i], res.Record.AddressLine1)
			}
			assert.Len(t, progress, 20)
			assert.NotEmpty(t, report.BatchID)
		})
	}
}

func TestDriver_SkipsEmptyRowsAndIsolatesFailures(t *testing.T) {
	verifier := &fakeVerifier{}
	rows := makeRows("12 MG Road Pune", "   ", "OUTAGE street", "Flat 4B Kochi")

	report, err := NewDriver(verifier, quietOptions(1)).Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, report.Results, 4)

	skipped := report.Results[1].Record
	assert.Equal(t, model.SkippedEmptyRemark, skipped.Remarks)
	assert.Equal(t, model.QualityVeryBad, skipped.AddressQuality)

	failed := report.Results[2]
	assert.Equal(t, model.StatusError, failed.Record.Status)
	assert.ErrorIs(t, failed.Err, common.ErrExtractionUnavailable)

	assert.Equal(t, model.StatusSuccess, report.Results[3].Record.Status)
	assert.NotContains(t, verifier.seen, "   ", "empty rows never reach the verifier")

	success, errored, skippedCount := report.Counts()
	assert.Equal(t, 2, success)
	assert.Equal(t, 1, errored)
	assert.Equal(t, 1, skippedCount)

	for _, o := range verifier.origin {
		assert.Equal(t, report.BatchID, o.BatchID)
		assert.NotEmpty(t, o.OrderID)
	}
}

func TestDriver_AbortsOnUnauthorized(t *testing.T) {
	verifier := &fakeVerifier{}
	rows := makeRows("12 MG Road", "UNAUTHORIZED", "Flat 4B Kochi", "House 9 Jaipur")

	report, err := NewDriver(verifier, quietOptions(1)).Run(context.Background(), rows)

	var abortErr *AbortError
	require.True(t, errors.As(err, &abortErr))
	assert.Equal(t, 2, abortErr.Row)
	assert.Equal(t, "ORD-2", abortErr.OrderID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "ORD-1", report.Results[0].Row.OrderID)
	assert.False(t, report.Complete())
	assert.Equal(t, []string{"12 MG Road", "UNAUTHORIZED"}, verifier.seen)
}

func TestDriver_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewDriver(&fakeVerifier{}, quietOptions(2)).Run(ctx, makeRows("a", "b"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Results)
	assert.Equal(t, 2, report.Total)
}
