// Package service defines the interfaces shared between application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/pinpoint/internal/model"
)

// Verifier runs the single-record verification pipeline.
// The returned record is always populated; err carries the cause of a failed record.
type Verifier interface {
	Verify(ctx context.Context, raw model.RawInput) (model.VerificationRecord, error)
}

// RecordFilter narrows history queries.
type RecordFilter struct {
	BatchID string
	Limit   int
}

// StoredRecord is a verification persisted to history.
type StoredRecord struct {
	Record       model.VerificationRecord
	BatchID      string
	OrderID      string
	RawAddress   string
	CustomerName string
	CreatedAt    time.Time
}

// RecordStore persists verification history.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec StoredRecord) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]StoredRecord, error)
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	// ShouldRetry decides whether a failed attempt is retried. When nil,
	// only errors marked as retryable are retried.
	ShouldRetry  func(error) bool
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
