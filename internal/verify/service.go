// Package verify runs the single-record pipeline: PIN lookup, extraction and
// reconciliation. It is the unit both the interactive and batch flows call.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/pinpoint/internal/common"
	"github.com/Veraticus/pinpoint/internal/extract"
	"github.com/Veraticus/pinpoint/internal/metrics"
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/postal"
	"github.com/Veraticus/pinpoint/internal/reconcile"
	"github.com/Veraticus/pinpoint/internal/service"
)

// Service verifies one address at a time. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	lookup    postal.Lookuper
	extractor extract.Extractor
	engine    *reconcile.Engine
	store     service.RecordStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures optional collaborators.
type Option func(*Service)

// WithStore persists every completed record to history.
func WithStore(store service.RecordStore) Option {
	return func(s *Service) { s.store = store }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics records verification counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService wires the pipeline together.
func NewService(lookup postal.Lookuper, extractor extract.Extractor, engine *reconcile.Engine, opts ...Option) *Service {
	s := &Service{
		lookup:    lookup,
		extractor: extractor,
		engine:    engine,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ service.Verifier = (*Service)(nil)

// Verify runs the pipeline for raw.
//
// The returned record is always populated. A non-nil error means the record
// has status Error: model.ErrEmptyAddress for invalid input, or an
// infrastructure failure such as a missing credential or an extraction outage.
// Unparseable extraction output is not an error; it yields a degraded record.
func (s *Service) Verify(ctx context.Context, raw model.RawInput) (rec model.VerificationRecord, err error) {
	start := time.Now()
	id := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("verification panicked", "id", id, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("verification panicked: %v", r)
			rec = model.ErrorRecord(raw, "Internal error while verifying address")
		}
		rec.ID = id
		s.metrics.ObserveVerification(string(rec.Status), string(rec.AddressQuality), time.Since(start))
		s.save(ctx, raw, rec)
	}()

	if err := raw.Validate(); err != nil {
		return model.ErrorRecord(raw, "Address is required"), err
	}

	rawPIN := reconcile.ExtractPIN(raw.Address)
	ref := model.Unverified()
	if rawPIN != "" {
		ref = s.lookup.Lookup(ctx, rawPIN)
	}

	extracted, err := s.extractor.Extract(ctx, raw.Address, ref)
	if err != nil {
		var parseErr *extract.ParseError
		if !errors.As(err, &parseErr) {
			s.logger.Error("extraction failed", "error", err)
			return model.ErrorRecord(raw, failureMessage(err)), err
		}
		s.logger.Warn("extraction output unusable, using cleaned raw text", "error", err)
		extracted = extract.Degraded(raw.Address)
	}

	return s.engine.Reconcile(ctx, raw, ref, extracted), nil
}

func (s *Service) save(ctx context.Context, raw model.RawInput, rec model.VerificationRecord) {
	if s.store == nil || rec.Status != model.StatusSuccess {
		return
	}

	origin := service.OriginFrom(ctx)
	stored := service.StoredRecord{
		Record:       rec,
		BatchID:      origin.BatchID,
		OrderID:      origin.OrderID,
		RawAddress:   raw.Address,
		CustomerName: raw.CustomerName,
		CreatedAt:    rec.VerifiedAt,
	}
	// History must not fail a request whose caller has already gone away.
	if err := s.store.SaveRecord(context.WithoutCancel(ctx), stored); err != nil {
		s.logger.Warn("failed to save verification", "id", rec.ID, "error", err)
	}
}

// failureMessage turns an infrastructure failure into a terse message for the record.
func failureMessage(err error) string {
	var userErr *common.UserError
	if !errors.As(err, &userErr) && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return "Verification was canceled before it completed"
	}
	return common.UserMessage(err)
}
