package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrInvalidRecord     = errors.New("invalid verification record")
	ErrInvalidLimit      = errors.New("limit must not be negative")
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateStoredRecord checks the fields the schema requires.
func validateStoredRecord(rec *service.StoredRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	if strings.TrimSpace(rec.Record.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(rec.RawAddress) == "" {
		return fmt.Errorf("%w: raw address is required", ErrInvalidRecord)
	}
	switch rec.Record.Status {
	case model.StatusSuccess, model.StatusError:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, rec.Record.Status)
	}
	if pin := rec.Record.PINValue(); pin != "" && !model.IsValidPIN(pin) {
		return fmt.Errorf("%w: malformed PIN %q", ErrInvalidRecord, pin)
	}
	return nil
}

// validateFilter ensures history filters are usable.
func validateFilter(filter service.RecordFilter) error {
	if filter.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, filter.Limit)
	}
	return nil
}
