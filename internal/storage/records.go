package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

// DefaultHistoryLimit bounds ListRecords when the filter sets no limit.
const DefaultHistoryLimit = 50

// SaveRecord stores one verification. Saving the same ID twice replaces the row.
func (s *SQLStorage) SaveRecord(ctx context.Context, rec service.StoredRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateStoredRecord(&rec); err != nil {
		return err
	}

	payload, err := json.Marshal(rec.Record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := s.rebind(`
		INSERT INTO verifications (
			id, batch_id, order_id, raw_address, customer_name, status, pin, district, state,
			address_quality, location_suitability, remarks, record, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			pin = excluded.pin,
			district = excluded.district,
			state = excluded.state,
			address_quality = excluded.address_quality,
			location_suitability = excluded.location_suitability,
			remarks = excluded.remarks,
			record = excluded.record`)

	_, err = s.db.ExecContext(ctx, query,
		rec.Record.ID,
		nullString(rec.BatchID),
		nullString(rec.OrderID),
		rec.RawAddress,
		nullString(rec.CustomerName),
		string(rec.Record.Status),
		nullString(rec.Record.PINValue()),
		nullString(rec.Record.District),
		nullString(rec.Record.State),
		string(rec.Record.AddressQuality),
		string(rec.Record.LocationSuitability),
		rec.Record.Remarks,
		string(payload),
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save verification %s: %w", rec.Record.ID, err)
	}
	return nil
}

// ListRecords returns the newest verifications first.
func (s *SQLStorage) ListRecords(ctx context.Context, filter service.RecordFilter) ([]service.StoredRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	var (
		where []string
		args  []any
	)
	if filter.BatchID != "" {
		where = append(where, "batch_id = ?")
		args = append(args, filter.BatchID)
	}

	query := `SELECT batch_id, order_id, raw_address, customer_name, record, created_at FROM verifications`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query verifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []service.StoredRecord
	for rows.Next() {
		var (
			batchID, orderID, customerName sql.NullString
			payload                        string
			stored                         service.StoredRecord
		)
		if err := rows.Scan(&batchID, &orderID, &stored.RawAddress, &customerName, &payload, &stored.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan verification: %w", err)
		}

		var rec model.VerificationRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode verification: %w", err)
		}

		stored.Record = rec
		stored.BatchID = batchID.String
		stored.OrderID = orderID.String
		stored.CustomerName = customerName.String
		records = append(records, stored)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate verifications: %w", err)
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
