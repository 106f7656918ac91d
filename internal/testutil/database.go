// Package testutil provides shared fixtures for pinpoint tests: an in-memory
// history database, a fake postal-code service and canned Oracle responses.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/pinpoint/internal/service"
	"github.com/Veraticus/pinpoint/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLStorage
	t       *testing.T
}

// TestDBOptions configures SetupTestDBWithOptions.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLStorage) error
	Records        []service.StoredRecord
	SkipMigrations bool
}

// SetupTestDB creates a migrated in-memory SQLite database that is closed
// when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	for _, rec := range opts.Records {
		if err := store.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("failed to seed record %q: %v", rec.Record.ID, err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustList returns every stored record, newest first.
func (db *TestDB) MustList(filter service.RecordFilter) []service.StoredRecord {
	db.t.Helper()
	records, err := db.Storage.ListRecords(context.Background(), filter)
	if err != nil {
		db.t.Fatalf("failed to list records: %v", err)
	}
	return records
}
