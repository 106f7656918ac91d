package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(tx *sql.Tx, s *SQLStorage) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx, s *SQLStorage) error {
			_, err := tx.Exec(fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS verifications (
					id TEXT PRIMARY KEY,
					batch_id TEXT,
					order_id TEXT,
					raw_address TEXT NOT NULL,
					customer_name TEXT,
					status TEXT NOT NULL,
					pin TEXT,
					district TEXT,
					state TEXT,
					address_quality TEXT,
					location_suitability TEXT,
					remarks TEXT NOT NULL,
					record TEXT NOT NULL,
					created_at %s NOT NULL
				)`, s.timestampType()))
			return err
		},
	},
	{
		Version:     2,
		Description: "Index history by batch and time",
		Up: func(tx *sql.Tx, _ *SQLStorage) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_verifications_batch ON verifications(batch_id)`,
				`CREATE INDEX IF NOT EXISTS idx_verifications_created ON verifications(created_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index history by PIN for review queues",
		Up: func(tx *sql.Tx, _ *SQLStorage) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_verifications_pin ON verifications(pin)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx, s); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if execErr := s.setSchemaVersion(tx, migration.Version); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"database", s.source,
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion returns the applied schema version.
func (s *SQLStorage) SchemaVersion(ctx context.Context) (int, error) {
	return s.schemaVersion(ctx)
}

// schemaVersion reads PRAGMA user_version on SQLite. PostgreSQL has no
// equivalent, so it keeps the version in a one-row table.
func (s *SQLStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if s.dialect == DialectSQLite {
		err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
		return version, err
	}

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, err
	}
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	return version, err
}

func (s *SQLStorage) setSchemaVersion(tx *sql.Tx, version int) error {
	if s.dialect == DialectSQLite {
		_, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version))
		return err
	}

	if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
		return err
	}
	_, err := tx.Exec(`INSERT INTO schema_version (version) VALUES ($1)`, version)
	return err
}
