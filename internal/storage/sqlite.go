// Package storage persists verification history to SQLite or PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/pinpoint/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Dialect names a supported SQL backend.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQLStorage implements service.RecordStore over database/sql.
type SQLStorage struct {
	db      *sql.DB
	dialect Dialect
	source  string
}

var _ service.RecordStore = (*SQLStorage)(nil)

// NewSQLiteStorage opens (creating if needed) the SQLite database at dbPath.
func NewSQLiteStorage(dbPath string) (*SQLStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers; one connection also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLStorage{db: db, dialect: DialectSQLite, source: dbPath}, nil
}

// Open opens storage for driver ("sqlite" or "postgres"). source is a file
// path for SQLite and a connection string for PostgreSQL.
func Open(ctx context.Context, driver, source string) (*SQLStorage, error) {
	switch Dialect(strings.ToLower(driver)) {
	case DialectSQLite, "sqlite3", "":
		return NewSQLiteStorage(source)
	case DialectPostgres, "postgresql":
		return NewPostgresStorage(ctx, source)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Dialect returns the backend in use.
func (s *SQLStorage) Dialect() Dialect {
	return s.dialect
}

// Close closes the database connection.
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// rebind rewrites '?' placeholders into the dialect's form.
func (s *SQLStorage) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// timestampType is the column type used for timestamps.
func (s *SQLStorage) timestampType() string {
	if s.dialect == DialectPostgres {
		return "TIMESTAMPTZ"
	}
	return "DATETIME"
}
