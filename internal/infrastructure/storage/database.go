package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Database bundles a connection with the statement builder for its dialect.
type Database struct {
	DB      *sql.DB
	Driver  string
	builder sq.StatementBuilderType
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*Database, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverSQLite {
		var err error
		if dsn, err = prepareSQLite(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewDatabase(db, driver), nil
}

const sqliteParams = "_journal_mode=WAL&_busy_timeout=5000"

// prepareSQLite creates the parent directory of a plain file path and appends
// the WAL and busy-timeout parameters to the DSN query string.
func prepareSQLite(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
			return "", fmt.Errorf("create database directory: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + sqliteParams, nil
}

// NewDatabase wraps an existing handle, e.g. one produced by sqlmock.
func NewDatabase(db *sql.DB, driver string) *Database {
	var format sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		format = sq.Dollar
	}
	return &Database{
		DB:      db,
		Driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(format).RunWith(db),
	}
}

// Close releases the connection pool.
func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// Migrate creates the tables used by the SQL stores.
func (d *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema(d.Driver) {
		if _, err := d.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func schema(driver string) []string {
	seq := "seq INTEGER PRIMARY KEY AUTOINCREMENT"
	ts := "TIMESTAMP"
	if driver == DriverPostgres {
		seq = "seq BIGSERIAL PRIMARY KEY"
		ts = "TIMESTAMPTZ"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS activity_log (
			` + seq + `,
			id TEXT NOT NULL UNIQUE,
			occurred_at ` + ts + ` NOT NULL,
			event TEXT NOT NULL,
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS status_checks (
			id TEXT PRIMARY KEY,
			client_name TEXT NOT NULL,
			created_at ` + ts + ` NOT NULL
		)`,
	}
}
