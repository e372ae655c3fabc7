// Package sqlite opens the candidate store and owns its schema.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/lighthouse-careers/agentsearch/internal/db"
)

// TimeLayout is the fixed-width UTC layout used for timestamp columns so that
// lexical order equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
}

// New opens a SQLite database. In-memory databases are pinned to one
// connection because each connection would otherwise see its own empty database.
func New(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if strings.Contains(dsn, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	}
	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return &DB{sqlDB}, nil
}

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.PingContext(ctx); err != nil {
		return &db.Error{Op: "PING", Err: err}
	}
	return nil
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a TimeLayout (or RFC 3339) timestamp.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

var migrations = []string{
	`CREATE TABLE candidates (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    primary_position TEXT NOT NULL DEFAULT '',
    position_category TEXT NOT NULL DEFAULT '',
    years_experience INTEGER,
    nationality TEXT NOT NULL DEFAULT '',
    availability_status TEXT NOT NULL DEFAULT '',
    has_stcw INTEGER NOT NULL DEFAULT 0 CHECK(has_stcw IN (0, 1)),
    has_eng1 INTEGER NOT NULL DEFAULT 0 CHECK(has_eng1 IN (0, 1)),
    has_b1b2 INTEGER NOT NULL DEFAULT 0 CHECK(has_b1b2 IN (0, 1)),
    has_schengen INTEGER NOT NULL DEFAULT 0 CHECK(has_schengen IN (0, 1)),
    highest_license TEXT NOT NULL DEFAULT '',
    embedding TEXT,
    skills TEXT NOT NULL DEFAULT '[]',
    positions_held TEXT NOT NULL DEFAULT '[]',
    certifications TEXT NOT NULL DEFAULT '[]',
    languages TEXT NOT NULL DEFAULT '[]',
    vessel_experience TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    deleted_at TEXT
);
CREATE INDEX idx_candidates_live ON candidates(deleted_at, updated_at);
CREATE INDEX idx_candidates_position ON candidates(primary_position);`,
}

// RunMigrations applies pending schema migrations in order. It is safe to call repeatedly.
func (d *DB) RunMigrations(ctx context.Context) error {
	if _, err := d.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}

	var current int
	if err := d.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := d.BeginTx(ctx, nil)
		if err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("version %d: %w", version, err)}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			_ = tx.Rollback()
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
		if err := tx.Commit(); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
	}
	return nil
}
