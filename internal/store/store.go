// Package store persists submissions, pricing plans and admin users in
// SQLite through the pure Go modernc.org/sqlite driver.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("already exists")
)

// timeLayout is how timestamps are stored. Fixed-width UTC text keeps
// ORDER BY created_at chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps the SQLite database
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens (creating if needed) the database at path. Migrate must be
// called before first use.
func Open(ctx context.Context, path string, logger *slog.Logger, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With(slog.String("component", "store")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("Database opened", slog.String("path", path))
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         TEXT    NOT NULL UNIQUE,
		password_hash TEXT    NOT NULL DEFAULT '',
		is_admin      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name       TEXT NOT NULL,
		business_name   TEXT NOT NULL,
		email           TEXT NOT NULL,
		whatsapp_number TEXT NOT NULL,
		country         TEXT NOT NULL,
		message         TEXT NOT NULL DEFAULT '',
		plan_selected   TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'pending',
		created_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at)`,
	`CREATE TABLE IF NOT EXISTS pricing_plans (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_name        TEXT    NOT NULL UNIQUE,
		base_price       REAL    NOT NULL,
		current_price    REAL    NOT NULL,
		discount_percent INTEGER NOT NULL DEFAULT 0,
		features         TEXT    NOT NULL DEFAULT '[]',
		is_featured      INTEGER NOT NULL DEFAULT 0,
		checkout_url     TEXT    NOT NULL DEFAULT '',
		updated_at       TEXT    NOT NULL
	)`,
}

// Migrate creates all tables that do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	s.logger.Info("Database schema up to date", slog.Int("statements", len(schema)))
	return nil
}

func (s *Store) timestamp() string {
	return formatTime(s.now())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", v, err)
	}
	return t, nil
}

// isConstraint reports whether err is a SQLite constraint violation.
func isConstraint(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}
