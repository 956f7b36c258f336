// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dbconn owns the live PostgreSQL session used by the table layer.
//
// A Handle behaves like a classic DB-API connection: the first write opens a
// transaction implicitly, and it stays open until Commit or Rollback. Reads run
// inside that transaction when one is open and directly on the pool otherwise.
// The connection itself is opened lazily on first use and released by Close.
//
// A Handle is not safe for concurrent use; callers serialize access.
package dbconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// Handle is a lazily opened database session with an implicit transaction.
type Handle struct {
	dsn    string
	prefix string
	logger *slog.Logger

	db *sql.DB
	tx *sql.Tx
}

// New creates a Handle for the given DSN. No connection is made until the first
// statement. prefix namespaces every table name generated through this handle.
func New(dsn, prefix string, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handle{dsn: dsn, prefix: prefix, logger: logger}
}

// NewWithDB wraps an already opened *sql.DB. Used by tests with go-sqlmock.
func NewWithDB(db *sql.DB, prefix string, logger *slog.Logger) *Handle {
	h := New("", prefix, logger)
	h.db = db
	return h
}

// Prefix returns the table-name prefix for this session.
func (h *Handle) Prefix() string {
	return h.prefix
}

// Connect opens the underlying connection if it is not open yet and verifies it.
func (h *Handle) Connect(ctx context.Context) error {
	_, err := h.conn(ctx)
	return err
}

func (h *Handle) conn(ctx context.Context) (*sql.DB, error) {
	if h.db != nil {
		return h.db, nil
	}
	if h.dsn == "" {
		return nil, errors.New("database connection not configured")
	}

	h.logger.Debug("opening postgres connection")
	db, err := sql.Open("pgx", h.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	h.db = db
	return db, nil
}

// begin returns the open transaction, starting one if needed.
func (h *Handle) begin(ctx context.Context) (*sql.Tx, error) {
	if h.tx != nil {
		return h.tx, nil
	}
	db, err := h.conn(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	h.tx = tx
	return tx, nil
}

// Exec runs a statement inside the implicit transaction.
func (h *Handle) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx.ExecContext(ctx, query, args...)
}

// Query runs a row-returning statement.
func (h *Handle) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if h.tx != nil {
		return h.tx.QueryContext(ctx, query, args...)
	}
	db, err := h.conn(ctx)
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, query, args...)
}

// QueryRow runs a statement expected to return at most one row. Connection
// errors are deferred to Scan, matching *sql.DB.QueryRowContext.
func (h *Handle) QueryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	if h.tx != nil {
		return h.tx.QueryRowContext(ctx, query, args...), nil
	}
	db, err := h.conn(ctx)
	if err != nil {
		return nil, err
	}
	return db.QueryRowContext(ctx, query, args...), nil
}

// InTx reports whether an implicit transaction is open.
func (h *Handle) InTx() bool {
	return h.tx != nil
}

// Commit commits the open transaction. Without one it is a no-op.
func (h *Handle) Commit() error {
	if h.tx == nil {
		return nil
	}
	tx := h.tx
	h.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

// Rollback discards the open transaction. Without one it is a no-op.
func (h *Handle) Rollback() error {
	if h.tx == nil {
		return nil
	}
	tx := h.tx
	h.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// Close rolls back any open transaction and releases the connection.
func (h *Handle) Close() error {
	rbErr := h.Rollback()
	if h.db == nil {
		return rbErr
	}
	db := h.db
	h.db = nil
	return errors.Join(rbErr, db.Close())
}

// SelfTestTable is the base name of the scratch table used by SelfTest.
// Like every generated table it carries the session prefix.
const SelfTestTable = "metroline_selftest"

// SelfTest round-trips a scratch table to prove the session can write, commit
// and read back.
func (h *Handle) SelfTest(ctx context.Context) (bool, error) {
	table := pgx.Identifier{h.prefix + SelfTestTable}.Sanitize()
	steps := []string{
		"DROP TABLE IF EXISTS " + table,
		"CREATE TABLE " + table + " (probe INTEGER)",
		"INSERT INTO " + table + " (probe) VALUES (1)",
	}
	for _, s := range steps {
		if _, err := h.Exec(ctx, s); err != nil {
			_ = h.Rollback()
			return false, err
		}
	}
	if err := h.Commit(); err != nil {
		return false, err
	}

	row, err := h.QueryRow(ctx, "SELECT probe FROM "+table)
	if err != nil {
		return false, err
	}
	var probe int
	if err := row.Scan(&probe); err != nil {
		return false, err
	}

	if _, err := h.Exec(ctx, "DROP TABLE "+table); err != nil {
		_ = h.Rollback()
		return false, err
	}
	if err := h.Commit(); err != nil {
		return false, err
	}
	return probe == 1, nil
}
