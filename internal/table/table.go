// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package table implements a generic CRUD and DDL engine driven by a schema.Descriptor.
//
// One Table binds a descriptor to a Handle. Every call re-reads the descriptor
// and the handle's prefix, so the Table itself holds no mutable state.
//
// Key properties:
//   - Data values are always bound as $n placeholders, never interpolated
//   - Identifiers (table and column names) always go through pgx identifier quoting
//   - Each mutating operation is one statement followed by a commit
//   - Failures are returned tagged with an internal/errors Kind; interpreting
//     constraint names is left to internal/dberr
package table

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	apperr "metroline/cli/internal/errors"
	"metroline/cli/internal/dberr"
	"metroline/cli/internal/schema"

	"github.com/jackc/pgx/v5"
)

// Handle is the session a Table issues statements through.
// *dbconn.Handle satisfies it.
type Handle interface {
	Prefix() string
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) (*sql.Row, error)
	Commit() error
}

// Row is one result tuple in column declaration order.
type Row []any

// Table is the generic engine for one entity.
type Table struct {
	desc   schema.Descriptor
	h      Handle
	logger *slog.Logger
}

// New binds a descriptor to a handle. The descriptor is validated once here.
// If logger is nil, a discard logger is used.
func New(desc schema.Descriptor, h Handle, logger *slog.Logger) (*Table, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Table{desc: desc, h: h, logger: logger}, nil
}

// Descriptor returns the schema this table was built from.
func (t *Table) Descriptor() schema.Descriptor {
	return t.desc
}

// Handle returns the session this table issues statements through.
func (t *Table) Handle() Handle {
	return t.h
}

// Name returns the prefixed table name. It is computed on every call.
func (t *Table) Name() string {
	return t.desc.TableName(t.h.Prefix())
}

// ColumnNames returns all column names in declaration order.
func (t *Table) ColumnNames() []string {
	return t.desc.ColumnNames()
}

// ColumnNamesWithoutPK returns the columns InsertOne binds its values to.
func (t *Table) ColumnNamesWithoutPK() []string {
	return t.desc.ColumnNamesWithoutPK()
}

// Ident quotes a single identifier for PostgreSQL.
func Ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func identList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = Ident(n)
	}
	return strings.Join(quoted, ", ")
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}

// createSQL renders CREATE TABLE from the descriptor.
func (t *Table) createSQL() string {
	parts := make([]string, 0, len(t.desc.Columns)+len(t.desc.Constraints))
	for _, c := range t.desc.Columns {
		parts = append(parts, Ident(c.Name)+" "+c.Definition())
	}
	parts = append(parts, t.desc.Constraints...)
	return fmt.Sprintf("CREATE TABLE %s (%s)", Ident(t.Name()), strings.Join(parts, ", "))
}

func (t *Table) orderBy() string {
	return identList(t.desc.PrimaryKey)
}

// exec runs one mutating statement and commits it.
func (t *Table) exec(ctx context.Context, op, query string, args ...any) error {
	t.logger.Debug("exec",
		slog.String("op", op),
		slog.String("table", t.Name()),
		slog.Int("args", len(args)),
	)
	if _, err := t.h.Exec(ctx, query, args...); err != nil {
		return err
	}
	return t.h.Commit()
}

// fail tags a store failure with its kind. Constraint identity is preserved,
// not interpreted.
func (t *Table) fail(kind apperr.Kind, op string, err error) error {
	msg := fmt.Sprintf("%s %s", op, Ident(t.Name()))
	if v, ok := dberr.FromError(err); ok {
		return apperr.Violation(v.Constraint, msg, err)
	}
	return apperr.Wrap(kind, msg, err)
}

// Create issues CREATE TABLE and commits.
func (t *Table) Create(ctx context.Context) error {
	if err := t.exec(ctx, "create", t.createSQL()); err != nil {
		return t.fail(apperr.Schema, "create table", err)
	}
	return nil
}

// Drop issues DROP TABLE IF EXISTS and commits. Absence is not an error.
func (t *Table) Drop(ctx context.Context) error {
	return t.drop(ctx, false)
}

// DropCascade is Drop with CASCADE, removing dependent objects too.
func (t *Table) DropCascade(ctx context.Context) error {
	return t.drop(ctx, true)
}

func (t *Table) drop(ctx context.Context, cascade bool) error {
	q := "DROP TABLE IF EXISTS " + Ident(t.Name())
	if cascade {
		q += " CASCADE"
	}
	if err := t.exec(ctx, "drop", q); err != nil {
		return t.fail(apperr.Schema, "drop table", err)
	}
	return nil
}

// All returns every row ordered by the primary key columns.
func (t *Table) All(ctx context.Context) ([]Row, error) {
	q := fmt.Sprintf("SELECT * FROM %s ORDER BY %s", Ident(t.Name()), t.orderBy())
	rows, err := t.h.Query(ctx, q)
	if err != nil {
		return nil, t.fail(apperr.SQL, "select from", err)
	}
	out, err := ScanRows(rows)
	if err != nil {
		return nil, t.fail(apperr.SQL, "select from", err)
	}
	return out, nil
}

// FindByPosition returns the n-th row (1-based) in the same order as All.
// n < 1 reports not found without issuing a query.
func (t *Table) FindByPosition(ctx context.Context, n int) (Row, bool, error) {
	if n < 1 {
		return nil, false, nil
	}
	q := fmt.Sprintf("SELECT * FROM %s ORDER BY %s LIMIT 1 OFFSET $1", Ident(t.Name()), t.orderBy())
	rows, err := t.h.Query(ctx, q, n-1)
	if err != nil {
		return nil, false, t.fail(apperr.SQL, "select from", err)
	}
	out, err := ScanRows(rows)
	if err != nil {
		return nil, false, t.fail(apperr.SQL, "select from", err)
	}
	if len(out) == 0 {
		return nil, false, nil
	}
	return out[0], true, nil
}

// Count returns the number of rows in the table.
func (t *Table) Count(ctx context.Context) (int64, error) {
	row, err := t.h.QueryRow(ctx, "SELECT COUNT(*) FROM "+Ident(t.Name()))
	if err != nil {
		return 0, t.fail(apperr.SQL, "count", err)
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, t.fail(apperr.SQL, "count", err)
	}
	return n, nil
}

// InsertOne inserts values positionally into every column except the first
// primary key column, in declaration order, and commits.
func (t *Table) InsertOne(ctx context.Context, values ...any) error {
	cols := t.ColumnNamesWithoutPK()
	if len(values) != len(cols) {
		return apperr.Validationf("%s expects %d values, got %d", t.Name(), len(cols), len(values))
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		Ident(t.Name()), identList(cols), placeholders(1, len(cols)))
	if err := t.exec(ctx, "insert", q, values...); err != nil {
		return t.fail(apperr.SQL, "insert into", err)
	}
	return nil
}

// UpdateByPK sets exactly the supplied columns on rows whose primary key equals pk.
// Assignments to the key column are dropped; an empty change set issues nothing.
// Zero matching rows is not an error.
func (t *Table) UpdateByPK(ctx context.Context, pk any, changes ...schema.Assignment) error {
	key := t.desc.PK()
	sets := normalize(key, changes)
	if len(sets) == 0 {
		return nil
	}

	clauses := make([]string, len(sets))
	args := make([]any, 0, len(sets)+1)
	for i, a := range sets {
		if !t.desc.HasColumn(a.Column) {
			return apperr.Validationf("%s has no column %q", t.Name(), a.Column)
		}
		clauses[i] = fmt.Sprintf("%s = $%d", Ident(a.Column), i+1)
		args = append(args, a.Value)
	}
	args = append(args, pk)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		Ident(t.Name()), strings.Join(clauses, ", "), Ident(key), len(args))
	if err := t.exec(ctx, "update", q, args...); err != nil {
		return t.fail(apperr.SQL, "update", err)
	}
	return nil
}

// normalize drops key assignments and collapses repeated columns, keeping the
// first position and the last value.
func normalize(key string, changes []schema.Assignment) []schema.Assignment {
	out := make([]schema.Assignment, 0, len(changes))
	pos := make(map[string]int, len(changes))
	for _, a := range changes {
		if a.Column == key {
			continue
		}
		if i, ok := pos[a.Column]; ok {
			out[i].Value = a.Value
			continue
		}
		pos[a.Column] = len(out)
		out = append(out, a)
	}
	return out
}

// DeleteByPK deletes rows whose primary key equals pk and commits.
// Zero matching rows is not an error.
func (t *Table) DeleteByPK(ctx context.Context, pk any) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", Ident(t.Name()), Ident(t.desc.PK()))
	if err := t.exec(ctx, "delete", q, pk); err != nil {
		return t.fail(apperr.SQL, "delete from", err)
	}
	return nil
}

// ScanRows drains rows into generic tuples and closes them.
func ScanRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, Row(vals))
	}
	return out, rows.Err()
}
