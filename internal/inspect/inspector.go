// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package inspect reads a table's live structure from information_schema and
// compares it with the descriptor the table was created from.
package inspect

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of *pgxpool.Pool the inspector uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Column is one live column.
type Column struct {
	Name     string
	DataType string
	Nullable bool
	Identity bool
	Default  string
}

// TableInfo is the live structure of one table.
type TableInfo struct {
	Schema      string
	Name        string
	Exists      bool
	Columns     []Column
	PrimaryKey  []string
	Constraints map[string]string // name -> constraint_type
}

// Inspector loads and caches TableInfo.
type Inspector struct {
	q     Querier
	cache map[string]*TableInfo
	mu    sync.RWMutex
}

// New returns an Inspector over q.
func New(q Querier) *Inspector {
	return &Inspector{q: q, cache: make(map[string]*TableInfo)}
}

// ClearCache drops all cached table structures.
func (in *Inspector) ClearCache() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.cache = make(map[string]*TableInfo)
}

// splitName splits "schema.table"; the schema defaults to public.
func splitName(name string) (schema, table string) {
	if s, t, ok := strings.Cut(name, "."); ok {
		return s, t
	}
	return "public", name
}

const columnsQuery = `
	SELECT column_name, data_type, is_nullable = 'YES', is_identity = 'YES', COALESCE(column_default, '')
	FROM information_schema.columns
	WHERE table_schema = $1 AND table_name = $2
	ORDER BY ordinal_position`

const primaryKeyQuery = `
	SELECT kc.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kc
	  ON tc.constraint_name = kc.constraint_name AND tc.table_schema = kc.table_schema
	WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'PRIMARY KEY'
	ORDER BY kc.ordinal_position`

const constraintsQuery = `
	SELECT constraint_name, constraint_type
	FROM information_schema.table_constraints
	WHERE table_schema = $1 AND table_name = $2`

// Table returns the live structure of the named table, from cache when
// possible. A missing table yields Exists == false and no error.
func (in *Inspector) Table(ctx context.Context, name string) (*TableInfo, error) {
	in.mu.RLock()
	if info, ok := in.cache[name]; ok {
		in.mu.RUnlock()
		return info, nil
	}
	in.mu.RUnlock()

	schema, table := splitName(name)
	info := &TableInfo{Schema: schema, Name: table, Constraints: make(map[string]string)}

	if err := in.loadColumns(ctx, info); err != nil {
		return nil, err
	}
	info.Exists = len(info.Columns) > 0
	if info.Exists {
		if err := in.loadPrimaryKey(ctx, info); err != nil {
			return nil, err
		}
		if err := in.loadConstraints(ctx, info); err != nil {
			return nil, err
		}
	}

	in.mu.Lock()
	in.cache[name] = info
	in.mu.Unlock()
	return info, nil
}

func (in *Inspector) loadColumns(ctx context.Context, info *TableInfo) error {
	rows, err := in.q.Query(ctx, columnsQuery, info.Schema, info.Name)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.DataType, &c.Nullable, &c.Identity, &c.Default); err != nil {
			return err
		}
		info.Columns = append(info.Columns, c)
	}
	return rows.Err()
}

func (in *Inspector) loadPrimaryKey(ctx context.Context, info *TableInfo) error {
	rows, err := in.q.Query(ctx, primaryKeyQuery, info.Schema, info.Name)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return err
		}
		info.PrimaryKey = append(info.PrimaryKey, col)
	}
	return rows.Err()
}

func (in *Inspector) loadConstraints(ctx context.Context, info *TableInfo) error {
	rows, err := in.q.Query(ctx, constraintsQuery, info.Schema, info.Name)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return err
		}
		// NOT NULL shows up as synthetic CHECK constraints on older servers.
		if strings.HasSuffix(name, "_not_null") {
			continue
		}
		info.Constraints[name] = typ
	}
	return rows.Err()
}
