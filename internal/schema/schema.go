// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package schema describes the shape of a table as static, developer-authored data.
// A Descriptor lists columns in declaration order together with their type and
// constraint tokens, the primary key, and raw table-level constraint clauses.
// Descriptors are built once at startup and never mutated; the generic table
// engine in internal/table reads them on every call.
package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Column is a single column definition.
type Column struct {
	// Name is the column identifier.
	Name string
	// Tokens is the ordered list of type and constraint tokens, e.g. ["INTEGER", "NOT NULL"].
	Tokens []string
}

// Definition renders the column body without its name, e.g. "INTEGER NOT NULL".
func (c Column) Definition() string {
	return strings.Join(c.Tokens, " ")
}

// Descriptor is the declarative definition of one entity's table.
type Descriptor struct {
	// BaseName is the table name before the connection's prefix is applied.
	BaseName string
	// Columns are kept in declaration order.
	Columns []Column
	// PrimaryKey lists the key columns; the first one is used by update and delete by key.
	PrimaryKey []string
	// Constraints are raw table-level clauses appended after the column definitions.
	Constraints []string
}

// Assignment is one column/value pair of an update.
type Assignment struct {
	Column string
	Value  any
}

// Set is a shorthand constructor for an Assignment.
func Set(column string, value any) Assignment {
	return Assignment{Column: column, Value: value}
}

// TableName applies the naming prefix to the base name.
func (d Descriptor) TableName(prefix string) string {
	return prefix + d.BaseName
}

// PK returns the canonical single-column key used by update and delete by key.
func (d Descriptor) PK() string {
	if len(d.PrimaryKey) == 0 {
		return ""
	}
	return d.PrimaryKey[0]
}

// ColumnNames returns all column names in declaration order.
func (d Descriptor) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnNamesWithoutPK returns the declaration-ordered column names with exactly
// the first primary-key column removed. Insert binds its values positionally
// against this list.
func (d Descriptor) ColumnNamesWithoutPK() []string {
	names := d.ColumnNames()
	if i := slices.Index(names, d.PK()); i >= 0 {
		names = slices.Delete(names, i, i+1)
	}
	return names
}

// HasColumn reports whether the descriptor declares the named column.
func (d Descriptor) HasColumn(name string) bool {
	return slices.ContainsFunc(d.Columns, func(c Column) bool { return c.Name == name })
}

// Validate checks the structural invariants of the descriptor.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.BaseName) == "" {
		return fmt.Errorf("schema: empty base name")
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("schema %s: no columns", d.BaseName)
	}
	seen := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("schema %s: column with empty name", d.BaseName)
		}
		if len(c.Tokens) == 0 {
			return fmt.Errorf("schema %s: column %s has no type", d.BaseName, c.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("schema %s: duplicate column %s", d.BaseName, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	if len(d.PrimaryKey) == 0 {
		return fmt.Errorf("schema %s: empty primary key", d.BaseName)
	}
	for _, k := range d.PrimaryKey {
		if _, ok := seen[k]; !ok {
			return fmt.Errorf("schema %s: primary key column %s is not declared", d.BaseName, k)
		}
	}
	return nil
}

// MustValidate panics if the descriptor is malformed. Intended for package-level
// descriptor definitions, which are fixed at compile time.
func MustValidate(d Descriptor) Descriptor {
	if err := d.Validate(); err != nil {
		panic(err)
	}
	return d
}
