// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package inspect

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"metroline/cli/internal/schema"
)

// FindingKind classifies a difference between live and declared structure.
type FindingKind string

const (
	MissingTable      FindingKind = "missing_table"
	MissingColumn     FindingKind = "missing_column"
	ExtraColumn       FindingKind = "extra_column"
	TypeMismatch      FindingKind = "type_mismatch"
	NullMismatch      FindingKind = "null_mismatch"
	PrimaryKeyChanged FindingKind = "primary_key_changed"
	MissingConstraint FindingKind = "missing_constraint"
	ColumnOrder       FindingKind = "column_order"
)

// Finding is one difference.
type Finding struct {
	Kind    FindingKind
	Subject string
	Detail  string
}

func (f Finding) String() string {
	if f.Detail == "" {
		return fmt.Sprintf("%s: %s", f.Kind, f.Subject)
	}
	return fmt.Sprintf("%s: %s (%s)", f.Kind, f.Subject, f.Detail)
}

var reConstraintName = regexp.MustCompile(`(?i)^\s*CONSTRAINT\s+"?([A-Za-z_][A-Za-z0-9_$]*)"?`)

// ConstraintName extracts the name of a "CONSTRAINT <name> ..." clause.
func ConstraintName(clause string) (string, bool) {
	m := reConstraintName.FindStringSubmatch(clause)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

// declaredTypes maps the leading type token to information_schema.data_type.
var declaredTypes = map[string]string{
	"BIGINT":    "bigint",
	"INT8":      "bigint",
	"BIGSERIAL": "bigint",
	"INTEGER":   "integer",
	"INT":       "integer",
	"INT4":      "integer",
	"SERIAL":    "integer",
	"SMALLINT":  "smallint",
	"TEXT":      "text",
	"VARCHAR":   "character varying",
	"BOOLEAN":   "boolean",
	"BOOL":      "boolean",
	"DATE":      "date",
	"NUMERIC":   "numeric",
	"TIMESTAMP": "timestamp without time zone",
}

// DeclaredType returns the information_schema type for a column's first
// token, or "" when it is not one the diff knows.
func DeclaredType(c schema.Column) string {
	if len(c.Tokens) == 0 {
		return ""
	}
	head := strings.ToUpper(strings.TrimSpace(c.Tokens[0]))
	if i := strings.IndexByte(head, '('); i >= 0 {
		head = head[:i]
	}
	return declaredTypes[head]
}

// declaredNotNull reports whether the column definition forbids NULL.
func declaredNotNull(c schema.Column) bool {
	def := strings.ToUpper(c.Definition())
	return strings.Contains(def, "NOT NULL") || strings.Contains(def, "PRIMARY KEY")
}

// Diff compares live structure with the descriptor it should match.
// Findings are ordered: table, columns in declaration order, extra columns,
// primary key, constraints.
func Diff(live *TableInfo, d schema.Descriptor) []Finding {
	if live == nil || !live.Exists {
		name := d.BaseName
		if live != nil {
			name = live.Name
		}
		return []Finding{{Kind: MissingTable, Subject: name}}
	}

	var out []Finding
	byName := make(map[string]Column, len(live.Columns))
	liveOrder := make([]string, 0, len(live.Columns))
	for _, c := range live.Columns {
		byName[c.Name] = c
		liveOrder = append(liveOrder, c.Name)
	}

	for _, dc := range d.Columns {
		lc, ok := byName[dc.Name]
		if !ok {
			out = append(out, Finding{Kind: MissingColumn, Subject: dc.Name})
			continue
		}
		if want := DeclaredType(dc); want != "" && want != lc.DataType {
			out = append(out, Finding{Kind: TypeMismatch, Subject: dc.Name, Detail: fmt.Sprintf("declared %s, live %s", want, lc.DataType)})
		}
		if declaredNotNull(dc) == lc.Nullable {
			detail := "declared nullable, live NOT NULL"
			if lc.Nullable {
				detail = "declared NOT NULL, live nullable"
			}
			out = append(out, Finding{Kind: NullMismatch, Subject: dc.Name, Detail: detail})
		}
	}

	for _, lc := range live.Columns {
		if !d.HasColumn(lc.Name) {
			out = append(out, Finding{Kind: ExtraColumn, Subject: lc.Name})
		}
	}

	declaredOrder := d.ColumnNames()
	shared := slices.DeleteFunc(slices.Clone(liveOrder), func(n string) bool { return !d.HasColumn(n) })
	want := slices.DeleteFunc(slices.Clone(declaredOrder), func(n string) bool { _, ok := byName[n]; return !ok })
	if !slices.Equal(shared, want) {
		out = append(out, Finding{Kind: ColumnOrder, Subject: live.Name, Detail: "live " + strings.Join(shared, ", ")})
	}

	if !slices.Equal(live.PrimaryKey, d.PrimaryKey) {
		out = append(out, Finding{
			Kind:    PrimaryKeyChanged,
			Subject: live.Name,
			Detail:  fmt.Sprintf("declared (%s), live (%s)", strings.Join(d.PrimaryKey, ", "), strings.Join(live.PrimaryKey, ", ")),
		})
	}

	for _, clause := range d.Constraints {
		name, ok := ConstraintName(clause)
		if !ok {
			continue
		}
		if _, found := live.Constraints[name]; !found {
			out = append(out, Finding{Kind: MissingConstraint, Subject: name})
		}
	}
	return out
}
