// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dberr translates PostgreSQL failures into domain outcomes.
//
// It is the single place where constraint identity gets meaning: FromError
// extracts a Violation record from a driver error, Catalog maps constraint
// names to human-facing messages, and Guard runs an operation, rolls the
// session back on store failures and reports the resolved message out of band.
//
// Adding a new constraint message is a Catalog entry, never a new branch.
package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ViolationKind is the category of a rejected write.
type ViolationKind string

const (
	Unique     ViolationKind = "unique"
	Check      ViolationKind = "check"
	ForeignKey ViolationKind = "foreign_key"
	NotNull    ViolationKind = "not_null"
	Other      ViolationKind = "other"
)

// kindByCode maps SQLSTATE codes of integrity_constraint_violation (class 23)
// to violation kinds. Codes in the class but absent here classify as Other.
var kindByCode = map[string]ViolationKind{
	pgerrcode.UniqueViolation:     Unique,
	pgerrcode.CheckViolation:      Check,
	pgerrcode.ForeignKeyViolation: ForeignKey,
	pgerrcode.NotNullViolation:    NotNull,
}

// Violation is the record of one constraint violation reported by the store.
type Violation struct {
	Kind       ViolationKind
	Constraint string
	Code       string
	Raw        string
}

// FromError extracts a Violation from err if it is a PostgreSQL integrity
// constraint violation. Any other error, including connectivity failures,
// returns false.
func FromError(err error) (Violation, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Violation{}, false
	}
	if !pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return Violation{}, false
	}
	kind, ok := kindByCode[pgErr.Code]
	if !ok {
		kind = Other
	}
	return Violation{
		Kind:       kind,
		Constraint: pgErr.ConstraintName,
		Code:       pgErr.Code,
		Raw:        pgErr.Error(),
	}, true
}

// FirstLine returns the first line of s with surrounding space trimmed.
func FirstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
