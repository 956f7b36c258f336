// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can branch on what went wrong without
// inspecting raw driver errors.
//
// The table layer tags failures with a Kind and the original constraint identity;
// turning that identity into meaningful text is left to internal/dberr.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Validation indicates a precondition failed before any statement reached the store.
	Validation Kind = "validation"
	// ConstraintViolation indicates the store rejected a write due to an integrity rule.
	ConstraintViolation Kind = "constraint_violation"
	// Schema indicates a DDL statement failed.
	Schema Kind = "schema"
	// SQL indicates any other store-level failure, including connectivity.
	SQL Kind = "sql"
)

// E wraps an error with kind and human-friendly message.
// Constraint carries the violated constraint name when Kind is ConstraintViolation.
type E struct {
	Kind       Kind
	Message    string
	Constraint string
	Err        error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Validationf builds a Validation error with a formatted message.
func Validationf(format string, args ...any) *E {
	return New(Validation, fmt.Sprintf(format, args...))
}

// Violation builds a ConstraintViolation error for the named constraint.
func Violation(constraint, msg string, err error) *E {
	return &E{Kind: ConstraintViolation, Message: msg, Constraint: constraint, Err: err}
}

// KindOf returns the Kind of the first *E in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
