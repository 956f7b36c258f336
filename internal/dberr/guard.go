// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dberr

import (
	"context"
	"errors"
	"log/slog"

	apperr "metroline/cli/internal/errors"
)

// Outcome is the classification of a failed operation.
type Outcome struct {
	// Kind is Validation, ConstraintViolation, or the store-failure kind.
	Kind apperr.Kind
	// Message is the resolved human-facing text.
	Message string
	// Violation is set when the store rejected a write on a constraint.
	Violation *Violation
	// Rollback reports whether the session must be rolled back before reuse.
	Rollback bool
}

// Classify maps err to an Outcome without side effects. what describes the
// attempted operation and is appended to store-failure messages.
func Classify(err error, catalog Catalog, what string) Outcome {
	if apperr.Is(err, apperr.Validation) {
		var e *apperr.E
		msg := err.Error()
		if errors.As(err, &e) {
			msg = e.Message
		}
		return Outcome{Kind: apperr.Validation, Message: msg}
	}

	if v, ok := FromError(err); ok {
		return Outcome{
			Kind:      apperr.ConstraintViolation,
			Message:   withContext(catalog.Message(v), what),
			Violation: &v,
			Rollback:  true,
		}
	}

	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.SQL
	}
	msg := "database error"
	if what != "" {
		msg += ": " + what
	}
	return Outcome{
		Kind:     kind,
		Message:  msg + "\ndetails: " + FirstLine(rootMessage(err)),
		Rollback: true,
	}
}

// rootMessage prefers the driver's own text over the tagged wrapper.
func rootMessage(err error) string {
	var e *apperr.E
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}

func withContext(msg, what string) string {
	if what == "" {
		return msg
	}
	return msg + ". " + what
}

// Rollbacker is the part of a session the guard needs.
type Rollbacker interface {
	Rollback() error
}

// Guard runs operations and turns their failures into reported messages.
type Guard struct {
	Session Rollbacker
	Catalog Catalog
	// Report receives the resolved message of every failure.
	Report func(msg string)
	Logger *slog.Logger
}

// Run executes op. On failure it classifies the error, rolls the session back
// when the store was involved, reports the message and returns false.
func (g *Guard) Run(ctx context.Context, what string, op func(ctx context.Context) error) bool {
	_, ok := Do(ctx, g, what, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return ok
}

// Do is Run for operations that produce a value. The zero value and false are
// the "no result" sentinel; the reason travels through g.Report.
func Do[T any](ctx context.Context, g *Guard, what string, op func(ctx context.Context) (T, error)) (T, bool) {
	v, err := op(ctx)
	if err == nil {
		return v, true
	}

	out := Classify(err, g.Catalog, what)
	logger := g.logger()
	if out.Rollback && g.Session != nil {
		if rbErr := g.Session.Rollback(); rbErr != nil {
			logger.Warn("rollback failed", slog.String("op", what), slog.Any("error", rbErr))
		}
	}

	attrs := []any{slog.String("op", what), slog.String("kind", string(out.Kind))}
	if out.Violation != nil {
		attrs = append(attrs, slog.String("constraint", out.Violation.Constraint))
	}
	logger.Debug("operation failed", attrs...)

	if g.Report != nil {
		g.Report(out.Message)
	}
	var zero T
	return zero, false
}

func (g *Guard) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return g.Logger
}
