// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"log/slog"

	"metroline/cli/internal/dbconn"
	"metroline/cli/internal/dberr"
	"metroline/cli/internal/keychain"
	"metroline/cli/internal/logging"
	"metroline/cli/internal/metro"

	"github.com/pterm/pterm"
)

// Where a resolved DSN came from.
const (
	sourceExplicit = "--dsn flag, DB_DSN or config file"
	sourceKeychain = "OS keychain"
	sourceFields   = "DB_* settings"
)

// session bundles one database handle with the entity store and the guard
// that reports failures on it.
type session struct {
	h     *dbconn.Handle
	store *metro.Store
	guard *dberr.Guard
}

// savedDSN returns the DSN stored by 'metroline connect', or "".
func savedDSN() string {
	km, err := keychain.GetManager(logger)
	if err != nil {
		logger.Debug("keychain unavailable", slog.Any("error", err))
		return ""
	}
	dsn, err := km.LoadDSN()
	if err != nil {
		if !errors.Is(err, keychain.ErrNotFound) {
			logger.Debug("failed to read saved DSN", slog.Any("error", err))
		}
		return ""
	}
	return dsn
}

// resolveDSN picks the connection string and names its source.
func resolveDSN() (string, string, error) {
	if cfg.DB.DSN != "" {
		dsn, err := cfg.ResolveDSN("")
		return dsn, sourceExplicit, err
	}
	if saved := savedDSN(); saved != "" {
		dsn, err := cfg.ResolveDSN(saved)
		return dsn, sourceKeychain, err
	}
	dsn, err := cfg.ResolveDSN("")
	return dsn, sourceFields, err
}

// openSession connects to the database and prepares the store. Connection
// failures are printed with a hint and returned as errReported.
func openSession(ctx context.Context) (*session, error) {
	dsn, source, err := resolveDSN()
	if err != nil {
		return nil, err
	}
	logger.Debug("connecting", slog.String("source", source), slog.String("dsn", logging.Mask(dsn)))

	h := dbconn.New(dsn, cfg.DB.TablePrefix, logger)
	if err := h.Connect(ctx); err != nil {
		pterm.Println(logging.FormatConnectionError(err))
		return nil, errReported
	}
	store, err := metro.NewStore(h, logger)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	return &session{
		h:     h,
		store: store,
		guard: &dberr.Guard{
			Session: h,
			Catalog: metro.Catalog,
			Report:  logging.NewReporter(nil).Report,
			Logger:  logger,
		},
	}, nil
}

func (s *session) Close() {
	if err := s.h.Close(); err != nil {
		logger.Warn("failed to close database session", slog.Any("error", err))
	}
}

// run executes op under the guard and converts a reported failure into
// errReported so the process exits non-zero.
func (s *session) run(ctx context.Context, what string, op func(ctx context.Context) error) error {
	if !s.guard.Run(ctx, what, op) {
		return errReported
	}
	return nil
}
