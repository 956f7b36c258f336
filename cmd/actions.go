// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"log/slog"

	"metroline/cli/internal/dberr"
	apperr "metroline/cli/internal/errors"
	"metroline/cli/internal/logging"
	"metroline/cli/internal/metro"
	"metroline/cli/internal/prompt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// withSession opens a session for the duration of one command.
func withSession(fn func(ctx context.Context, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(ctx, s, args)
	}
}

// invalid prints a validation failure and marks it reported.
func invalid(err error) error {
	logging.NewReporter(nil).Report(dberr.Classify(err, metro.Catalog, "").Message)
	return errReported
}

// parsePosition reads a 1-based item number from a command argument.
func parsePosition(arg string) (int, error) {
	n, err := prompt.Int(arg, prompt.AtLeast(1))
	if err != nil {
		return 0, apperr.Validationf("item number %q: %v", arg, err)
	}
	return int(n), nil
}

func (s *session) createTables(ctx context.Context) error {
	failed := false
	for _, t := range s.store.CreationOrder() {
		if !s.guard.Run(ctx, "could not create "+t.Name(), t.Create) {
			failed = true
		}
	}
	if failed {
		return errReported
	}
	pterm.Success.Println("Tables created")
	return nil
}

func (s *session) dropTables(ctx context.Context, cascade bool) error {
	order := s.store.CreationOrder()
	failed := false
	for i := len(order) - 1; i >= 0; i-- {
		t := order[i]
		drop := t.Drop
		if cascade {
			drop = t.DropCascade
		}
		if !s.guard.Run(ctx, "could not drop "+t.Name(), drop) {
			failed = true
		}
	}
	if failed {
		return errReported
	}
	pterm.Success.Println("Tables dropped")
	return nil
}

func (s *session) listStations(ctx context.Context) ([]metro.Station, error) {
	stations, ok := dberr.Do(ctx, s.guard, "could not list stations", s.store.ListStations)
	if !ok {
		return nil, errReported
	}
	return stations, nil
}

// stationAt resolves a 1-based station number, reporting unknown numbers.
func (s *session) stationAt(ctx context.Context, n int) (metro.Station, error) {
	type hit struct {
		st    metro.Station
		found bool
	}
	h, ok := dberr.Do(ctx, s.guard, "could not read stations", func(ctx context.Context) (hit, error) {
		st, found, err := s.store.StationAt(ctx, n)
		return hit{st, found}, err
	})
	if !ok {
		return metro.Station{}, errReported
	}
	if !h.found {
		return metro.Station{}, invalid(apperr.Validationf("no station number %d", n))
	}
	return h.st, nil
}

func (s *session) addStation(ctx context.Context, in metro.StationInput) error {
	err := s.run(ctx, "could not add station", func(ctx context.Context) error {
		return s.store.AddStation(ctx, in)
	})
	if err == nil {
		pterm.Success.Printfln("Station %q added", in.Name)
	}
	return err
}

func (s *session) updateStation(ctx context.Context, id int64, in metro.StationInput) error {
	err := s.run(ctx, "could not update station", func(ctx context.Context) error {
		return s.store.UpdateStation(ctx, id, in)
	})
	if err == nil {
		pterm.Success.Println("Station updated")
	}
	return err
}

func (s *session) deleteStation(ctx context.Context, st metro.Station) error {
	err := s.run(ctx, "could not delete station", func(ctx context.Context) error {
		return s.store.DeleteStation(ctx, st.ID)
	})
	if err == nil {
		pterm.Success.Printfln("Station %q deleted", st.Name)
	}
	return err
}

func (s *session) routesFrom(ctx context.Context, start metro.Station) ([]metro.Route, error) {
	routes, ok := dberr.Do(ctx, s.guard, "could not list routes", func(ctx context.Context) ([]metro.Route, error) {
		return s.store.RoutesFrom(ctx, start.ID)
	})
	if !ok {
		return nil, errReported
	}
	return routes, nil
}

// endNames resolves station names for route listings. Lookup failures fall
// back to the raw id.
func (s *session) endNames(ctx context.Context) func(id int64) (string, bool) {
	return func(id int64) (string, bool) {
		name, ok, err := s.store.StationName(ctx, id)
		if err != nil {
			logger.Debug("station name lookup failed", slog.Int64("station_id", id), slog.Any("error", err))
			return "", false
		}
		return name, ok
	}
}

func (s *session) showRoutes(ctx context.Context, start metro.Station) ([]metro.Route, error) {
	routes, err := s.routesFrom(ctx, start)
	if err != nil {
		return nil, err
	}
	printRoutes(start.Name, routes, s.endNames(ctx))
	return routes, nil
}

func (s *session) addRoute(ctx context.Context, in metro.RouteInput, endName string) error {
	err := s.run(ctx, "could not add route", func(ctx context.Context) error {
		return s.store.AddRoute(ctx, in)
	})
	if err == nil {
		pterm.Success.Printfln("Route added (end: %s)", endName)
	}
	return err
}

func (s *session) deleteRoute(ctx context.Context, r metro.Route) error {
	err := s.run(ctx, "could not delete route", func(ctx context.Context) error {
		return s.store.DeleteRoute(ctx, r.ID)
	})
	if err == nil {
		pterm.Success.Println("Route deleted")
	}
	return err
}

// routeLabel names a route by its end station for confirmations.
func (s *session) routeLabel(ctx context.Context, r metro.Route) string {
	if name, ok := s.endNames(ctx)(r.EndStationID); ok {
		return name
	}
	return "?"
}
