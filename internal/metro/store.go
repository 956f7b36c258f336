// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metro

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	apperr "metroline/cli/internal/errors"
	"metroline/cli/internal/schema"
	"metroline/cli/internal/table"
)

// StationInput holds the writable station fields in column order.
type StationInput struct {
	Name       string
	TariffZone int64
	LineOrder  int64
	Active     bool
}

// RouteInput holds the writable route fields in column order.
// An empty Name is stored as NULL.
type RouteInput struct {
	StartStationID int64
	EndStationID   int64
	Name           string
	Active         bool
}

// Store binds both entity tables to one session.
type Store struct {
	Stations *table.Table
	Routes   *table.Table
}

// NewStore builds the station and route tables over h.
func NewStore(h table.Handle, logger *slog.Logger) (*Store, error) {
	stations, err := table.New(StationSchema, h, logger)
	if err != nil {
		return nil, err
	}
	routes, err := table.New(RouteSchema, h, logger)
	if err != nil {
		return nil, err
	}
	return &Store{Stations: stations, Routes: routes}, nil
}

// CreationOrder lists the tables in the order they must be created.
// Dropping goes in reverse.
func (s *Store) CreationOrder() []*table.Table {
	return []*table.Table{s.Stations, s.Routes}
}

// ListStations returns all stations ordered by key.
func (s *Store) ListStations(ctx context.Context) ([]Station, error) {
	rows, err := s.Stations.All(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll(rows, DecodeStation)
}

// StationAt returns the station at 1-based position n in key order.
func (s *Store) StationAt(ctx context.Context, n int) (Station, bool, error) {
	row, found, err := s.Stations.FindByPosition(ctx, n)
	if err != nil || !found {
		return Station{}, false, err
	}
	st, err := DecodeStation(row)
	if err != nil {
		return Station{}, false, err
	}
	return st, true, nil
}

// AddStation inserts a station.
func (s *Store) AddStation(ctx context.Context, in StationInput) error {
	return s.Stations.InsertOne(ctx, in.Name, in.TariffZone, in.LineOrder, in.Active)
}

// UpdateStation overwrites every writable field of the station with the given id.
func (s *Store) UpdateStation(ctx context.Context, id int64, in StationInput) error {
	return s.Stations.UpdateByPK(ctx, id,
		schema.Set(colStationName, in.Name),
		schema.Set("tariff_zone", in.TariffZone),
		schema.Set("line_order", in.LineOrder),
		schema.Set("is_active", in.Active),
	)
}

// DeleteStation removes the station with the given id.
func (s *Store) DeleteStation(ctx context.Context, id int64) error {
	return s.Stations.DeleteByPK(ctx, id)
}

// StationName looks up a station's name by id.
func (s *Store) StationName(ctx context.Context, id int64) (string, bool, error) {
	return StationName(ctx, s.Stations, id)
}

// RoutesFrom returns the routes starting at the given station.
func (s *Store) RoutesFrom(ctx context.Context, startID int64) ([]Route, error) {
	rows, err := RoutesByStart(ctx, s.Routes, startID)
	if err != nil {
		return nil, err
	}
	return decodeAll(rows, DecodeRoute)
}

// AddRoute verifies both stations exist and differ, then inserts the route.
// Failed preconditions return a validation error before any write.
func (s *Store) AddRoute(ctx context.Context, in RouteInput) error {
	if in.StartStationID == in.EndStationID {
		return apperr.New(apperr.Validation, "route start and end stations must differ")
	}
	if _, ok, err := s.StationName(ctx, in.StartStationID); err != nil {
		return err
	} else if !ok {
		return apperr.New(apperr.Validation, "start station not found")
	}
	if _, ok, err := s.StationName(ctx, in.EndStationID); err != nil {
		return err
	} else if !ok {
		return apperr.New(apperr.Validation, "end station not found")
	}

	var name any
	if in.Name != "" {
		name = in.Name
	}
	return s.Routes.InsertOne(ctx, in.StartStationID, in.EndStationID, name, in.Active)
}

// DeleteRoute removes the route with the given id.
func (s *Store) DeleteRoute(ctx context.Context, id int64) error {
	return s.Routes.DeleteByPK(ctx, id)
}

// RoutesByStart lists the rows of routes whose start station is startID,
// ordered by route id.
func RoutesByStart(ctx context.Context, routes *table.Table, startID int64) ([]table.Row, error) {
	q := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 ORDER BY %s",
		table.Ident(routes.Name()), table.Ident(colStartStationID), table.Ident(colRouteID))
	rows, err := routes.Handle().Query(ctx, q, startID)
	if err != nil {
		return nil, apperr.Wrap(apperr.SQL, "list routes by start station", err)
	}
	out, err := table.ScanRows(rows)
	if err != nil {
		return nil, apperr.Wrap(apperr.SQL, "list routes by start station", err)
	}
	return out, nil
}

// StationName returns the name of the station with the given id.
func StationName(ctx context.Context, stations *table.Table, id int64) (string, bool, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		table.Ident(colStationName), table.Ident(stations.Name()), table.Ident(colStationID))
	row, err := stations.Handle().QueryRow(ctx, q, id)
	if err != nil {
		return "", false, apperr.Wrap(apperr.SQL, "look up station", err)
	}
	var name string
	if err := row.Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, apperr.Wrap(apperr.SQL, "look up station", err)
	}
	return name, true, nil
}
