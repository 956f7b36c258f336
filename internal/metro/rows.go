// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metro

import (
	"fmt"

	"metroline/cli/internal/table"
)

// Station is a typed view of a station row.
type Station struct {
	ID         int64
	Name       string
	TariffZone int64
	LineOrder  int64
	Active     bool
}

// Route is a typed view of a route row. Name is empty when unset.
type Route struct {
	ID             int64
	StartStationID int64
	EndStationID   int64
	Name           string
	Active         bool
}

// DecodeStation converts a generic row in StationSchema column order.
func DecodeStation(r table.Row) (Station, error) {
	if len(r) != len(StationSchema.Columns) {
		return Station{}, fmt.Errorf("station row has %d columns, want %d", len(r), len(StationSchema.Columns))
	}
	var (
		s   Station
		err error
	)
	if s.ID, err = asInt64(r[0]); err != nil {
		return Station{}, fmt.Errorf("station_id: %w", err)
	}
	if s.Name, err = asString(r[1]); err != nil {
		return Station{}, fmt.Errorf("name: %w", err)
	}
	if s.TariffZone, err = asInt64(r[2]); err != nil {
		return Station{}, fmt.Errorf("tariff_zone: %w", err)
	}
	if s.LineOrder, err = asInt64(r[3]); err != nil {
		return Station{}, fmt.Errorf("line_order: %w", err)
	}
	if s.Active, err = asBool(r[4]); err != nil {
		return Station{}, fmt.Errorf("is_active: %w", err)
	}
	return s, nil
}

// DecodeRoute converts a generic row in RouteSchema column order.
func DecodeRoute(r table.Row) (Route, error) {
	if len(r) != len(RouteSchema.Columns) {
		return Route{}, fmt.Errorf("route row has %d columns, want %d", len(r), len(RouteSchema.Columns))
	}
	var (
		rt  Route
		err error
	)
	if rt.ID, err = asInt64(r[0]); err != nil {
		return Route{}, fmt.Errorf("route_id: %w", err)
	}
	if rt.StartStationID, err = asInt64(r[1]); err != nil {
		return Route{}, fmt.Errorf("start_station_id: %w", err)
	}
	if rt.EndStationID, err = asInt64(r[2]); err != nil {
		return Route{}, fmt.Errorf("end_station_id: %w", err)
	}
	if r[3] != nil {
		if rt.Name, err = asString(r[3]); err != nil {
			return Route{}, fmt.Errorf("route_name: %w", err)
		}
	}
	if rt.Active, err = asBool(r[4]); err != nil {
		return Route{}, fmt.Errorf("is_active: %w", err)
	}
	return rt, nil
}

func decodeAll[T any](rows []table.Row, decode func(table.Row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func asString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("unexpected type %T", v)
	}
}

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected type %T", v)
	}
	return b, nil
}
