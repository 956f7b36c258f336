// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package metro defines the station and route entities on top of the generic
// table engine: their descriptors, the messages for their named constraints,
// typed views of their rows, and the entity-specific queries the generic
// engine does not cover.
package metro

import (
	"metroline/cli/internal/dberr"
	"metroline/cli/internal/schema"
)

// Column names shared by queries and decoding.
const (
	colStationID      = "station_id"
	colStationName    = "name"
	colRouteID        = "route_id"
	colStartStationID = "start_station_id"
)

// StationSchema describes the station table.
var StationSchema = schema.MustValidate(schema.Descriptor{
	BaseName: "station",
	Columns: []schema.Column{
		{Name: colStationID, Tokens: []string{"BIGINT", "GENERATED ALWAYS AS IDENTITY", "PRIMARY KEY"}},
		{Name: colStationName, Tokens: []string{"VARCHAR(200)", "NOT NULL"}},
		{Name: "tariff_zone", Tokens: []string{"INTEGER", "NOT NULL"}},
		{Name: "line_order", Tokens: []string{"INTEGER", "NOT NULL"}},
		{Name: "is_active", Tokens: []string{"BOOLEAN", "NOT NULL", "DEFAULT TRUE"}},
	},
	PrimaryKey: []string{colStationID},
	Constraints: []string{
		"CONSTRAINT chk_station_tariff_zone CHECK (tariff_zone >= 0)",
		"CONSTRAINT chk_station_line_order CHECK (line_order > 0)",
		"CONSTRAINT uq_station_name UNIQUE (name)",
		"CONSTRAINT uq_station_line_order UNIQUE (line_order)",
	},
})

// RouteSchema describes the route table.
var RouteSchema = schema.MustValidate(schema.Descriptor{
	BaseName: "route",
	Columns: []schema.Column{
		{Name: colRouteID, Tokens: []string{"BIGINT", "GENERATED ALWAYS AS IDENTITY", "PRIMARY KEY"}},
		{Name: colStartStationID, Tokens: []string{"BIGINT", "NOT NULL"}},
		{Name: "end_station_id", Tokens: []string{"BIGINT", "NOT NULL"}},
		{Name: "route_name", Tokens: []string{"VARCHAR(200)"}},
		{Name: "is_active", Tokens: []string{"BOOLEAN", "NOT NULL", "DEFAULT TRUE"}},
	},
	PrimaryKey: []string{colRouteID},
	Constraints: []string{
		"CONSTRAINT chk_route_start_end_not_same CHECK (start_station_id <> end_station_id)",
		"CONSTRAINT uq_route_start_end UNIQUE (start_station_id, end_station_id)",
	},
})

// Catalog resolves the named constraints of both tables.
var Catalog = dberr.Catalog{
	Unique: map[string]string{
		"uq_station_name":       "a station with this name already exists",
		"uq_station_line_order": "a station with this line order already exists",
		"uq_route_start_end":    "a route between these stations already exists",
	},
	Check: map[string]string{
		"chk_station_tariff_zone":      "tariff zone must be >= 0",
		"chk_station_line_order":       "line order must be > 0",
		"chk_route_start_end_not_same": "route start and end stations must differ",
	},
}

// MaxNameLen bounds station and route names, matching VARCHAR(200).
const MaxNameLen = 200
