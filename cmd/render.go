// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"metroline/cli/internal/metro"

	"github.com/pterm/pterm"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// stationRows builds the table shown for a station list, header first.
// Numbers are the 1-based positions accepted by station commands.
func stationRows(stations []metro.Station) [][]string {
	rows := [][]string{{"#", "Name", "Tariff zone", "Line order", "Active"}}
	for i, s := range stations {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Name,
			strconv.FormatInt(s.TariffZone, 10),
			strconv.FormatInt(s.LineOrder, 10),
			yesNo(s.Active),
		})
	}
	return rows
}

// routeRows builds the table shown for the routes of one start station.
// endName resolves an end station id; unresolved ids are shown raw.
func routeRows(routes []metro.Route, endName func(id int64) (string, bool)) [][]string {
	rows := [][]string{{"#", "End station", "Route name", "Active"}}
	for i, r := range routes {
		end, ok := endName(r.EndStationID)
		if !ok {
			end = fmt.Sprintf("(station_id=%d)", r.EndStationID)
		}
		name := strings.TrimSpace(r.Name)
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), end, name, yesNo(r.Active)})
	}
	return rows
}

func printStations(stations []metro.Station) {
	if len(stations) == 0 {
		pterm.Info.Println("No stations.")
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(stationRows(stations)).Render()
}

func printRoutes(start string, routes []metro.Route, endName func(id int64) (string, bool)) {
	if len(routes) == 0 {
		pterm.Info.Printfln("No routes start at %s.", start)
		return
	}
	pterm.DefaultSection.WithLevel(2).Printfln("Routes from %s", start)
	_ = pterm.DefaultTable.WithHasHeader().WithData(routeRows(routes, endName)).Render()
}
