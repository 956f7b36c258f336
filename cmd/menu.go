// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"metroline/cli/internal/metro"
	"metroline/cli/internal/prompt"
	"metroline/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Manage stations and routes interactively",
	Long: `The menu command opens one database session and walks through stations,
routes by start station and table initialisation in a loop. Failed operations
are reported and the menu carries on; choose Exit or press Ctrl+C to leave.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !terminal.IsInteractive() {
			return errors.New("menu needs an interactive terminal; use the station and route commands instead")
		}
		return nil
	},
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		m := &menu{s: s, p: prompt.Terminal()}
		return m.run(ctx)
	}),
}

type menu struct {
	s *session
	p *prompt.Prompter
}

// carryOn swallows failures that were already reported so the loop continues.
func carryOn(err error) error {
	if errors.Is(err, errReported) {
		return nil
	}
	return err
}

func (m *menu) run(ctx context.Context) error {
	for {
		choice, err := m.p.Select("Main menu", []string{
			"Stations",
			"Routes by start station",
			"Initialise tables",
			"Exit",
		})
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = m.stations(ctx)
		case 1:
			err = m.routes(ctx)
		case 2:
			err = m.tables(ctx)
		default:
			pterm.Info.Println("Bye")
			return nil
		}
		if err = carryOn(err); err != nil {
			return err
		}
	}
}

func (m *menu) stations(ctx context.Context) error {
	for {
		stations, err := m.s.listStations(ctx)
		if err = carryOn(err); err != nil {
			return err
		}
		printStations(stations)

		choice, err := m.p.Select("Stations", []string{"Add", "Edit", "Delete", "Back"})
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = m.addStation(ctx)
		case 1:
			err = m.editStation(ctx, stations)
		case 2:
			err = m.deleteStation(ctx, stations)
		default:
			return nil
		}
		if err = carryOn(err); err != nil {
			return err
		}
	}
}

func (m *menu) addStation(ctx context.Context) error {
	in, err := askStation(m.p)
	if err != nil {
		return err
	}
	return m.s.addStation(ctx, in)
}

// pickStation asks for a position in stations, or reports that there is
// nothing to pick from.
func (m *menu) pickStation(stations []metro.Station, label string) (metro.Station, bool, error) {
	if len(stations) == 0 {
		pterm.Info.Println("No stations yet. Add one first.")
		return metro.Station{}, false, nil
	}
	n, err := m.p.Position(label, len(stations))
	if err != nil {
		return metro.Station{}, false, err
	}
	return stations[n-1], true, nil
}

func (m *menu) editStation(ctx context.Context, stations []metro.Station) error {
	st, ok, err := m.pickStation(stations, "Station number to edit")
	if err != nil || !ok {
		return err
	}
	pterm.Info.Println("Enter new values. Leave empty to keep the current one.")
	in, err := askStationEdit(m.p, st)
	if err != nil {
		return err
	}
	return m.s.updateStation(ctx, st.ID, in)
}

func (m *menu) deleteStation(ctx context.Context, stations []metro.Station) error {
	st, ok, err := m.pickStation(stations, "Station number to delete")
	if err != nil || !ok {
		return err
	}
	if ok, err := m.confirm(fmt.Sprintf("Delete station %q?", st.Name)); err != nil || !ok {
		return err
	}
	return m.s.deleteStation(ctx, st)
}

func (m *menu) routes(ctx context.Context) error {
	stations, err := m.s.listStations(ctx)
	if err != nil {
		return err
	}
	printStations(stations)
	start, ok, err := m.pickStation(stations, "Start station number")
	if err != nil || !ok {
		return err
	}

	for {
		routes, err := m.s.showRoutes(ctx, start)
		if err = carryOn(err); err != nil {
			return err
		}

		choice, err := m.p.Select("Routes from "+start.Name, []string{"Add route", "Delete route", "Back"})
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = m.addRoute(ctx, start)
		case 1:
			err = m.deleteRoute(ctx, routes)
		default:
			return nil
		}
		if err = carryOn(err); err != nil {
			return err
		}
	}
}

func (m *menu) addRoute(ctx context.Context, start metro.Station) error {
	stations, err := m.s.listStations(ctx)
	if err != nil {
		return err
	}
	if len(stations) < 2 {
		pterm.Info.Println("A route needs at least two stations.")
		return nil
	}
	printStations(stations)
	n, err := m.p.Position("End station number", len(stations))
	if err != nil {
		return err
	}
	end := stations[n-1]
	if end.ID == start.ID {
		pterm.Warning.Println("Start and end stations must differ.")
		return nil
	}

	name, err := m.p.Optional("Route name (optional)", metro.MaxNameLen)
	if err != nil {
		return err
	}
	active, err := m.p.Confirm("Active?", true)
	if err != nil {
		return err
	}
	return m.s.addRoute(ctx, metro.RouteInput{
		StartStationID: start.ID,
		EndStationID:   end.ID,
		Name:           name,
		Active:         active,
	}, end.Name)
}

func (m *menu) deleteRoute(ctx context.Context, routes []metro.Route) error {
	if len(routes) == 0 {
		pterm.Info.Println("Nothing to delete.")
		return nil
	}
	n, err := m.p.Position("Route number to delete", len(routes))
	if err != nil {
		return err
	}
	r := routes[n-1]
	if ok, err := m.confirm(fmt.Sprintf("Delete route to %q?", m.s.routeLabel(ctx, r))); err != nil || !ok {
		return err
	}
	return m.s.deleteRoute(ctx, r)
}

func (m *menu) tables(ctx context.Context) error {
	for {
		choice, err := m.p.Select("Initialise", []string{
			"Create tables (station, route)",
			"Drop tables (route, station)",
			"Back",
		})
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = m.s.createTables(ctx)
		case 1:
			err = m.s.dropTables(ctx, false)
		default:
			return nil
		}
		if err = carryOn(err); err != nil {
			return err
		}
	}
}

func (m *menu) confirm(question string) (bool, error) {
	ok, err := m.p.Confirm(question, false)
	if err == nil && !ok {
		pterm.Info.Println("Cancelled")
	}
	return ok, err
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
