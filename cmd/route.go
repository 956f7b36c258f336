// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	apperr "metroline/cli/internal/errors"
	"metroline/cli/internal/metro"
	"metroline/cli/internal/prompt"

	"github.com/spf13/cobra"
)

var (
	routeName   string
	routeActive bool
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "List, add and delete routes by start station",
	Long: `Routes are grouped by their start station. Stations are addressed by their
number in 'metroline station list', routes by their number in
'metroline route list <start n>'.`,
}

var routeListCmd = &cobra.Command{
	Use:   "list <start n>",
	Short: "List routes starting at a station",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parsePosition(args[0])
		if err != nil {
			return invalid(err)
		}
		return withSession(func(ctx context.Context, s *session, _ []string) error {
			start, err := s.stationAt(ctx, n)
			if err != nil {
				return err
			}
			_, err = s.showRoutes(ctx, start)
			return err
		})(cmd, args)
	},
}

var routeAddCmd = &cobra.Command{
	Use:     "add <start n> <end n>",
	Short:   "Add a route between two stations",
	Example: `  metroline route add 1 3 --name Express`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parsePosition(args[0])
		if err != nil {
			return invalid(err)
		}
		to, err := parsePosition(args[1])
		if err != nil {
			return invalid(err)
		}
		name, err := prompt.Optional(routeName, metro.MaxNameLen)
		if err != nil {
			return invalid(apperr.Validationf("--name: %v", err))
		}
		return withSession(func(ctx context.Context, s *session, _ []string) error {
			start, err := s.stationAt(ctx, from)
			if err != nil {
				return err
			}
			end, err := s.stationAt(ctx, to)
			if err != nil {
				return err
			}
			return s.addRoute(ctx, metro.RouteInput{
				StartStationID: start.ID,
				EndStationID:   end.ID,
				Name:           name,
				Active:         routeActive,
			}, end.Name)
		})(cmd, args)
	},
}

var routeDeleteCmd = &cobra.Command{
	Use:   "delete <start n> <route n>",
	Short: "Delete a route of a start station",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parsePosition(args[0])
		if err != nil {
			return invalid(err)
		}
		pos, err := parsePosition(args[1])
		if err != nil {
			return invalid(err)
		}
		return withSession(func(ctx context.Context, s *session, _ []string) error {
			start, err := s.stationAt(ctx, from)
			if err != nil {
				return err
			}
			routes, err := s.routesFrom(ctx, start)
			if err != nil {
				return err
			}
			if pos > len(routes) {
				return invalid(apperr.Validationf("no route number %d from %s", pos, start.Name))
			}
			r := routes[pos-1]
			ok, err := confirm(fmt.Sprintf("Delete route to %q?", s.routeLabel(ctx, r)))
			if err != nil || !ok {
				return err
			}
			return s.deleteRoute(ctx, r)
		})(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.AddCommand(routeListCmd, routeAddCmd, routeDeleteCmd)
	routeAddCmd.Flags().StringVar(&routeName, "name", "", "route name (optional)")
	routeAddCmd.Flags().BoolVar(&routeActive, "active", true, "whether the route is active")
	routeDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}
