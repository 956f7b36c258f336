// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	apperr "metroline/cli/internal/errors"
	"metroline/cli/internal/prompt"
	"metroline/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var assumeYes bool

var stationCmd = &cobra.Command{
	Use:   "station",
	Short: "List, add, edit and delete stations",
	Long: `Stations are addressed by their number in 'metroline station list', which
orders them by id. Commands that change data prompt for missing values when no
field flags are given.`,
}

var stationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stations",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		stations, err := s.listStations(ctx)
		if err != nil {
			return err
		}
		printStations(stations)
		return nil
	}),
}

var stationAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a station",
	Example: `  metroline station add
  metroline station add --name Central --zone 1 --order 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := newStationInput(cmd.Flags(), prompt.Terminal())
		if err != nil {
			return inputError(err)
		}
		return withSession(func(ctx context.Context, s *session, _ []string) error {
			return s.addStation(ctx, in)
		})(cmd, args)
	},
}

var stationEditCmd = &cobra.Command{
	Use:   "edit <n>",
	Short: "Edit the station with the given number",
	Long: `The edit command changes the station at position n. Given field flags
replace only those fields; without flags every field is prompted for, and an
empty answer keeps the current value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parsePosition(args[0])
		if err != nil {
			return invalid(err)
		}
		return withSession(func(ctx context.Context, s *session, _ []string) error {
			st, err := s.stationAt(ctx, n)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			in, err := stationFromFlags(fs, inputOf(st))
			if !changedAny(fs, stationFlags...) {
				in, err = askStationEdit(prompt.Terminal(), st)
			}
			if err != nil {
				return inputError(err)
			}
			return s.updateStation(ctx, st.ID, in)
		})(cmd, args)
	},
}

var stationDeleteCmd = &cobra.Command{
	Use:   "delete <n>",
	Short: "Delete the station with the given number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parsePosition(args[0])
		if err != nil {
			return invalid(err)
		}
		return withSession(func(ctx context.Context, s *session, _ []string) error {
			st, err := s.stationAt(ctx, n)
			if err != nil {
				return err
			}
			ok, err := confirm(fmt.Sprintf("Delete station %q?", st.Name))
			if err != nil || !ok {
				return err
			}
			return s.deleteStation(ctx, st)
		})(cmd, args)
	},
}

// confirm asks before a destructive change unless --yes was given.
func confirm(question string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !terminal.IsInteractive() {
		return false, invalid(apperr.Validationf("refusing to delete without confirmation; pass --yes"))
	}
	ok, err := prompt.Terminal().Confirm(question, false)
	if err != nil {
		return false, err
	}
	if !ok {
		pterm.Info.Println("Cancelled")
	}
	return ok, nil
}

// inputError reports validation failures; anything else (an interrupted
// prompt) is returned unchanged.
func inputError(err error) error {
	if apperr.Is(err, apperr.Validation) {
		return invalid(err)
	}
	return err
}

func init() {
	rootCmd.AddCommand(stationCmd)
	stationCmd.AddCommand(stationListCmd, stationAddCmd, stationEditCmd, stationDeleteCmd)
	addStationFlags(stationAddCmd.Flags())
	addStationFlags(stationEditCmd.Flags())
	stationDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}
