// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	apperr "metroline/cli/internal/errors"
	"metroline/cli/internal/metro"
	"metroline/cli/internal/prompt"

	"github.com/spf13/pflag"
)

var stationFlags = []string{"name", "zone", "order", "active"}

func addStationFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "station name")
	fs.Int64("zone", 0, "tariff zone (>= 0)")
	fs.Int64("order", 0, "position on the line (> 0)")
	fs.Bool("active", true, "whether the station is active")
}

func changedAny(fs *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if fs.Changed(n) {
			return true
		}
	}
	return false
}

// stationFromFlags overlays the changed station flags on base and validates
// them with the same rules the prompts use.
func stationFromFlags(fs *pflag.FlagSet, base metro.StationInput) (metro.StationInput, error) {
	in := base
	if fs.Changed("name") {
		raw, _ := fs.GetString("name")
		name, err := prompt.NonEmpty(raw, metro.MaxNameLen)
		if err != nil {
			return in, apperr.Validationf("--name: %v", err)
		}
		in.Name = name
	}
	if fs.Changed("zone") {
		in.TariffZone, _ = fs.GetInt64("zone")
		if err := prompt.AtLeast(0).Check(in.TariffZone); err != nil {
			return in, apperr.Validationf("--zone: %v", err)
		}
	}
	if fs.Changed("order") {
		in.LineOrder, _ = fs.GetInt64("order")
		if err := prompt.GreaterThan(0).Check(in.LineOrder); err != nil {
			return in, apperr.Validationf("--order: %v", err)
		}
	}
	if fs.Changed("active") {
		in.Active, _ = fs.GetBool("active")
	}
	return in, nil
}

// newStationInput reads a new station from flags, or from prompts when no
// field flag was given. Flags must then name every required field.
func newStationInput(fs *pflag.FlagSet, p *prompt.Prompter) (metro.StationInput, error) {
	if !changedAny(fs, stationFlags...) {
		return askStation(p)
	}
	for _, n := range []string{"name", "zone", "order"} {
		if !fs.Changed(n) {
			return metro.StationInput{}, apperr.Validationf("--%s is required when station fields are given as flags", n)
		}
	}
	return stationFromFlags(fs, metro.StationInput{Active: true})
}

func askStation(p *prompt.Prompter) (metro.StationInput, error) {
	var (
		in  metro.StationInput
		err error
	)
	if in.Name, err = p.NonEmpty("Station name", metro.MaxNameLen); err != nil {
		return in, err
	}
	if in.TariffZone, err = p.Int("Tariff zone (integer >= 0)", prompt.AtLeast(0)); err != nil {
		return in, err
	}
	if in.LineOrder, err = p.Int("Line order (integer > 0)", prompt.GreaterThan(0)); err != nil {
		return in, err
	}
	in.Active, err = p.Confirm("Active?", true)
	return in, err
}

// askStationEdit prompts for every field; empty answers keep cur's values.
func askStationEdit(p *prompt.Prompter, cur metro.Station) (metro.StationInput, error) {
	var (
		in  metro.StationInput
		err error
	)
	if in.Name, err = p.StringOr("Name", cur.Name, metro.MaxNameLen); err != nil {
		return in, err
	}
	if in.TariffZone, err = p.IntOr("Tariff zone", cur.TariffZone, prompt.AtLeast(0)); err != nil {
		return in, err
	}
	if in.LineOrder, err = p.IntOr("Line order", cur.LineOrder, prompt.GreaterThan(0)); err != nil {
		return in, err
	}
	in.Active, err = p.Confirm("Active?", cur.Active)
	return in, err
}

func inputOf(st metro.Station) metro.StationInput {
	return metro.StationInput{Name: st.Name, TariffZone: st.TariffZone, LineOrder: st.LineOrder, Active: st.Active}
}
