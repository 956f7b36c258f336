// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var dropCascade bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the station and route tables",
	Long: `The init command creates the station table and then the route table, each
in its own transaction. A table that cannot be created is reported and the
remaining one is still attempted.`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		return s.createTables(ctx)
	}),
}

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the route and station tables",
	Long: `The drop command removes the route table and then the station table.
Missing tables are not an error. With --cascade, objects that depend on the
tables are dropped as well.`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		return s.dropTables(ctx, dropCascade)
	}),
}

func init() {
	rootCmd.AddCommand(initCmd, dropCmd)
	dropCmd.Flags().BoolVar(&dropCascade, "cascade", false, "also drop dependent objects")
}
