// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"time"

	"metroline/cli/internal/inspect"
	"metroline/cli/internal/logging"
	"metroline/cli/internal/metro"
	"metroline/cli/internal/schema"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Compare the live tables with the expected layout",
	Long: `The inspect command reads the station and route tables from the database
catalog and lists every difference from the layout 'metroline init' creates:
missing tables or columns, type and nullability changes, a changed primary key
and missing named constraints. It exits non-zero when differences are found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dsn, _, err := resolveDSN()
		if err != nil {
			return err
		}

		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err := pgxpool.New(connectCtx, dsn)
		if err == nil {
			err = pool.Ping(connectCtx)
		}
		cancel()
		if err != nil {
			if pool != nil {
				pool.Close()
			}
			pterm.Println(logging.FormatConnectionError(err))
			return errReported
		}
		defer pool.Close()

		ins := inspect.New(pool)
		drift := false
		for _, d := range []schema.Descriptor{metro.StationSchema, metro.RouteSchema} {
			name := d.TableName(cfg.DB.TablePrefix)
			live, err := ins.Table(ctx, name)
			if err != nil {
				pterm.Error.Println(logging.PresentError("failed to inspect "+name, err))
				return errReported
			}
			findings := inspect.Diff(live, d)
			if len(findings) == 0 {
				pterm.Success.Printfln("%s matches", name)
				continue
			}
			drift = true
			pterm.Warning.Printfln("%s differs:", name)
			for _, f := range findings {
				pterm.Println("   " + f.String())
			}
		}
		if drift {
			return errReported
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
