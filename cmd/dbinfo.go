// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"metroline/cli/internal/logging"
	"metroline/cli/internal/metro"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// dbinfoCmd shows which database and table names commands will use.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show the current database connection",
	Long: `The dbinfo command displays the connection string commands will use, with
the password masked, where it came from, and the table names derived from the
configured prefix.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, source, err := resolveDSN()
		if err != nil {
			pterm.Warning.Println("No database connection configured")
			pterm.Println("   Run 'metroline connect' or set DB_USER and DB_NAME")
			return errReported
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n", logging.MaskPassword(dsn))
		fmt.Fprintf(&b, "source:  %s\n", source)
		prefix := cfg.DB.TablePrefix
		fmt.Fprintf(&b, "tables:  %s, %s", metro.StationSchema.TableName(prefix), metro.RouteSchema.TableName(prefix))
		if cfg.File != "" {
			fmt.Fprintf(&b, "\nconfig:  %s", cfg.File)
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Database Connection")).
			WithPadding(1).
			Println(b.String())
		pterm.Println()
		pterm.Println("To update this connection, run: metroline connect")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}
