// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"metroline/cli/internal/keychain"
	"metroline/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// disconnectCmd removes the DSN saved by connect.
var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Remove the saved database connection",
	Long: `The disconnect command deletes the DSN stored in the OS keychain by
'metroline connect'. Settings from --dsn, DB_DSN or DB_* variables are not
affected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager(logger)
		if err != nil {
			pterm.Warning.Println("Secure storage is not available on this system; nothing to remove.")
			return nil
		}
		if err := km.ClearDSN(); err != nil {
			pterm.Error.Println(logging.PresentError("failed to remove saved connection", err))
			return errReported
		}
		pterm.Success.Println("Saved database connection removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}
