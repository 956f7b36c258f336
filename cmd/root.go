// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for metroline, a manager
// for metro stations and the routes between them stored in PostgreSQL.
// Every command loads configuration first, then opens one database session
// whose failures are classified and reported by a dberr.Guard.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"metroline/cli/internal/config"
	"metroline/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  = logging.Discard()
)

// errReported marks failures whose message was already shown to the user.
var errReported = errors.New("reported")

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "metroline",
	Short: "Manage metro stations and routes in PostgreSQL",
	Long: `metroline keeps a list of metro stations and the routes between them in
PostgreSQL. Run 'metroline init' once to create the tables, then use the
station and route commands or the interactive 'metroline menu'.

Connection settings come from 'metroline connect', the --dsn flag, or the
DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and DB_TABLE_PREFIX variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.New(cfg.LogLevel, os.Stderr)
		if cfg.File != "" {
			logger.Debug("config loaded", slog.String("file", cfg.File))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI application and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, logging.PresentError("", err))
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/metroline/config.yaml)")
	pf.String("dsn", "", "PostgreSQL connection string, overrides saved and DB_* settings")
	pf.String("table-prefix", "", "prefix prepended to every table name")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
}
