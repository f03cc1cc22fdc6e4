// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	coredatabase "github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/core/logger"
	"github.com/agency-reporting/progreport/domain/schema"
	"github.com/agency-reporting/progreport/internal/config"
	"github.com/agency-reporting/progreport/internal/database"
	"github.com/agency-reporting/progreport/internal/database/txn"
)

var log = logger.GetLogger("progreport.cmd")

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath   string
	databasePath string
}

// NewRootCommand returns the progreportd command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "progreportd",
		Short: "Program reporting service",
		Long: `progreportd serves the program reporting API: agencies report progress
on their programs for each reporting period, and administrators review,
finalize and reopen those reports.

Configuration is read from the --config YAML file, then PROGREPORT_*
environment variables, then command line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv(config.EnvPrefix+"CONFIG"), "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.databasePath, "database-path", "", "Override the database path")

	cmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newCreateUserCommand(opts),
		newImportLegacyCommand(opts),
		newPruneNotificationsCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// readConfig reads the configuration and applies command line overrides
// and the logging configuration. Only serve requires a fully valid
// configuration.
func (o *rootOptions) readConfig() (config.Config, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return config.Config{}, errors.Trace(err)
	}
	if o.databasePath != "" {
		cfg.DatabasePath = o.databasePath
	}
	if cfg.DatabasePath == "" {
		return config.Config{}, errors.NotValidf("empty database-path")
	}
	if err := logger.Configure(cfg.LoggingConfig); err != nil {
		return config.Config{}, errors.Annotate(err, "configuring logging")
	}
	return cfg, nil
}

// openDatabase opens the configured database and brings its schema up to
// date.
func openDatabase(ctx context.Context, cfg config.Config) (*sql.DB, coredatabase.TxnRunner, int, error) {
	db, err := database.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, nil, 0, errors.Trace(err)
	}
	runner := database.NewTxnRunner(db, txn.WithLogger(logger.GetLogger("progreport.database.txn")))

	applied, err := database.ApplyDDL(ctx, runner, schema.DDL())
	if err != nil {
		_ = db.Close()
		return nil, nil, 0, errors.Annotate(err, "applying schema")
	}
	if applied > 0 {
		log.Infof("applied %d schema change(s) to %q", applied, cfg.DatabasePath)
	}
	return db, runner, applied, nil
}
