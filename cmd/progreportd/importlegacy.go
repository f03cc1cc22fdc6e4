// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	coredatabase "github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/domain/services"
)

func newImportLegacyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-legacy",
		Short: "Convert legacy submission content into targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.readConfig()
			if err != nil {
				return errors.Trace(err)
			}
			ctx := cmd.Context()
			db, runner, _, err := openDatabase(ctx, cfg)
			if err != nil {
				return errors.Trace(err)
			}
			defer db.Close()

			factory := services.NewFactory(services.Config{
				DB:    coredatabase.NoopTxnRunnerFactory(runner),
				Clock: clock.WallClock,
			})
			result, err := factory.Submission().ImportLegacyContent(ctx)
			if err != nil {
				return errors.Annotate(err, "importing legacy content")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted: %d\nskipped: %d\nfailed: %d\n",
				result.Converted, result.Skipped, result.Failed)
			return nil
		},
	}
}
