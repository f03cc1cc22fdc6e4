// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	coredatabase "github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/domain/services"
)

const defaultNotificationAge = 90 * 24 * time.Hour

func newPruneNotificationsCommand(opts *rootOptions) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune-notifications",
		Short: "Delete old notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return errors.NotValidf("older-than %v", olderThan)
			}
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
			removed, err := factory.Notification().DeleteOlderThan(ctx, clock.WallClock.Now().Add(-olderThan))
			if err != nil {
				return errors.Annotate(err, "pruning notifications")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d notification(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", defaultNotificationAge, "Remove notifications older than this")
	return cmd
}
