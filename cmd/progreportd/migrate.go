// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.readConfig()
			if err != nil {
				return errors.Trace(err)
			}
			db, _, applied, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return errors.Trace(err)
			}
			defer db.Close()

			if applied == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", cfg.DatabasePath)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d schema change(s) to %s\n", applied, cfg.DatabasePath)
			return nil
		},
	}
}
