// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	coredatabase "github.com/agency-reporting/progreport/core/database"
	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain/services"
	"github.com/agency-reporting/progreport/domain/user"
)

type createUserOptions struct {
	*rootOptions

	args          user.AddUserArgs
	role          string
	passwordStdin bool
}

func newCreateUserCommand(root *rootOptions) *cobra.Command {
	opts := &createUserOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		Long: `create-user adds a user directly to the database. Use it to create the
first administrator of a new installation.`,
		Args: cobra.NoArgs,
		RunE: opts.run,
	}
	cmd.Flags().StringVar(&opts.args.Name, "name", "", "User name")
	cmd.Flags().StringVar(&opts.args.FullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&opts.args.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&opts.role, "role", string(coreuser.RoleAdmin), "Role: admin, agency or focal")
	cmd.Flags().StringVar(&opts.args.AgencyUUID, "agency", "", "Agency uuid, required for agency and focal users")
	cmd.Flags().StringVar(&opts.args.Password, "password", "", "Password")
	cmd.Flags().BoolVar(&opts.passwordStdin, "password-stdin", false, "Read the password from standard input")
	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	return cmd
}

func (o *createUserOptions) run(cmd *cobra.Command, _ []string) error {
	if o.passwordStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.Annotate(err, "reading password")
		}
		o.args.Password = strings.TrimRight(line, "\r\n")
	}
	if o.args.Password == "" {
		return errors.NotValidf("empty password")
	}
	o.args.Role = coreuser.Role(o.role)

	cfg, err := o.readConfig()
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
	uuid, err := factory.User().AddUser(ctx, o.args)
	if err != nil {
		return errors.Annotatef(err, "creating user %q", o.args.Name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s user %q (%s)\n", o.args.Role, o.args.Name, uuid)
	return nil
}
