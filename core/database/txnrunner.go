// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

import (
	"context"
	"database/sql"

	"github.com/canonical/sqlair"
)

// TxnRunner defines an interface for running transactions against the
// reporting database.
type TxnRunner interface {
	// Txn manages the application of a SQLair transaction within which the
	// input function is executed. The input context can be used by the
	// caller to cancel this process. Transient failures (database busy or
	// locked) are retried.
	Txn(context.Context, func(context.Context, *sqlair.TX) error) error

	// StdTxn manages the application of a standard library transaction
	// within which the input function is executed.
	StdTxn(context.Context, func(context.Context, *sql.Tx) error) error
}

// TxnRunnerFactory aliases a function that returns a TxnRunner or an error.
type TxnRunnerFactory = func() (TxnRunner, error)

// NoopTxnRunnerFactory returns a factory that always yields the input
// runner. It is mostly useful for wiring and tests.
func NoopTxnRunnerFactory(runner TxnRunner) TxnRunnerFactory {
	return func() (TxnRunner, error) {
		return runner, nil
	}
}
