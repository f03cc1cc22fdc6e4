// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package txn_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/canonical/sqlair"
	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	"github.com/mattn/go-sqlite3"
	gc "gopkg.in/check.v1"

	loggertesting "github.com/agency-reporting/progreport/core/logger/testing"
	databasetesting "github.com/agency-reporting/progreport/internal/database/testing"
	"github.com/agency-reporting/progreport/internal/database/txn"
)

type transactionRunnerSuite struct {
	databasetesting.DatabaseSuite
}

var _ = gc.Suite(&transactionRunnerSuite{})

func (s *transactionRunnerSuite) TestTxn(c *gc.C) {
	runner := txn.NewRetryingTxnRunner()

	err := runner.StdTxn(context.Background(), s.DB(), func(ctx context.Context, tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT 1")
		if err != nil {
			return errors.Trace(err)
		}
		defer rows.Close()
		return nil
	})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *transactionRunnerSuite) TestTxnWithCancelledContext(c *gc.C) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := txn.NewRetryingTxnRunner()

	err := runner.StdTxn(ctx, s.DB(), func(ctx context.Context, tx *sql.Tx) error {
		c.Fatal("should not be called")
		return nil
	})
	c.Assert(err, gc.ErrorMatches, "context canceled")
}

func (s *transactionRunnerSuite) TestTxnInserts(c *gc.C) {
	runner := txn.NewRetryingTxnRunner()

	s.createTable(c)

	err := runner.StdTxn(context.Background(), s.DB(), func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO foo (id, name) VALUES (1, 'test')")
		return errors.Trace(err)
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.countRows(c), gc.Equals, 1)
}

func (s *transactionRunnerSuite) TestTxnRollback(c *gc.C) {
	runner := txn.NewRetryingTxnRunner()

	s.createTable(c)

	err := runner.StdTxn(context.Background(), s.DB(), func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO foo (id, name) VALUES (1, 'test')")
		if err != nil {
			return errors.Trace(err)
		}
		return errors.Errorf("fail")
	})
	c.Assert(err, gc.ErrorMatches, "fail")
	c.Check(s.countRows(c), gc.Equals, 0)
}

func (s *transactionRunnerSuite) TestSqlairTxnRollback(c *gc.C) {
	runner := txn.NewRetryingTxnRunner()

	s.createTable(c)

	type foo struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}
	stmt, err := sqlair.Prepare("INSERT INTO foo (id, name) VALUES ($foo.*)", foo{})
	c.Assert(err, jc.ErrorIsNil)

	err = runner.Txn(context.Background(), sqlair.NewDB(s.DB()), func(ctx context.Context, tx *sqlair.TX) error {
		if err := tx.Query(ctx, stmt, foo{ID: 1, Name: "test"}).Run(); err != nil {
			return errors.Trace(err)
		}
		return errors.Errorf("fail")
	})
	c.Assert(err, gc.ErrorMatches, "fail")
	c.Check(s.countRows(c), gc.Equals, 0)
}

func (s *transactionRunnerSuite) TestRetryForNonRetryableError(c *gc.C) {
	runner := txn.NewRetryingTxnRunner()

	var count int
	err := runner.Retry(context.Background(), func() error {
		count++
		return errors.Errorf("fail")
	})
	c.Assert(err, gc.ErrorMatches, "fail")
	c.Assert(count, gc.Equals, 1)
}

func (s *transactionRunnerSuite) TestRetryKeepsErrorIdentity(c *gc.C) {
	runner := txn.NewRetryingTxnRunner(txn.WithRetryStrategy(
		txn.DefaultRetryStrategy(testclock.NewDilatedWallClock(time.Millisecond), loggertesting.WrapCheckLog(c)),
	))

	err := runner.Retry(context.Background(), func() error { return nil })
	c.Assert(err, jc.ErrorIsNil)

	err = runner.Retry(context.Background(), func() error {
		return errors.NotFoundf("submission")
	})
	c.Check(err, jc.ErrorIs, errors.NotFound)
	c.Check(err, gc.ErrorMatches, "submission not found")
}

func (s *transactionRunnerSuite) TestRetryWithACancelledContext(c *gc.C) {
	ctx, cancel := context.WithCancel(context.Background())

	runner := txn.NewRetryingTxnRunner()

	var count int
	err := runner.Retry(ctx, func() error {
		defer cancel()

		count++
		return sqlite3.ErrBusy
	})
	c.Assert(err, gc.NotNil)
	c.Assert(count, gc.Equals, 1)
}

func (s *transactionRunnerSuite) TestRetryForRetryableError(c *gc.C) {
	clock := testclock.NewDilatedWallClock(time.Millisecond)
	runner := txn.NewRetryingTxnRunner(txn.WithRetryStrategy(
		txn.DefaultRetryStrategy(clock, loggertesting.WrapCheckLog(c)),
	))

	var count int
	err := runner.Retry(context.Background(), func() error {
		count++
		if count < 5 {
			return sqlite3.ErrBusy
		}
		return nil
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 5)
}

func (s *transactionRunnerSuite) createTable(c *gc.C) {
	_, err := s.DB().Exec("CREATE TABLE foo (id INT PRIMARY KEY, name VARCHAR(255))")
	c.Assert(err, jc.ErrorIsNil)
}

func (s *transactionRunnerSuite) countRows(c *gc.C) int {
	var n int
	err := s.DB().QueryRow("SELECT COUNT(*) FROM foo").Scan(&n)
	c.Assert(err, jc.ErrorIsNil)
	return n
}
