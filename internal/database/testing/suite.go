// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coredatabase "github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/internal/database"
)

// DatabaseSuite provides each test with a fresh, private in-memory SQLite
// database and a TxnRunner bound to it.
type DatabaseSuite struct {
	testing.IsolationSuite

	db     *sql.DB
	runner coredatabase.TxnRunner
}

// SetUpTest opens the test database.
func (s *DatabaseSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)

	db, err := sql.Open(database.DriverName, database.DSN(uuid.NewString(), true))
	c.Assert(err, jc.ErrorIsNil)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s.db = db
	s.runner = database.NewTxnRunner(db)
}

// TearDownTest closes the test database.
func (s *DatabaseSuite) TearDownTest(c *gc.C) {
	if s.db != nil {
		err := s.db.Close()
		c.Check(err, jc.ErrorIsNil)
		s.db = nil
	}
	s.IsolationSuite.TearDownTest(c)
}

// DB returns the raw database handle.
func (s *DatabaseSuite) DB() *sql.DB {
	return s.db
}

// TxnRunner returns the transaction runner for the test database.
func (s *DatabaseSuite) TxnRunner() coredatabase.TxnRunner {
	return s.runner
}

// TxnRunnerFactory returns a factory yielding the test TxnRunner.
func (s *DatabaseSuite) TxnRunnerFactory() coredatabase.TxnRunnerFactory {
	return coredatabase.NoopTxnRunnerFactory(s.runner)
}

// ApplyDDL applies the input schema to the test database.
func (s *DatabaseSuite) ApplyDDL(c *gc.C, deltas []coredatabase.Delta) {
	_, err := database.ApplyDDL(context.Background(), s.runner, deltas)
	c.Assert(err, jc.ErrorIsNil)
}
