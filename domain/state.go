// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package domain

import (
	"sync"

	"github.com/canonical/sqlair"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/database"
)

// Preparer is an interface that prepares SQL statements for sqlair.
type Preparer interface {
	Prepare(query string, typeSamples ...any) (*sqlair.Statement, error)
}

// StateBase defines a base struct for requesting a database. This will cache
// the database for the lifetime of the state, along with every statement
// prepared through it.
type StateBase struct {
	getDB database.TxnRunnerFactory

	dbMutex sync.RWMutex
	db      database.TxnRunner

	stmtMutex  sync.RWMutex
	statements map[string]*sqlair.Statement
}

// NewStateBase returns a new StateBase.
func NewStateBase(getDB database.TxnRunnerFactory) *StateBase {
	return &StateBase{
		getDB:      getDB,
		statements: make(map[string]*sqlair.Statement),
	}
}

// DB returns the database for a given namespace.
func (st *StateBase) DB() (database.TxnRunner, error) {
	if st.getDB == nil {
		return nil, errors.New("nil getDB")
	}

	st.dbMutex.RLock()
	if st.db != nil {
		defer st.dbMutex.RUnlock()
		return st.db, nil
	}
	st.dbMutex.RUnlock()

	st.dbMutex.Lock()
	defer st.dbMutex.Unlock()

	if st.db == nil {
		var err error
		if st.db, err = st.getDB(); err != nil {
			return nil, errors.Annotate(err, "invoking getDB")
		}
	}

	return st.db, nil
}

// Prepare prepares a SQLair query. If the query has been prepared previously
// it is retrieved from the statement cache.
//
// Note that because the type samples are not considered when retrieving a
// query from the cache, it is an error to prepare two identical queries with
// different type samples.
func (st *StateBase) Prepare(query string, typeSamples ...any) (*sqlair.Statement, error) {
	st.stmtMutex.RLock()
	if stmt, ok := st.statements[query]; ok {
		defer st.stmtMutex.RUnlock()
		return stmt, nil
	}
	st.stmtMutex.RUnlock()

	st.stmtMutex.Lock()
	defer st.stmtMutex.Unlock()

	if stmt, ok := st.statements[query]; ok {
		return stmt, nil
	}

	stmt, err := sqlair.Prepare(query, typeSamples...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	st.statements[query] = stmt
	return stmt, nil
}
