// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/canonical/sqlair"
	"github.com/juju/errors"
	_ "github.com/mattn/go-sqlite3"

	coredatabase "github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/core/logger"
	"github.com/agency-reporting/progreport/internal/database/txn"
)

var log = logger.GetLogger("progreport.database")

// DriverName is the database/sql driver used for the reporting database.
const DriverName = "sqlite3"

// Open opens the SQLite database at path, creating its parent directory
// when required. Foreign keys are always enforced. The special path
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.Annotatef(err, "creating database directory")
		}
	}

	db, err := sql.Open(DriverName, DSN(path, false))
	if err != nil {
		return nil, errors.Annotatef(err, "opening database %q", path)
	}

	// SQLite only allows a single writer; a single connection also keeps
	// in-memory databases alive for the life of the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Annotatef(err, "pinging database %q", path)
	}
	log.Debugf("opened database %q", path)
	return db, nil
}

// DSN returns the go-sqlite3 data source name for the given path. Shared
// in-memory databases are addressed by name so that multiple handles can
// see the same data.
func DSN(path string, sharedMemory bool) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", "5000")
	params.Set("_txlock", "immediate")

	if sharedMemory {
		params.Set("mode", "memory")
		params.Set("cache", "shared")
		return fmt.Sprintf("file:%s?%s", path, params.Encode())
	}
	if path == ":memory:" {
		return fmt.Sprintf("file::memory:?%s", params.Encode())
	}
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	return fmt.Sprintf("file:%s?%s", path, params.Encode())
}

// txnRunner binds a database to a retrying transaction runner.
type txnRunner struct {
	db     *sql.DB
	sqlair *sqlair.DB
	runner *txn.RetryingTxnRunner
}

// NewTxnRunner returns a TxnRunner for the input database. Every
// transaction is retried on transient SQLite errors.
func NewTxnRunner(db *sql.DB, opts ...txn.Option) coredatabase.TxnRunner {
	return &txnRunner{
		db:     db,
		sqlair: sqlair.NewDB(db),
		runner: txn.NewRetryingTxnRunner(opts...),
	}
}

// Txn implements coredatabase.TxnRunner.
func (t *txnRunner) Txn(ctx context.Context, fn func(context.Context, *sqlair.TX) error) error {
	return t.runner.Retry(ctx, func() error {
		return errors.Trace(t.runner.Txn(ctx, t.sqlair, fn))
	})
}

// StdTxn implements coredatabase.TxnRunner.
func (t *txnRunner) StdTxn(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return t.runner.Retry(ctx, func() error {
		return errors.Trace(t.runner.StdTxn(ctx, t.db, fn))
	})
}
