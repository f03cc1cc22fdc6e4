// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"

	"github.com/juju/errors"

	coredatabase "github.com/agency-reporting/progreport/core/database"
)

const createSchemaTable = `
CREATE TABLE IF NOT EXISTS schema (
    version    INTEGER PRIMARY KEY,
    hash       TEXT NOT NULL,
    applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// ApplyDDL applies every delta that has not yet been recorded in the schema
// table, in order, within a single transaction. It returns the number of
// deltas applied. A recorded delta whose statement no longer hashes to the
// recorded value is reported as an error, as the schema has been edited
// after it was applied.
func ApplyDDL(ctx context.Context, runner coredatabase.TxnRunner, deltas []coredatabase.Delta) (int, error) {
	var applied int
	err := runner.StdTxn(ctx, func(ctx context.Context, tx *sql.Tx) error {
		applied = 0
		if _, err := tx.ExecContext(ctx, createSchemaTable); err != nil {
			return errors.Annotate(err, "creating schema table")
		}

		hashes, err := readSchemaHashes(ctx, tx)
		if err != nil {
			return errors.Trace(err)
		}

		for i, delta := range deltas {
			version := i + 1
			hash := computeHash(delta)
			if existing, ok := hashes[version]; ok {
				if existing != hash {
					return errors.Errorf("schema delta %d has changed since it was applied", version)
				}
				continue
			}

			if _, err := tx.ExecContext(ctx, delta.Stmt(), delta.Args()...); err != nil {
				return errors.Annotatef(err, "applying schema delta %d", version)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO schema (version, hash) VALUES (?, ?)", version, hash); err != nil {
				return errors.Annotatef(err, "recording schema delta %d", version)
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Trace(err)
	}
	if applied > 0 {
		log.Infof("applied %d schema change(s)", applied)
	}
	return applied, nil
}

func readSchemaHashes(ctx context.Context, tx *sql.Tx) (map[int]string, error) {
	rows, err := tx.QueryContext(ctx, "SELECT version, hash FROM schema")
	if err != nil {
		return nil, errors.Annotate(err, "reading schema versions")
	}
	defer rows.Close()

	hashes := make(map[int]string)
	for rows.Next() {
		var (
			version int
			hash    string
		)
		if err := rows.Scan(&version, &hash); err != nil {
			return nil, errors.Trace(err)
		}
		hashes[version] = hash
	}
	return hashes, errors.Trace(rows.Err())
}

func computeHash(delta coredatabase.Delta) string {
	sum := sha256.Sum256([]byte(delta.Stmt()))
	return hex.EncodeToString(sum[:])
}
