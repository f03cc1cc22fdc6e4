// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package domain

import (
	"context"

	"github.com/canonical/sqlair"
	"github.com/juju/errors"
)

type sequence struct {
	Namespace string `db:"namespace"`
	Value     uint64 `db:"value"`
}

// NextSequenceValue returns a monotonically increasing value for the given
// namespace, starting at one. It must be called within the transaction
// that consumes the value.
func NextSequenceValue(ctx context.Context, preparer Preparer, tx *sqlair.TX, namespace string) (uint64, error) {
	seq := sequence{Namespace: namespace}

	upsertStmt, err := preparer.Prepare(`
INSERT INTO sequence (namespace, value) VALUES ($sequence.namespace, 1)
ON CONFLICT (namespace) DO UPDATE SET value = value + 1`, seq)
	if err != nil {
		return 0, errors.Trace(err)
	}

	getStmt, err := preparer.Prepare(`
SELECT &sequence.value FROM sequence WHERE namespace = $sequence.namespace`, seq)
	if err != nil {
		return 0, errors.Trace(err)
	}

	if err := tx.Query(ctx, upsertStmt, seq).Run(); err != nil {
		return 0, errors.Annotatef(err, "incrementing sequence %q", namespace)
	}
	if err := tx.Query(ctx, getStmt, seq).Get(&seq); err != nil {
		return 0, errors.Annotatef(err, "reading sequence %q", namespace)
	}
	return seq.Value, nil
}
