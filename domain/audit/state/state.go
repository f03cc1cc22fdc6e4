// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"context"
	"time"

	"github.com/canonical/sqlair"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/domain"
	"github.com/agency-reporting/progreport/domain/audit"
)

type dbRecord struct {
	UUID      string    `db:"uuid"`
	UserUUID  string    `db:"user_uuid"`
	Action    string    `db:"action"`
	Detail    string    `db:"detail"`
	Outcome   string    `db:"outcome"`
	CreatedAt time.Time `db:"created_at"`
}

func (r dbRecord) toRecord() audit.Record {
	return audit.Record{
		UUID:      r.UUID,
		UserUUID:  r.UserUUID,
		Action:    r.Action,
		Detail:    r.Detail,
		Outcome:   audit.Outcome(r.Outcome),
		CreatedAt: r.CreatedAt,
	}
}

type dbFilter struct {
	UserUUID string    `db:"user_uuid"`
	Action   string    `db:"action"`
	HasSince bool      `db:"has_since"`
	Since    time.Time `db:"since"`
	Limit    int       `db:"max_rows"`
}

// State represents a type for interacting with the underlying state.
type State struct {
	*domain.StateBase
}

// NewState returns a new State for interacting with the underlying state.
func NewState(factory database.TxnRunnerFactory) *State {
	return &State{
		StateBase: domain.NewStateBase(factory),
	}
}

// AddRecord appends a record to the audit log.
func (st *State) AddRecord(ctx context.Context, record audit.Record) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	row := dbRecord{
		UUID:      record.UUID,
		UserUUID:  record.UserUUID,
		Action:    record.Action,
		Detail:    record.Detail,
		Outcome:   string(record.Outcome),
		CreatedAt: record.CreatedAt.UTC(),
	}
	stmt, err := st.Prepare(`
INSERT INTO audit_log (uuid, user_uuid, action, detail, outcome, created_at)
VALUES ($dbRecord.*)`, row)
	if err != nil {
		return errors.Annotate(err, "preparing insert audit record statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return tx.Query(ctx, stmt, row).Run()
	})
	return errors.Annotatef(err, "recording audit action %q", record.Action)
}

// ListRecords returns the audit records matching the filter, newest first.
func (st *State) ListRecords(ctx context.Context, filter audit.Filter) ([]audit.Record, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	f := dbFilter{
		UserUUID: filter.UserUUID,
		Action:   filter.Action,
		HasSince: !filter.Since.IsZero(),
		Since:    filter.Since.UTC(),
		Limit:    filter.Limit,
	}
	if f.Limit <= 0 {
		f.Limit = -1
	}
	stmt, err := st.Prepare(`
SELECT &dbRecord.*
FROM   audit_log
WHERE  ($dbFilter.user_uuid = '' OR user_uuid = $dbFilter.user_uuid)
AND    ($dbFilter.action = '' OR action = $dbFilter.action)
AND    ($dbFilter.has_since = FALSE OR created_at >= $dbFilter.since)
ORDER  BY created_at DESC, uuid
LIMIT  $dbFilter.max_rows`, dbRecord{}, f)
	if err != nil {
		return nil, errors.Annotate(err, "preparing list audit records statement")
	}

	var rows []dbRecord
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, f).GetAll(&rows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotate(err, "listing audit records")
	}
	return transform.Slice(rows, dbRecord.toRecord), nil
}
