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
	"github.com/agency-reporting/progreport/domain/period"
	perioderrors "github.com/agency-reporting/progreport/domain/period/errors"
)

type dbPeriod struct {
	UUID      string    `db:"uuid"`
	Year      int       `db:"year"`
	Type      string    `db:"period_type"`
	Number    int       `db:"period_number"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func (p dbPeriod) toPeriod() period.Period {
	return period.Period{
		UUID:      p.UUID,
		Year:      p.Year,
		Type:      period.Type(p.Type),
		Number:    p.Number,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    period.Status(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

type dbStatus struct {
	UUID   string `db:"uuid"`
	Status string `db:"status"`
}

type periodUUID struct {
	UUID string `db:"uuid"`
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

// CreatePeriod inserts a reporting period.
func (st *State) CreatePeriod(ctx context.Context, uuid string, args period.CreatePeriodArgs, now time.Time) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	row := dbPeriod{
		UUID:      uuid,
		Year:      args.Year,
		Type:      string(args.Type),
		Number:    args.Number,
		StartDate: args.StartDate.UTC(),
		EndDate:   args.EndDate.UTC(),
		Status:    string(args.Status),
		CreatedAt: now.UTC(),
	}
	stmt, err := st.Prepare(`
INSERT INTO reporting_period (uuid, year, period_type, period_number, start_date, end_date, status, created_at)
VALUES ($dbPeriod.*)`, row)
	if err != nil {
		return errors.Annotate(err, "preparing insert period statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return tx.Query(ctx, stmt, row).Run()
	})
	label := period.Label(args.Year, args.Type, args.Number)
	if errors.Is(domain.CoerceError(err), domain.ErrDuplicate) {
		return errors.Annotatef(perioderrors.AlreadyExists, "%s", label)
	}
	return errors.Annotatef(err, "creating period %s", label)
}

// GetPeriod returns the period with the given UUID.
func (st *State) GetPeriod(ctx context.Context, uuid string) (period.Period, error) {
	db, err := st.DB()
	if err != nil {
		return period.Period{}, errors.Trace(err)
	}

	id := periodUUID{UUID: uuid}
	stmt, err := st.Prepare(`
SELECT &dbPeriod.*
FROM   reporting_period
WHERE  uuid = $periodUUID.uuid`, dbPeriod{}, id)
	if err != nil {
		return period.Period{}, errors.Annotate(err, "preparing select period statement")
	}

	var row dbPeriod
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, id).Get(&row)
		if errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(perioderrors.NotFound, "%q", uuid)
		}
		return errors.Trace(err)
	})
	if err != nil {
		return period.Period{}, errors.Annotatef(err, "getting period %q", uuid)
	}
	return row.toPeriod(), nil
}

// ListPeriods returns every period, latest first.
func (st *State) ListPeriods(ctx context.Context) ([]period.Period, error) {
	return st.listPeriods(ctx, `
SELECT &dbPeriod.*
FROM   reporting_period
ORDER  BY year DESC, start_date DESC, period_type`)
}

// ListOpenPeriods returns the open periods, latest first.
func (st *State) ListOpenPeriods(ctx context.Context) ([]period.Period, error) {
	return st.listPeriods(ctx, `
SELECT &dbPeriod.*
FROM   reporting_period
WHERE  status = 'open'
ORDER  BY year DESC, start_date DESC, period_type`)
}

func (st *State) listPeriods(ctx context.Context, query string) ([]period.Period, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	stmt, err := st.Prepare(query, dbPeriod{})
	if err != nil {
		return nil, errors.Annotate(err, "preparing list periods statement")
	}

	var rows []dbPeriod
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt).GetAll(&rows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotate(err, "listing periods")
	}
	return transform.Slice(rows, dbPeriod.toPeriod), nil
}

// SetStatus opens or closes a period. It reports whether the status
// changed.
func (st *State) SetStatus(ctx context.Context, uuid string, status period.Status) (bool, error) {
	db, err := st.DB()
	if err != nil {
		return false, errors.Trace(err)
	}

	row := dbStatus{UUID: uuid, Status: string(status)}
	existsStmt, err := st.Prepare(`
SELECT &periodUUID.uuid
FROM   reporting_period
WHERE  uuid = $periodUUID.uuid`, periodUUID{})
	if err != nil {
		return false, errors.Annotate(err, "preparing select period statement")
	}
	updateStmt, err := st.Prepare(`
UPDATE reporting_period
SET    status = $dbStatus.status
WHERE  uuid = $dbStatus.uuid
AND    status != $dbStatus.status`, row)
	if err != nil {
		return false, errors.Annotate(err, "preparing set period status statement")
	}

	var changed bool
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		id := periodUUID{UUID: uuid}
		if err := tx.Query(ctx, existsStmt, id).Get(&id); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(perioderrors.NotFound, "%q", uuid)
		} else if err != nil {
			return errors.Trace(err)
		}

		var outcome sqlair.Outcome
		if err := tx.Query(ctx, updateStmt, row).Get(&outcome); err != nil {
			return errors.Trace(err)
		}
		n, err := outcome.Result().RowsAffected()
		if err != nil {
			return errors.Trace(err)
		}
		changed = n == 1
		return nil
	})
	if err != nil {
		return false, errors.Annotatef(err, "setting period %q %s", uuid, status)
	}
	return changed, nil
}
