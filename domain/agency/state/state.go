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
	"github.com/agency-reporting/progreport/domain/agency"
	agencyerrors "github.com/agency-reporting/progreport/domain/agency/errors"
)

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

// CreateAgency inserts a new agency. If an agency with the same name
// already exists an error satisfying agencyerrors.AlreadyExists is
// returned.
func (st *State) CreateAgency(ctx context.Context, uuid string, args agency.CreateAgencyArgs, createdAt time.Time) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	row := dbAgency{
		UUID:         uuid,
		Name:         args.Name,
		Abbreviation: args.Abbreviation,
		CreatedAt:    createdAt.UTC(),
	}
	stmt, err := st.Prepare(`
INSERT INTO agency (uuid, name, abbreviation, created_at)
VALUES ($dbAgency.*)`, row)
	if err != nil {
		return errors.Annotate(err, "preparing insert agency statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return tx.Query(ctx, stmt, row).Run()
	})
	if errors.Is(domain.CoerceError(err), domain.ErrDuplicate) {
		return errors.Annotatef(agencyerrors.AlreadyExists, "%q", args.Name)
	} else if err != nil {
		return errors.Annotatef(err, "creating agency %q", args.Name)
	}
	return nil
}

// GetAgency returns the agency with the given UUID. If no such agency
// exists an error satisfying agencyerrors.NotFound is returned.
func (st *State) GetAgency(ctx context.Context, uuid string) (agency.Agency, error) {
	db, err := st.DB()
	if err != nil {
		return agency.Agency{}, errors.Trace(err)
	}

	id := agencyUUID{UUID: uuid}
	stmt, err := st.Prepare(`
SELECT &dbAgency.*
FROM   agency
WHERE  uuid = $agencyUUID.uuid`, dbAgency{}, id)
	if err != nil {
		return agency.Agency{}, errors.Annotate(err, "preparing select agency statement")
	}

	var row dbAgency
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return tx.Query(ctx, stmt, id).Get(&row)
	})
	if errors.Is(err, sqlair.ErrNoRows) {
		return agency.Agency{}, errors.Annotatef(agencyerrors.NotFound, "%q", uuid)
	} else if err != nil {
		return agency.Agency{}, errors.Annotatef(err, "getting agency %q", uuid)
	}
	return row.toAgency(), nil
}

// ListAgencies returns all agencies ordered by name.
func (st *State) ListAgencies(ctx context.Context) ([]agency.Agency, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	stmt, err := st.Prepare(`
SELECT &dbAgency.*
FROM   agency
ORDER  BY name`, dbAgency{})
	if err != nil {
		return nil, errors.Annotate(err, "preparing select agencies statement")
	}

	var rows []dbAgency
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt).GetAll(&rows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, errors.Annotate(err, "listing agencies")
	}
	return transform.Slice(rows, dbAgency.toAgency), nil
}

// UpdateAgency changes the name and abbreviation of an agency.
func (st *State) UpdateAgency(ctx context.Context, uuid, name, abbreviation string) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	row := dbAgency{UUID: uuid, Name: name, Abbreviation: abbreviation}
	stmt, err := st.Prepare(`
UPDATE agency
SET    name = $dbAgency.name,
       abbreviation = $dbAgency.abbreviation
WHERE  uuid = $dbAgency.uuid`, row)
	if err != nil {
		return errors.Annotate(err, "preparing update agency statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var outcome sqlair.Outcome
		if err := tx.Query(ctx, stmt, row).Get(&outcome); err != nil {
			return errors.Trace(err)
		}
		if affected, err := outcome.Result().RowsAffected(); err != nil {
			return errors.Trace(err)
		} else if affected != 1 {
			return errors.Annotatef(agencyerrors.NotFound, "%q", uuid)
		}
		return nil
	})
	if errors.Is(domain.CoerceError(err), domain.ErrDuplicate) {
		return errors.Annotatef(agencyerrors.AlreadyExists, "%q", name)
	}
	return errors.Annotatef(err, "updating agency %q", uuid)
}
