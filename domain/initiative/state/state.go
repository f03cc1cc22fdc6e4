// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/canonical/sqlair"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/domain"
	"github.com/agency-reporting/progreport/domain/initiative"
	initiativeerrors "github.com/agency-reporting/progreport/domain/initiative/errors"
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

const selectInitiativeColumns = `
SELECT i.* AS &dbInitiative.*,
       COUNT(p.uuid) AS &dbProgramCount.program_count
FROM   initiative AS i
LEFT   JOIN program AS p ON p.initiative_uuid = i.uuid`

// CreateInitiative inserts a new initiative.
func (st *State) CreateInitiative(ctx context.Context, uuid string, args initiative.InitiativeArgs, createdBy string, now time.Time) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	row := dbInitiative{
		UUID:        uuid,
		Name:        args.Name,
		Number:      args.Number,
		Description: args.Description,
		StartDate:   nullTime(args.StartDate),
		EndDate:     nullTime(args.EndDate),
		Active:      args.Active,
		CreatedBy:   createdBy,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	stmt, err := st.Prepare(`
INSERT INTO initiative (uuid, name, number, description, start_date, end_date, active, created_by, created_at, updated_at)
VALUES ($dbInitiative.*)`, row)
	if err != nil {
		return errors.Annotate(err, "preparing insert initiative statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return tx.Query(ctx, stmt, row).Run()
	})
	if errors.Is(domain.CoerceError(err), domain.ErrDuplicate) {
		return errors.Annotatef(initiativeerrors.AlreadyExists, "%q", args.Name)
	}
	return errors.Annotatef(err, "creating initiative %q", args.Name)
}

// GetInitiative returns the initiative with the given UUID along with the
// number of programs assigned to it.
func (st *State) GetInitiative(ctx context.Context, uuid string) (initiative.Initiative, error) {
	db, err := st.DB()
	if err != nil {
		return initiative.Initiative{}, errors.Trace(err)
	}

	id := initiativeUUID{UUID: uuid}
	stmt, err := st.Prepare(selectInitiativeColumns+`
WHERE  i.uuid = $initiativeUUID.uuid
GROUP  BY i.uuid`, dbInitiative{}, dbProgramCount{}, id)
	if err != nil {
		return initiative.Initiative{}, errors.Annotate(err, "preparing select initiative statement")
	}

	var (
		row   dbInitiative
		count dbProgramCount
	)
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, id).Get(&row, &count)
		if errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(initiativeerrors.NotFound, "%q", uuid)
		}
		return errors.Trace(err)
	})
	if err != nil {
		return initiative.Initiative{}, errors.Annotatef(err, "getting initiative %q", uuid)
	}
	return initiativeWithCount{dbInitiative: row, ProgramCount: count.Count}.toInitiative(), nil
}

// ListInitiatives returns the initiatives ordered by name. When activeOnly
// is set inactive initiatives are omitted.
func (st *State) ListInitiatives(ctx context.Context, activeOnly bool) ([]initiative.Initiative, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	var (
		stmt *sqlair.Statement
		args []any
	)
	if activeOnly {
		filter := activeFilter{Active: true}
		args = append(args, filter)
		stmt, err = st.Prepare(selectInitiativeColumns+`
WHERE  i.active = $activeFilter.active
GROUP  BY i.uuid
ORDER  BY i.name`, dbInitiative{}, dbProgramCount{}, filter)
	} else {
		stmt, err = st.Prepare(selectInitiativeColumns+`
GROUP  BY i.uuid
ORDER  BY i.name`, dbInitiative{}, dbProgramCount{})
	}
	if err != nil {
		return nil, errors.Annotate(err, "preparing list initiatives statement")
	}

	var (
		rows   []dbInitiative
		counts []dbProgramCount
	)
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, args...).GetAll(&rows, &counts)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotate(err, "listing initiatives")
	}

	result := make([]initiative.Initiative, len(rows))
	for i, row := range rows {
		result[i] = initiativeWithCount{dbInitiative: row, ProgramCount: counts[i].Count}.toInitiative()
	}
	return result, nil
}

// UpdateInitiative replaces the writable fields of an initiative.
func (st *State) UpdateInitiative(ctx context.Context, uuid string, args initiative.InitiativeArgs, now time.Time) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	row := dbInitiative{
		UUID:        uuid,
		Name:        args.Name,
		Number:      args.Number,
		Description: args.Description,
		StartDate:   nullTime(args.StartDate),
		EndDate:     nullTime(args.EndDate),
		Active:      args.Active,
		UpdatedAt:   now.UTC(),
	}
	stmt, err := st.Prepare(`
UPDATE initiative
SET    name = $dbInitiative.name,
       number = $dbInitiative.number,
       description = $dbInitiative.description,
       start_date = $dbInitiative.start_date,
       end_date = $dbInitiative.end_date,
       active = $dbInitiative.active,
       updated_at = $dbInitiative.updated_at
WHERE  uuid = $dbInitiative.uuid`, row)
	if err != nil {
		return errors.Annotate(err, "preparing update initiative statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var outcome sqlair.Outcome
		if err := tx.Query(ctx, stmt, row).Get(&outcome); err != nil {
			return errors.Trace(err)
		}
		if n, err := outcome.Result().RowsAffected(); err != nil {
			return errors.Trace(err)
		} else if n != 1 {
			return errors.Annotatef(initiativeerrors.NotFound, "%q", uuid)
		}
		return nil
	})
	if errors.Is(domain.CoerceError(err), domain.ErrDuplicate) {
		return errors.Annotatef(initiativeerrors.AlreadyExists, "%q", args.Name)
	}
	return errors.Annotatef(err, "updating initiative %q", uuid)
}

// DeleteInitiative removes an initiative. Programs assigned to it are
// detached, not deleted.
func (st *State) DeleteInitiative(ctx context.Context, uuid string, now time.Time) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	detach := dbProgramInitiative{
		InitiativeUUID: sql.NullString{String: uuid, Valid: true},
		UpdatedAt:      now.UTC(),
	}
	detachStmt, err := st.Prepare(`
UPDATE program
SET    initiative_uuid = NULL,
       updated_at = $dbProgramInitiative.updated_at
WHERE  initiative_uuid = $dbProgramInitiative.initiative_uuid`, detach)
	if err != nil {
		return errors.Annotate(err, "preparing detach programs statement")
	}

	id := initiativeUUID{UUID: uuid}
	deleteStmt, err := st.Prepare(`
DELETE FROM initiative
WHERE  uuid = $initiativeUUID.uuid`, id)
	if err != nil {
		return errors.Annotate(err, "preparing delete initiative statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		if err := tx.Query(ctx, detachStmt, detach).Run(); err != nil {
			return errors.Annotate(err, "detaching programs")
		}
		var outcome sqlair.Outcome
		if err := tx.Query(ctx, deleteStmt, id).Get(&outcome); err != nil {
			return errors.Trace(err)
		}
		if n, err := outcome.Result().RowsAffected(); err != nil {
			return errors.Trace(err)
		} else if n != 1 {
			return errors.Annotatef(initiativeerrors.NotFound, "%q", uuid)
		}
		return nil
	})
	return errors.Annotatef(err, "deleting initiative %q", uuid)
}

// AssignPrograms moves the programs into the initiative. Either every
// program is processed or, if any program does not exist, none is. The
// number of programs whose initiative changed is returned.
func (st *State) AssignPrograms(ctx context.Context, uuid string, programs []string, now time.Time) (int, error) {
	db, err := st.DB()
	if err != nil {
		return 0, errors.Trace(err)
	}

	stmt, err := st.Prepare(`
UPDATE program
SET    initiative_uuid = $dbProgramInitiative.initiative_uuid,
       updated_at = $dbProgramInitiative.updated_at
WHERE  uuid = $dbProgramInitiative.uuid
AND    (initiative_uuid IS NULL OR initiative_uuid != $dbProgramInitiative.initiative_uuid)`, dbProgramInitiative{})
	if err != nil {
		return 0, errors.Annotate(err, "preparing assign program statement")
	}

	var changed int
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		changed = 0
		if err := st.ensureInitiativeExists(ctx, tx, uuid); err != nil {
			return errors.Trace(err)
		}
		for _, program := range programs {
			if err := st.ensureProgramExists(ctx, tx, program); err != nil {
				return errors.Trace(err)
			}
			row := dbProgramInitiative{
				ProgramUUID:    program,
				InitiativeUUID: sql.NullString{String: uuid, Valid: true},
				UpdatedAt:      now.UTC(),
			}
			n, err := runCountingUpdate(ctx, tx, stmt, row)
			if err != nil {
				return errors.Annotatef(err, "assigning program %q", program)
			}
			changed += n
		}
		return nil
	})
	if err != nil {
		return 0, errors.Annotatef(err, "assigning programs to initiative %q", uuid)
	}
	return changed, nil
}

// UnassignPrograms detaches the programs from the initiative. Programs not
// currently in the initiative are left untouched. If any program does not
// exist nothing is changed.
func (st *State) UnassignPrograms(ctx context.Context, uuid string, programs []string, now time.Time) (int, error) {
	db, err := st.DB()
	if err != nil {
		return 0, errors.Trace(err)
	}

	stmt, err := st.Prepare(`
UPDATE program
SET    initiative_uuid = NULL,
       updated_at = $dbProgramInitiative.updated_at
WHERE  uuid = $dbProgramInitiative.uuid
AND    initiative_uuid = $dbProgramInitiative.initiative_uuid`, dbProgramInitiative{})
	if err != nil {
		return 0, errors.Annotate(err, "preparing unassign program statement")
	}

	var changed int
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		changed = 0
		if err := st.ensureInitiativeExists(ctx, tx, uuid); err != nil {
			return errors.Trace(err)
		}
		for _, program := range programs {
			if err := st.ensureProgramExists(ctx, tx, program); err != nil {
				return errors.Trace(err)
			}
			row := dbProgramInitiative{
				ProgramUUID:    program,
				InitiativeUUID: sql.NullString{String: uuid, Valid: true},
				UpdatedAt:      now.UTC(),
			}
			n, err := runCountingUpdate(ctx, tx, stmt, row)
			if err != nil {
				return errors.Annotatef(err, "unassigning program %q", program)
			}
			changed += n
		}
		return nil
	})
	if err != nil {
		return 0, errors.Annotatef(err, "unassigning programs from initiative %q", uuid)
	}
	return changed, nil
}

func (st *State) ensureInitiativeExists(ctx context.Context, tx *sqlair.TX, uuid string) error {
	id := initiativeUUID{UUID: uuid}
	stmt, err := st.Prepare(`
SELECT &initiativeUUID.uuid
FROM   initiative
WHERE  uuid = $initiativeUUID.uuid`, id)
	if err != nil {
		return errors.Trace(err)
	}
	err = tx.Query(ctx, stmt, id).Get(&id)
	if errors.Is(err, sqlair.ErrNoRows) {
		return errors.Annotatef(initiativeerrors.NotFound, "%q", uuid)
	}
	return errors.Trace(err)
}

func (st *State) ensureProgramExists(ctx context.Context, tx *sqlair.TX, uuid string) error {
	id := programUUID{UUID: uuid}
	stmt, err := st.Prepare(`
SELECT &programUUID.uuid
FROM   program
WHERE  uuid = $programUUID.uuid`, id)
	if err != nil {
		return errors.Trace(err)
	}
	err = tx.Query(ctx, stmt, id).Get(&id)
	if errors.Is(err, sqlair.ErrNoRows) {
		return errors.Annotatef(initiativeerrors.ProgramNotFound, "%q", uuid)
	}
	return errors.Trace(err)
}

func runCountingUpdate(ctx context.Context, tx *sqlair.TX, stmt *sqlair.Statement, arg any) (int, error) {
	var outcome sqlair.Outcome
	if err := tx.Query(ctx, stmt, arg).Get(&outcome); err != nil {
		return 0, errors.Trace(err)
	}
	n, err := outcome.Result().RowsAffected()
	if err != nil {
		return 0, errors.Trace(err)
	}
	return int(n), nil
}
