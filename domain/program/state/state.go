// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"context"
	"strconv"
	"time"

	"github.com/canonical/sqlair"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/domain"
	"github.com/agency-reporting/progreport/domain/program"
	programerrors "github.com/agency-reporting/progreport/domain/program/errors"
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

const selectProgram = `
SELECT p.* AS &dbProgram.*,
       a.name AS &dbProgramNames.agency_name,
       i.name AS &dbProgramNames.initiative_name
FROM   program AS p
JOIN   agency AS a ON a.uuid = p.agency_uuid
LEFT   JOIN initiative AS i ON i.uuid = p.initiative_uuid`

// CreateProgram inserts a new program. When no number is supplied the next
// free number in the agency's sequence is used. The number the program was
// stored with is returned.
func (st *State) CreateProgram(ctx context.Context, uuid string, args program.ProgramArgs, createdBy string, now time.Time) (string, error) {
	db, err := st.DB()
	if err != nil {
		return "", errors.Trace(err)
	}

	row := dbProgram{
		UUID:           uuid,
		Name:           args.Name,
		Number:         args.Number,
		Description:    args.Description,
		AgencyUUID:     args.AgencyUUID,
		InitiativeUUID: nullString(args.InitiativeUUID),
		StartDate:      nullTime(args.StartDate),
		EndDate:        nullTime(args.EndDate),
		CreatedBy:      createdBy,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
	stmt, err := st.Prepare(`
INSERT INTO program (uuid, name, number, description, agency_uuid, initiative_uuid, start_date, end_date, created_by, created_at, updated_at)
VALUES ($dbProgram.*)`, row)
	if err != nil {
		return "", errors.Annotate(err, "preparing insert program statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		if err := st.ensureReferences(ctx, tx, args.AgencyUUID, args.InitiativeUUID); err != nil {
			return errors.Trace(err)
		}
		if row.Number == "" {
			number, err := st.nextProgramNumber(ctx, tx, args.AgencyUUID)
			if err != nil {
				return errors.Trace(err)
			}
			row.Number = number
		}
		return errors.Trace(tx.Query(ctx, stmt, row).Run())
	})
	if errors.Is(domain.CoerceError(err), domain.ErrDuplicate) {
		return "", errors.Annotatef(programerrors.AlreadyExists, "number %q", row.Number)
	} else if err != nil {
		return "", errors.Annotatef(err, "creating program %q", args.Name)
	}
	return row.Number, nil
}

// nextProgramNumber draws from the agency's program sequence, skipping
// numbers already taken by explicitly numbered programs.
func (st *State) nextProgramNumber(ctx context.Context, tx *sqlair.TX, agencyUUID string) (string, error) {
	stmt, err := st.Prepare(`
SELECT COUNT(*) AS &dbCount.count
FROM   program
WHERE  agency_uuid = $dbProgramNumber.agency_uuid
AND    number = $dbProgramNumber.number`, dbCount{}, dbProgramNumber{})
	if err != nil {
		return "", errors.Trace(err)
	}

	for {
		next, err := domain.NextSequenceValue(ctx, st, tx, "program_number:"+agencyUUID)
		if err != nil {
			return "", errors.Trace(err)
		}
		candidate := dbProgramNumber{AgencyUUID: agencyUUID, Number: strconv.FormatUint(next, 10)}
		var count dbCount
		if err := tx.Query(ctx, stmt, candidate).Get(&count); err != nil {
			return "", errors.Trace(err)
		}
		if count.Count == 0 {
			return candidate.Number, nil
		}
	}
}

func (st *State) ensureReferences(ctx context.Context, tx *sqlair.TX, agencyUUID, initiativeUUID string) error {
	if err := st.ensureExists(ctx, tx, "agency", agencyUUID); errors.Is(err, sqlair.ErrNoRows) {
		return errors.Annotatef(programerrors.AgencyNotFound, "%q", agencyUUID)
	} else if err != nil {
		return errors.Trace(err)
	}
	if initiativeUUID == "" {
		return nil
	}
	if err := st.ensureExists(ctx, tx, "initiative", initiativeUUID); errors.Is(err, sqlair.ErrNoRows) {
		return errors.Annotatef(programerrors.InitiativeNotFound, "%q", initiativeUUID)
	} else if err != nil {
		return errors.Trace(err)
	}
	return nil
}

// ensureExists returns sqlair.ErrNoRows when the table has no row with the
// uuid. The table name is never user supplied.
func (st *State) ensureExists(ctx context.Context, tx *sqlair.TX, table, uuid string) error {
	id := entityUUID{UUID: uuid}
	stmt, err := st.Prepare(`
SELECT &entityUUID.uuid
FROM   `+table+`
WHERE  uuid = $entityUUID.uuid`, id)
	if err != nil {
		return errors.Trace(err)
	}
	return tx.Query(ctx, stmt, id).Get(&id)
}

// GetProgram returns the program with the given UUID.
func (st *State) GetProgram(ctx context.Context, uuid string) (program.Program, error) {
	db, err := st.DB()
	if err != nil {
		return program.Program{}, errors.Trace(err)
	}

	id := entityUUID{UUID: uuid}
	stmt, err := st.Prepare(selectProgram+`
WHERE  p.uuid = $entityUUID.uuid`, dbProgram{}, dbProgramNames{}, id)
	if err != nil {
		return program.Program{}, errors.Annotate(err, "preparing select program statement")
	}

	var (
		row   dbProgram
		names dbProgramNames
	)
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, id).Get(&row, &names)
		if errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(programerrors.NotFound, "%q", uuid)
		}
		return errors.Trace(err)
	})
	if err != nil {
		return program.Program{}, errors.Annotatef(err, "getting program %q", uuid)
	}
	return toProgram(row, names), nil
}

// ListPrograms returns the programs matching the filter ordered by agency
// name and program number.
func (st *State) ListPrograms(ctx context.Context, filter program.Filter) ([]program.Program, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	f := dbProgramFilter{AgencyUUID: filter.AgencyUUID, InitiativeUUID: filter.InitiativeUUID}
	stmt, err := st.Prepare(selectProgram+`
WHERE  ($dbProgramFilter.agency_uuid = '' OR p.agency_uuid = $dbProgramFilter.agency_uuid)
AND    ($dbProgramFilter.initiative_uuid = '' OR p.initiative_uuid = $dbProgramFilter.initiative_uuid)
ORDER  BY a.name, p.number`, dbProgram{}, dbProgramNames{}, f)
	if err != nil {
		return nil, errors.Annotate(err, "preparing list programs statement")
	}

	var (
		rows  []dbProgram
		names []dbProgramNames
	)
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, f).GetAll(&rows, &names)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotate(err, "listing programs")
	}

	result := make([]program.Program, len(rows))
	for i := range rows {
		result[i] = toProgram(rows[i], names[i])
	}
	return result, nil
}

// UpdateProgram replaces the writable fields of a program. The owning
// agency is not changed.
func (st *State) UpdateProgram(ctx context.Context, uuid string, args program.ProgramArgs, now time.Time) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	row := dbProgram{
		UUID:           uuid,
		Name:           args.Name,
		Number:         args.Number,
		Description:    args.Description,
		InitiativeUUID: nullString(args.InitiativeUUID),
		StartDate:      nullTime(args.StartDate),
		EndDate:        nullTime(args.EndDate),
		UpdatedAt:      now.UTC(),
	}
	stmt, err := st.Prepare(`
UPDATE program
SET    name = $dbProgram.name,
       number = $dbProgram.number,
       description = $dbProgram.description,
       initiative_uuid = $dbProgram.initiative_uuid,
       start_date = $dbProgram.start_date,
       end_date = $dbProgram.end_date,
       updated_at = $dbProgram.updated_at
WHERE  uuid = $dbProgram.uuid`, row)
	if err != nil {
		return errors.Annotate(err, "preparing update program statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		if args.InitiativeUUID != "" {
			if err := st.ensureExists(ctx, tx, "initiative", args.InitiativeUUID); errors.Is(err, sqlair.ErrNoRows) {
				return errors.Annotatef(programerrors.InitiativeNotFound, "%q", args.InitiativeUUID)
			} else if err != nil {
				return errors.Trace(err)
			}
		}
		return errors.Trace(runSingleRowUpdate(ctx, tx, stmt, row, uuid))
	})
	if errors.Is(domain.CoerceError(err), domain.ErrDuplicate) {
		return errors.Annotatef(programerrors.AlreadyExists, "number %q", args.Number)
	}
	return errors.Annotatef(err, "updating program %q", uuid)
}

// DeleteProgram removes a program together with its draft submissions,
// their targets and attachments. Programs with finalized submissions are
// refused with programerrors.HasFinalizedSubmissions. The object store keys
// of the removed attachments are returned so their content can be removed.
func (st *State) DeleteProgram(ctx context.Context, uuid string) ([]string, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	id := entityUUID{UUID: uuid}
	finalizedStmt, err := st.Prepare(`
SELECT COUNT(*) AS &dbCount.count
FROM   program_submission
WHERE  program_uuid = $entityUUID.uuid
AND    is_draft = FALSE`, dbCount{}, id)
	if err != nil {
		return nil, errors.Annotate(err, "preparing finalized submissions statement")
	}
	keysStmt, err := st.Prepare(`
SELECT a.object_key AS &dbObjectKey.object_key
FROM   attachment AS a
JOIN   program_submission AS s ON s.uuid = a.submission_uuid
WHERE  s.program_uuid = $entityUUID.uuid`, dbObjectKey{}, id)
	if err != nil {
		return nil, errors.Annotate(err, "preparing attachment keys statement")
	}
	deleteStmt, err := st.Prepare(`
DELETE FROM program
WHERE  uuid = $entityUUID.uuid`, id)
	if err != nil {
		return nil, errors.Annotate(err, "preparing delete program statement")
	}

	var keys []dbObjectKey
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		keys = nil
		if err := st.ensureExists(ctx, tx, "program", uuid); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(programerrors.NotFound, "%q", uuid)
		} else if err != nil {
			return errors.Trace(err)
		}

		var finalized dbCount
		if err := tx.Query(ctx, finalizedStmt, id).Get(&finalized); err != nil {
			return errors.Trace(err)
		}
		if finalized.Count > 0 {
			return errors.Annotatef(programerrors.HasFinalizedSubmissions, "%d finalized", finalized.Count)
		}

		if err := tx.Query(ctx, keysStmt, id).GetAll(&keys); err != nil && !errors.Is(err, sqlair.ErrNoRows) {
			return errors.Trace(err)
		}
		return errors.Trace(tx.Query(ctx, deleteStmt, id).Run())
	})
	if err != nil {
		return nil, errors.Annotatef(err, "deleting program %q", uuid)
	}

	result := make([]string, len(keys))
	for i, k := range keys {
		result[i] = k.ObjectKey
	}
	return result, nil
}

// ReassignProgram moves a program to another agency and returns the UUID
// of the previous owner. A program whose number is already used in the
// target agency is given the next number of that agency's sequence.
func (st *State) ReassignProgram(ctx context.Context, uuid, agencyUUID string, now time.Time) (string, error) {
	db, err := st.DB()
	if err != nil {
		return "", errors.Trace(err)
	}

	id := entityUUID{UUID: uuid}
	ownerStmt, err := st.Prepare(`
SELECT &dbProgramOwner.*
FROM   program
WHERE  uuid = $entityUUID.uuid`, dbProgramOwner{}, id)
	if err != nil {
		return "", errors.Annotate(err, "preparing select owner statement")
	}
	clashStmt, err := st.Prepare(`
SELECT COUNT(*) AS &dbCount.count
FROM   program
WHERE  agency_uuid = $dbProgramOwner.agency_uuid
AND    number = $dbProgramOwner.number
AND    uuid != $dbProgramOwner.uuid`, dbCount{}, dbProgramOwner{})
	if err != nil {
		return "", errors.Annotate(err, "preparing number clash statement")
	}
	updateStmt, err := st.Prepare(`
UPDATE program
SET    agency_uuid = $dbProgramOwner.agency_uuid,
       number = $dbProgramOwner.number,
       updated_at = $dbProgramOwner.updated_at
WHERE  uuid = $dbProgramOwner.uuid`, dbProgramOwner{})
	if err != nil {
		return "", errors.Annotate(err, "preparing reassign program statement")
	}

	var previous dbProgramOwner
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		if err := tx.Query(ctx, ownerStmt, id).Get(&previous); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(programerrors.NotFound, "%q", uuid)
		} else if err != nil {
			return errors.Trace(err)
		}
		if err := st.ensureExists(ctx, tx, "agency", agencyUUID); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(programerrors.AgencyNotFound, "%q", agencyUUID)
		} else if err != nil {
			return errors.Trace(err)
		}

		row := dbProgramOwner{
			UUID:       uuid,
			AgencyUUID: agencyUUID,
			Number:     previous.Number,
			UpdatedAt:  now.UTC(),
		}
		var clash dbCount
		if err := tx.Query(ctx, clashStmt, row).Get(&clash); err != nil {
			return errors.Trace(err)
		}
		if clash.Count > 0 {
			number, err := st.nextProgramNumber(ctx, tx, agencyUUID)
			if err != nil {
				return errors.Trace(err)
			}
			row.Number = number
		}
		return errors.Trace(runSingleRowUpdate(ctx, tx, updateStmt, row, uuid))
	})
	if err != nil {
		return "", errors.Annotatef(err, "reassigning program %q", uuid)
	}
	return previous.AgencyUUID, nil
}

func runSingleRowUpdate(ctx context.Context, tx *sqlair.TX, stmt *sqlair.Statement, arg any, uuid string) error {
	var outcome sqlair.Outcome
	if err := tx.Query(ctx, stmt, arg).Get(&outcome); err != nil {
		return errors.Trace(err)
	}
	n, err := outcome.Result().RowsAffected()
	if err != nil {
		return errors.Trace(err)
	}
	if n != 1 {
		return errors.Annotatef(programerrors.NotFound, "%q", uuid)
	}
	return nil
}
