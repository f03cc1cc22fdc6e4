// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/canonical/sqlair"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/domain"
	"github.com/agency-reporting/progreport/domain/submission"
	submissionerrors "github.com/agency-reporting/progreport/domain/submission/errors"
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

const selectSubmission = `
SELECT s.* AS &dbSubmission.*,
       p.name AS &dbContext.program_name,
       p.agency_uuid AS &dbContext.agency_uuid,
       rp.year AS &dbContext.year,
       rp.period_type AS &dbContext.period_type,
       rp.period_number AS &dbContext.period_number,
       rp.status AS &dbContext.period_status
FROM   program_submission AS s
JOIN   program AS p ON p.uuid = s.program_uuid
JOIN   reporting_period AS rp ON rp.uuid = s.period_uuid`

// GetProgramPeriod returns the owner of the program and the status of the
// period a submission for the pair would be filed against.
func (st *State) GetProgramPeriod(ctx context.Context, programUUID, periodUUID string) (submission.ProgramPeriod, error) {
	db, err := st.DB()
	if err != nil {
		return submission.ProgramPeriod{}, errors.Trace(err)
	}

	programStmt, err := st.Prepare(`
SELECT name AS &dbContext.program_name,
       agency_uuid AS &dbContext.agency_uuid
FROM   program
WHERE  uuid = $dbProgramPeriod.program_uuid`, dbContext{}, dbProgramPeriod{})
	if err != nil {
		return submission.ProgramPeriod{}, errors.Annotate(err, "preparing select program statement")
	}
	periodStmt, err := st.Prepare(`
SELECT year AS &dbContext.year,
       period_type AS &dbContext.period_type,
       period_number AS &dbContext.period_number,
       status AS &dbContext.period_status
FROM   reporting_period
WHERE  uuid = $dbProgramPeriod.period_uuid`, dbContext{}, dbProgramPeriod{})
	if err != nil {
		return submission.ProgramPeriod{}, errors.Annotate(err, "preparing select period statement")
	}

	ids := dbProgramPeriod{ProgramUUID: programUUID, PeriodUUID: periodUUID}
	var result dbContext
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var prog, per dbContext
		if err := tx.Query(ctx, programStmt, ids).Get(&prog); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(submissionerrors.ProgramNotFound, "%q", programUUID)
		} else if err != nil {
			return errors.Trace(err)
		}
		if err := tx.Query(ctx, periodStmt, ids).Get(&per); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(submissionerrors.PeriodNotFound, "%q", periodUUID)
		} else if err != nil {
			return errors.Trace(err)
		}
		per.ProgramName = prog.ProgramName
		per.AgencyUUID = prog.AgencyUUID
		result = per
		return nil
	})
	if err != nil {
		return submission.ProgramPeriod{}, errors.Trace(err)
	}
	return result.toProgramPeriod(), nil
}

// SaveDraft creates or updates the draft submission for the program and
// period in args and replaces its targets. uuid is used when a new
// submission is created. The UUID of the saved submission is returned.
// A finalized submission is refused with submissionerrors.NotDraft.
func (st *State) SaveDraft(ctx context.Context, uuid string, args submission.SaveDraftArgs, updatedBy string, now time.Time) (string, error) {
	db, err := st.DB()
	if err != nil {
		return "", errors.Trace(err)
	}

	ids := dbProgramPeriod{ProgramUUID: args.ProgramUUID, PeriodUUID: args.PeriodUUID}
	existingStmt, err := st.Prepare(`
SELECT &dbDraftFlag.*
FROM   program_submission
WHERE  program_uuid = $dbProgramPeriod.program_uuid
AND    period_uuid = $dbProgramPeriod.period_uuid`, dbDraftFlag{}, ids)
	if err != nil {
		return "", errors.Annotate(err, "preparing select existing submission statement")
	}
	insertStmt, err := st.Prepare(`
INSERT INTO program_submission (uuid, program_uuid, period_uuid, is_draft, description, submitted_by, submitted_at, updated_by, created_at, updated_at)
VALUES ($dbSubmission.*)`, dbSubmission{})
	if err != nil {
		return "", errors.Annotate(err, "preparing insert submission statement")
	}
	updateStmt, err := st.Prepare(`
UPDATE program_submission
SET    description = $dbDraftUpdate.description,
       updated_by = $dbDraftUpdate.updated_by,
       updated_at = $dbDraftUpdate.updated_at
WHERE  uuid = $dbDraftUpdate.uuid
AND    is_draft = TRUE`, dbDraftUpdate{})
	if err != nil {
		return "", errors.Annotate(err, "preparing update draft statement")
	}

	var submissionUUID string
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var existing dbDraftFlag
		err := tx.Query(ctx, existingStmt, ids).Get(&existing)
		switch {
		case errors.Is(err, sqlair.ErrNoRows):
			if err := st.ensureProgramPeriod(ctx, tx, args.ProgramUUID, args.PeriodUUID); err != nil {
				return errors.Trace(err)
			}
			submissionUUID = uuid
			row := dbSubmission{
				UUID:        uuid,
				ProgramUUID: args.ProgramUUID,
				PeriodUUID:  args.PeriodUUID,
				IsDraft:     true,
				Description: args.Description,
				UpdatedBy:   updatedBy,
				CreatedAt:   now.UTC(),
				UpdatedAt:   now.UTC(),
			}
			if err := tx.Query(ctx, insertStmt, row).Run(); err != nil {
				return errors.Trace(err)
			}
		case err != nil:
			return errors.Trace(err)
		case !existing.IsDraft:
			return errors.Trace(submissionerrors.NotDraft)
		default:
			submissionUUID = existing.UUID
			row := dbDraftUpdate{
				UUID:        existing.UUID,
				Description: args.Description,
				UpdatedBy:   updatedBy,
				UpdatedAt:   now.UTC(),
			}
			n, err := runUpdate(ctx, tx, updateStmt, row)
			if err != nil {
				return errors.Trace(err)
			}
			if n != 1 {
				return errors.Trace(submissionerrors.NotDraft)
			}
		}
		return errors.Trace(st.replaceTargets(ctx, tx, submissionUUID, args.Targets))
	})
	if err != nil {
		return "", errors.Annotatef(err, "saving draft for program %q period %q", args.ProgramUUID, args.PeriodUUID)
	}
	return submissionUUID, nil
}

func (st *State) ensureProgramPeriod(ctx context.Context, tx *sqlair.TX, programUUID, periodUUID string) error {
	if err := st.ensureExists(ctx, tx, "program", programUUID); errors.Is(err, sqlair.ErrNoRows) {
		return errors.Annotatef(submissionerrors.ProgramNotFound, "%q", programUUID)
	} else if err != nil {
		return errors.Trace(err)
	}
	if err := st.ensureExists(ctx, tx, "reporting_period", periodUUID); errors.Is(err, sqlair.ErrNoRows) {
		return errors.Annotatef(submissionerrors.PeriodNotFound, "%q", periodUUID)
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

// replaceTargets deletes the targets of the submission and inserts the
// given ones in order.
func (st *State) replaceTargets(ctx context.Context, tx *sqlair.TX, submissionUUID string, targets []submission.Target) error {
	id := entityUUID{UUID: submissionUUID}
	deleteStmt, err := st.Prepare(`
DELETE FROM program_target
WHERE  submission_uuid = $entityUUID.uuid`, id)
	if err != nil {
		return errors.Annotate(err, "preparing delete targets statement")
	}
	insertStmt, err := st.Prepare(`
INSERT INTO program_target (uuid, submission_uuid, position, target_number, description, status_indicator, status_description, remarks, start_date, end_date)
VALUES ($dbTarget.*)`, dbTarget{})
	if err != nil {
		return errors.Annotate(err, "preparing insert target statement")
	}

	if err := tx.Query(ctx, deleteStmt, id).Run(); err != nil {
		return errors.Annotate(err, "deleting targets")
	}
	for i, t := range targets {
		if err := tx.Query(ctx, insertStmt, fromTarget(submissionUUID, i, t)).Run(); err != nil {
			return errors.Annotatef(err, "inserting target %d", i+1)
		}
	}
	return nil
}

// GetSubmission returns the submission with the given UUID and its
// targets.
func (st *State) GetSubmission(ctx context.Context, uuid string) (submission.Submission, error) {
	id := entityUUID{UUID: uuid}
	stmt, err := st.Prepare(selectSubmission+`
WHERE  s.uuid = $entityUUID.uuid`, dbSubmission{}, dbContext{}, id)
	if err != nil {
		return submission.Submission{}, errors.Annotate(err, "preparing select submission statement")
	}
	result, err := st.getSubmission(ctx, stmt, id)
	return result, errors.Annotatef(err, "getting submission %q", uuid)
}

// GetSubmissionFor returns the submission filed for the program and
// period together with its targets.
func (st *State) GetSubmissionFor(ctx context.Context, programUUID, periodUUID string) (submission.Submission, error) {
	ids := dbProgramPeriod{ProgramUUID: programUUID, PeriodUUID: periodUUID}
	stmt, err := st.Prepare(selectSubmission+`
WHERE  s.program_uuid = $dbProgramPeriod.program_uuid
AND    s.period_uuid = $dbProgramPeriod.period_uuid`, dbSubmission{}, dbContext{}, ids)
	if err != nil {
		return submission.Submission{}, errors.Annotate(err, "preparing select submission statement")
	}
	result, err := st.getSubmission(ctx, stmt, ids)
	return result, errors.Annotatef(err, "getting submission for program %q period %q", programUUID, periodUUID)
}

func (st *State) getSubmission(ctx context.Context, stmt *sqlair.Statement, arg any) (submission.Submission, error) {
	db, err := st.DB()
	if err != nil {
		return submission.Submission{}, errors.Trace(err)
	}

	targetsStmt, err := st.Prepare(`
SELECT &dbTarget.*
FROM   program_target
WHERE  submission_uuid = $entityUUID.uuid
ORDER  BY position`, dbTarget{}, entityUUID{})
	if err != nil {
		return submission.Submission{}, errors.Annotate(err, "preparing select targets statement")
	}

	var (
		row     dbSubmission
		ctxRow  dbContext
		targets []dbTarget
	)
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		targets = nil
		err := tx.Query(ctx, stmt, arg).Get(&row, &ctxRow)
		if errors.Is(err, sqlair.ErrNoRows) {
			return errors.Trace(submissionerrors.NotFound)
		} else if err != nil {
			return errors.Trace(err)
		}
		err = tx.Query(ctx, targetsStmt, entityUUID{UUID: row.UUID}).GetAll(&targets)
		if err != nil && !errors.Is(err, sqlair.ErrNoRows) {
			return errors.Trace(err)
		}
		return nil
	})
	if err != nil {
		return submission.Submission{}, errors.Trace(err)
	}

	result := toSubmission(row, ctxRow)
	result.Targets = transform.Slice(targets, dbTarget.toTarget)
	return result, nil
}

// ListSubmissions returns the submissions matching the filter, without
// their targets, ordered by period then program name.
func (st *State) ListSubmissions(ctx context.Context, filter submission.Filter) ([]submission.Submission, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	f := dbFilter{
		PeriodUUID:  filter.PeriodUUID,
		AgencyUUID:  filter.AgencyUUID,
		ProgramUUID: filter.ProgramUUID,
		Status:      string(filter.Status),
	}
	stmt, err := st.Prepare(selectSubmission+`
WHERE  ($dbFilter.period_uuid = '' OR s.period_uuid = $dbFilter.period_uuid)
AND    ($dbFilter.agency_uuid = '' OR p.agency_uuid = $dbFilter.agency_uuid)
AND    ($dbFilter.program_uuid = '' OR s.program_uuid = $dbFilter.program_uuid)
AND    ($dbFilter.status = ''
        OR ($dbFilter.status = 'draft' AND s.is_draft = TRUE)
        OR ($dbFilter.status = 'finalized' AND s.is_draft = FALSE))
ORDER  BY rp.year DESC, rp.start_date DESC, p.name`, dbSubmission{}, dbContext{}, f)
	if err != nil {
		return nil, errors.Annotate(err, "preparing list submissions statement")
	}

	var (
		rows    []dbSubmission
		ctxRows []dbContext
	)
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, f).GetAll(&rows, &ctxRows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotate(err, "listing submissions")
	}

	result := make([]submission.Submission, len(rows))
	for i := range rows {
		result[i] = toSubmission(rows[i], ctxRows[i])
	}
	return result, nil
}

// Finalize marks a draft submission as submitted. A submission that is
// no longer a draft is refused with submissionerrors.NotDraft.
func (st *State) Finalize(ctx context.Context, uuid, submittedBy string, now time.Time) error {
	row := dbTransition{
		UUID:        uuid,
		SubmittedBy: sql.NullString{String: submittedBy, Valid: true},
		SubmittedAt: sql.NullTime{Time: now.UTC(), Valid: true},
		UpdatedBy:   submittedBy,
		UpdatedAt:   now.UTC(),
	}
	err := st.transition(ctx, uuid, true, row, submissionerrors.NotDraft)
	return errors.Annotatef(err, "finalizing submission %q", uuid)
}

// ReturnToDraft turns a finalized submission back into a draft and clears
// its submission details. A draft is refused with
// submissionerrors.NotFinalized.
func (st *State) ReturnToDraft(ctx context.Context, uuid, updatedBy string, now time.Time) error {
	row := dbTransition{
		UUID:      uuid,
		UpdatedBy: updatedBy,
		UpdatedAt: now.UTC(),
	}
	err := st.transition(ctx, uuid, false, row, submissionerrors.NotFinalized)
	return errors.Annotatef(err, "returning submission %q to draft", uuid)
}

// transition flips is_draft on the submission, but only when it currently
// equals fromDraft. Otherwise wrongState is returned.
func (st *State) transition(ctx context.Context, uuid string, fromDraft bool, row dbTransition, wrongState error) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	flagStmt, err := st.Prepare(`
SELECT &dbDraftFlag.*
FROM   program_submission
WHERE  uuid = $entityUUID.uuid`, dbDraftFlag{}, entityUUID{})
	if err != nil {
		return errors.Annotate(err, "preparing select submission statement")
	}
	updateStmt, err := st.Prepare(`
UPDATE program_submission
SET    is_draft = $dbDraftFlag.is_draft,
       submitted_by = $dbTransition.submitted_by,
       submitted_at = $dbTransition.submitted_at,
       updated_by = $dbTransition.updated_by,
       updated_at = $dbTransition.updated_at
WHERE  uuid = $dbTransition.uuid
AND    is_draft != $dbDraftFlag.is_draft`, dbDraftFlag{}, row)
	if err != nil {
		return errors.Annotate(err, "preparing update submission statement")
	}

	return db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var current dbDraftFlag
		if err := tx.Query(ctx, flagStmt, entityUUID{UUID: uuid}).Get(&current); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Trace(submissionerrors.NotFound)
		} else if err != nil {
			return errors.Trace(err)
		}
		if current.IsDraft != fromDraft {
			return errors.Trace(wrongState)
		}

		n, err := runUpdate(ctx, tx, updateStmt, dbDraftFlag{UUID: uuid, IsDraft: !fromDraft}, row)
		if err != nil {
			return errors.Trace(err)
		}
		if n != 1 {
			return errors.Trace(wrongState)
		}
		return nil
	})
}

// DeleteSubmission removes a draft submission with its targets and
// attachments, returning the object store keys of the attachments.
// Finalized submissions are refused with submissionerrors.NotDraft.
func (st *State) DeleteSubmission(ctx context.Context, uuid string) ([]string, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	id := entityUUID{UUID: uuid}
	flagStmt, err := st.Prepare(`
SELECT &dbDraftFlag.*
FROM   program_submission
WHERE  uuid = $entityUUID.uuid`, dbDraftFlag{}, id)
	if err != nil {
		return nil, errors.Annotate(err, "preparing select submission statement")
	}
	keysStmt, err := st.Prepare(`
SELECT &dbObjectKey.object_key
FROM   attachment
WHERE  submission_uuid = $entityUUID.uuid`, dbObjectKey{}, id)
	if err != nil {
		return nil, errors.Annotate(err, "preparing attachment keys statement")
	}
	deleteStmt, err := st.Prepare(`
DELETE FROM program_submission
WHERE  uuid = $entityUUID.uuid
AND    is_draft = TRUE`, id)
	if err != nil {
		return nil, errors.Annotate(err, "preparing delete submission statement")
	}

	var keys []dbObjectKey
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		keys = nil
		var current dbDraftFlag
		if err := tx.Query(ctx, flagStmt, id).Get(&current); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Trace(submissionerrors.NotFound)
		} else if err != nil {
			return errors.Trace(err)
		}
		if !current.IsDraft {
			return errors.Trace(submissionerrors.NotDraft)
		}
		if err := tx.Query(ctx, keysStmt, id).GetAll(&keys); err != nil && !errors.Is(err, sqlair.ErrNoRows) {
			return errors.Trace(err)
		}
		return errors.Trace(tx.Query(ctx, deleteStmt, id).Run())
	})
	if err != nil {
		return nil, errors.Annotatef(err, "deleting submission %q", uuid)
	}
	return transform.Slice(keys, func(k dbObjectKey) string { return k.ObjectKey }), nil
}

// ListLegacyContent returns the submissions that still hold legacy
// content_json.
func (st *State) ListLegacyContent(ctx context.Context) ([]submission.LegacyContent, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	stmt, err := st.Prepare(`
SELECT s.uuid AS &dbLegacyContent.uuid,
       s.description AS &dbLegacyContent.description,
       s.content_json AS &dbLegacyContent.content_json,
       COUNT(t.uuid) AS &dbLegacyContent.target_count
FROM   program_submission AS s
LEFT   JOIN program_target AS t ON t.submission_uuid = s.uuid
WHERE  s.content_json IS NOT NULL
AND    s.content_json != ''
GROUP  BY s.uuid
ORDER  BY s.created_at`, dbLegacyContent{})
	if err != nil {
		return nil, errors.Annotate(err, "preparing list legacy content statement")
	}

	var rows []dbLegacyContent
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt).GetAll(&rows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotate(err, "listing legacy content")
	}
	return transform.Slice(rows, func(r dbLegacyContent) submission.LegacyContent {
		return submission.LegacyContent{
			SubmissionUUID: r.UUID,
			Description:    r.Description,
			ContentJSON:    r.ContentJSON,
			HasTargets:     r.TargetCount > 0,
		}
	}), nil
}

// ImportLegacyContent stores targets parsed from a submission's legacy
// content and clears the content. The description is only set when the
// submission has none. Nothing is written when the submission already has
// targets.
func (st *State) ImportLegacyContent(ctx context.Context, uuid, description string, targets []submission.Target) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	id := entityUUID{UUID: uuid}
	countStmt, err := st.Prepare(`
SELECT COUNT(*) AS &dbLegacyContent.target_count
FROM   program_target
WHERE  submission_uuid = $entityUUID.uuid`, dbLegacyContent{}, id)
	if err != nil {
		return errors.Annotate(err, "preparing count targets statement")
	}
	updateStmt, err := st.Prepare(`
UPDATE program_submission
SET    description = CASE WHEN description = '' THEN $dbLegacyContent.description ELSE description END,
       content_json = NULL
WHERE  uuid = $dbLegacyContent.uuid`, dbLegacyContent{})
	if err != nil {
		return errors.Annotate(err, "preparing clear legacy content statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var count dbLegacyContent
		if err := tx.Query(ctx, countStmt, id).Get(&count); err != nil {
			return errors.Trace(err)
		}
		if count.TargetCount > 0 {
			return nil
		}
		if err := st.replaceTargets(ctx, tx, uuid, targets); err != nil {
			return errors.Trace(err)
		}
		n, err := runUpdate(ctx, tx, updateStmt, dbLegacyContent{UUID: uuid, Description: description})
		if err != nil {
			return errors.Trace(err)
		}
		if n != 1 {
			return errors.Trace(submissionerrors.NotFound)
		}
		return nil
	})
	return errors.Annotatef(err, "importing legacy content of submission %q", uuid)
}

// DiscardLegacyContent clears the legacy content of a submission.
func (st *State) DiscardLegacyContent(ctx context.Context, uuid string) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	id := entityUUID{UUID: uuid}
	stmt, err := st.Prepare(`
UPDATE program_submission
SET    content_json = NULL
WHERE  uuid = $entityUUID.uuid`, id)
	if err != nil {
		return errors.Annotate(err, "preparing clear legacy content statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		n, err := runUpdate(ctx, tx, stmt, id)
		if err != nil {
			return errors.Trace(err)
		}
		if n != 1 {
			return errors.Trace(submissionerrors.NotFound)
		}
		return nil
	})
	return errors.Annotatef(err, "discarding legacy content of submission %q", uuid)
}

func runUpdate(ctx context.Context, tx *sqlair.TX, stmt *sqlair.Statement, args ...any) (int64, error) {
	var outcome sqlair.Outcome
	if err := tx.Query(ctx, stmt, args...).Get(&outcome); err != nil {
		return 0, errors.Trace(err)
	}
	n, err := outcome.Result().RowsAffected()
	return n, errors.Trace(err)
}
