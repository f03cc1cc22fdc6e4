// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"context"

	"github.com/canonical/sqlair"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/domain"
	"github.com/agency-reporting/progreport/domain/attachment"
	attachmenterrors "github.com/agency-reporting/progreport/domain/attachment/errors"
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

const selectOwner = `
SELECT p.agency_uuid AS &dbOwner.agency_uuid,
       s.is_draft AS &dbOwner.is_draft,
       rp.status AS &dbOwner.period_status
FROM   program_submission AS s
JOIN   program AS p ON p.uuid = s.program_uuid
JOIN   reporting_period AS rp ON rp.uuid = s.period_uuid
WHERE  s.uuid = $entityUUID.uuid`

func (st *State) getOwner(ctx context.Context, tx *sqlair.TX, submissionUUID string) (dbOwner, error) {
	stmt, err := st.Prepare(selectOwner, dbOwner{}, entityUUID{})
	if err != nil {
		return dbOwner{}, errors.Annotate(err, "preparing select owner statement")
	}
	var owner dbOwner
	err = tx.Query(ctx, stmt, entityUUID{UUID: submissionUUID}).Get(&owner)
	if errors.Is(err, sqlair.ErrNoRows) {
		return dbOwner{}, errors.Annotatef(attachmenterrors.SubmissionNotFound, "%q", submissionUUID)
	}
	return owner, errors.Trace(err)
}

// GetSubmissionOwner returns the owner and state of a submission.
func (st *State) GetSubmissionOwner(ctx context.Context, submissionUUID string) (attachment.SubmissionOwner, error) {
	db, err := st.DB()
	if err != nil {
		return attachment.SubmissionOwner{}, errors.Trace(err)
	}

	var owner dbOwner
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var err error
		owner, err = st.getOwner(ctx, tx, submissionUUID)
		return errors.Trace(err)
	})
	if err != nil {
		return attachment.SubmissionOwner{}, errors.Trace(err)
	}
	return owner.toOwner(), nil
}

// AddAttachment records an attachment of a draft submission. Finalized
// submissions are refused with attachmenterrors.SubmissionNotDraft.
func (st *State) AddAttachment(ctx context.Context, a attachment.Attachment) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	row := dbAttachment{
		UUID:           a.UUID,
		SubmissionUUID: a.SubmissionUUID,
		FileName:       a.FileName,
		ContentType:    a.ContentType,
		Size:           a.Size,
		SHA256:         a.SHA256,
		ObjectKey:      a.ObjectKey,
		UploadedBy:     a.UploadedBy,
		CreatedAt:      a.CreatedAt.UTC(),
	}
	stmt, err := st.Prepare(`
INSERT INTO attachment (uuid, submission_uuid, file_name, content_type, size, sha256, object_key, uploaded_by, created_at)
VALUES ($dbAttachment.*)`, row)
	if err != nil {
		return errors.Annotate(err, "preparing insert attachment statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		owner, err := st.getOwner(ctx, tx, a.SubmissionUUID)
		if err != nil {
			return errors.Trace(err)
		}
		if !owner.IsDraft {
			return errors.Trace(attachmenterrors.SubmissionNotDraft)
		}
		return errors.Trace(tx.Query(ctx, stmt, row).Run())
	})
	return errors.Annotatef(err, "adding attachment %q", a.FileName)
}

// GetAttachment returns the attachment with the given UUID and the owner
// of its submission.
func (st *State) GetAttachment(ctx context.Context, uuid string) (attachment.Attachment, attachment.SubmissionOwner, error) {
	db, err := st.DB()
	if err != nil {
		return attachment.Attachment{}, attachment.SubmissionOwner{}, errors.Trace(err)
	}

	id := entityUUID{UUID: uuid}
	stmt, err := st.Prepare(`
SELECT &dbAttachment.*
FROM   attachment
WHERE  uuid = $entityUUID.uuid`, dbAttachment{}, id)
	if err != nil {
		return attachment.Attachment{}, attachment.SubmissionOwner{}, errors.Annotate(err, "preparing select attachment statement")
	}

	var (
		row   dbAttachment
		owner dbOwner
	)
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		if err := tx.Query(ctx, stmt, id).Get(&row); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(attachmenterrors.NotFound, "%q", uuid)
		} else if err != nil {
			return errors.Trace(err)
		}
		var err error
		owner, err = st.getOwner(ctx, tx, row.SubmissionUUID)
		return errors.Trace(err)
	})
	if err != nil {
		return attachment.Attachment{}, attachment.SubmissionOwner{}, errors.Annotatef(err, "getting attachment %q", uuid)
	}
	return row.toAttachment(), owner.toOwner(), nil
}

// ListAttachments returns the attachments of a submission, oldest first.
func (st *State) ListAttachments(ctx context.Context, submissionUUID string) ([]attachment.Attachment, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	id := entityUUID{UUID: submissionUUID}
	stmt, err := st.Prepare(`
SELECT &dbAttachment.*
FROM   attachment
WHERE  submission_uuid = $entityUUID.uuid
ORDER  BY created_at, file_name`, dbAttachment{}, id)
	if err != nil {
		return nil, errors.Annotate(err, "preparing list attachments statement")
	}

	var rows []dbAttachment
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, id).GetAll(&rows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotatef(err, "listing attachments of submission %q", submissionUUID)
	}
	return transform.Slice(rows, dbAttachment.toAttachment), nil
}

// DeleteAttachment removes an attachment of a draft submission and returns
// the object key of its content.
func (st *State) DeleteAttachment(ctx context.Context, uuid string) (string, error) {
	db, err := st.DB()
	if err != nil {
		return "", errors.Trace(err)
	}

	id := entityUUID{UUID: uuid}
	selectStmt, err := st.Prepare(`
SELECT &dbAttachment.*
FROM   attachment
WHERE  uuid = $entityUUID.uuid`, dbAttachment{}, id)
	if err != nil {
		return "", errors.Annotate(err, "preparing select attachment statement")
	}
	deleteStmt, err := st.Prepare(`
DELETE FROM attachment
WHERE  uuid = $entityUUID.uuid`, id)
	if err != nil {
		return "", errors.Annotate(err, "preparing delete attachment statement")
	}

	var row dbAttachment
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		if err := tx.Query(ctx, selectStmt, id).Get(&row); errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(attachmenterrors.NotFound, "%q", uuid)
		} else if err != nil {
			return errors.Trace(err)
		}
		owner, err := st.getOwner(ctx, tx, row.SubmissionUUID)
		if err != nil {
			return errors.Trace(err)
		}
		if !owner.IsDraft {
			return errors.Trace(attachmenterrors.SubmissionNotDraft)
		}
		return errors.Trace(tx.Query(ctx, deleteStmt, id).Run())
	})
	if err != nil {
		return "", errors.Annotatef(err, "deleting attachment %q", uuid)
	}
	return row.ObjectKey, nil
}
