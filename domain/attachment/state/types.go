// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"time"

	"github.com/agency-reporting/progreport/domain/attachment"
	"github.com/agency-reporting/progreport/domain/period"
)

type dbAttachment struct {
	UUID           string    `db:"uuid"`
	SubmissionUUID string    `db:"submission_uuid"`
	FileName       string    `db:"file_name"`
	ContentType    string    `db:"content_type"`
	Size           int64     `db:"size"`
	SHA256         string    `db:"sha256"`
	ObjectKey      string    `db:"object_key"`
	UploadedBy     string    `db:"uploaded_by"`
	CreatedAt      time.Time `db:"created_at"`
}

func (a dbAttachment) toAttachment() attachment.Attachment {
	return attachment.Attachment{
		UUID:           a.UUID,
		SubmissionUUID: a.SubmissionUUID,
		FileName:       a.FileName,
		ContentType:    a.ContentType,
		Size:           a.Size,
		SHA256:         a.SHA256,
		ObjectKey:      a.ObjectKey,
		UploadedBy:     a.UploadedBy,
		CreatedAt:      a.CreatedAt,
	}
}

type dbOwner struct {
	AgencyUUID   string `db:"agency_uuid"`
	IsDraft      bool   `db:"is_draft"`
	PeriodStatus string `db:"period_status"`
}

func (o dbOwner) toOwner() attachment.SubmissionOwner {
	return attachment.SubmissionOwner{
		AgencyUUID:   o.AgencyUUID,
		IsDraft:      o.IsDraft,
		PeriodStatus: period.Status(o.PeriodStatus),
	}
}

type entityUUID struct {
	UUID string `db:"uuid"`
}
