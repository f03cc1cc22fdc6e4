// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package attachment

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/agency-reporting/progreport/domain/period"
)

// Attachment is a file uploaded as supporting evidence for a submission.
// The content lives in the object store under ObjectKey.
type Attachment struct {
	UUID           string
	SubmissionUUID string
	FileName       string
	ContentType    string
	Size           int64
	SHA256         string
	ObjectKey      string
	// UploadedBy is the UUID of the uploading user.
	UploadedBy     string
	CreatedAt      time.Time
}

// HumanSize returns the size formatted for display, such as "1.5 MiB".
func (a Attachment) HumanSize() string {
	return humanize.IBytes(uint64(a.Size))
}

// SubmissionOwner describes the submission an attachment belongs to.
type SubmissionOwner struct {
	AgencyUUID   string
	IsDraft      bool
	PeriodStatus period.Status
}

// ObjectKey returns the object store key for the content of the
// attachment with the given UUID.
func ObjectKey(uuid string) string {
	return "attachments/" + uuid
}
