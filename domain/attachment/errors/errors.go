// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import (
	"github.com/juju/errors"
)

const (
	// NotFound describes an error that occurs when the attachment being
	// requested does not exist.
	NotFound = errors.ConstError("attachment not found")

	// SubmissionNotFound describes an error that occurs when attaching a
	// file to a submission that does not exist.
	SubmissionNotFound = errors.ConstError("submission not found")

	// SubmissionNotDraft describes an error that occurs when the
	// attachments of a finalized submission are changed.
	SubmissionNotDraft = errors.ConstError("submission is not a draft")

	// PeriodClosed describes an error that occurs when attachments are
	// changed while the reporting period is closed.
	PeriodClosed = errors.ConstError("reporting period is closed")

	// TooLarge describes an error that occurs when an upload exceeds the
	// maximum attachment size.
	TooLarge = errors.ConstError("attachment too large")
)
