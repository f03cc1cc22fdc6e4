// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import (
	"github.com/juju/errors"
)

const (
	// NotFound describes an error that occurs when the submission being
	// requested does not exist.
	NotFound = errors.ConstError("submission not found")

	// NotDraft describes an error that occurs when an operation that
	// requires a draft is applied to a finalized submission.
	NotDraft = errors.ConstError("submission is not a draft")

	// NotFinalized describes an error that occurs when an operation that
	// requires a finalized submission is applied to a draft.
	NotFinalized = errors.ConstError("submission is not finalized")

	// PeriodClosed describes an error that occurs when a submission is
	// changed while its reporting period is closed.
	PeriodClosed = errors.ConstError("reporting period is closed")

	// ProgramNotFound describes an error that occurs when a submission
	// refers to a program that does not exist.
	ProgramNotFound = errors.ConstError("program not found")

	// PeriodNotFound describes an error that occurs when a submission
	// refers to a reporting period that does not exist.
	PeriodNotFound = errors.ConstError("reporting period not found")
)
