// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import (
	"github.com/juju/errors"
)

const (
	// NotFound describes an error that occurs when the program being
	// requested does not exist.
	NotFound = errors.ConstError("program not found")

	// AlreadyExists describes an error that occurs when an agency already
	// has a program with the same number.
	AlreadyExists = errors.ConstError("program already exists")

	// AgencyNotFound describes an error that occurs when a program refers
	// to an agency that does not exist.
	AgencyNotFound = errors.ConstError("agency not found")

	// InitiativeNotFound describes an error that occurs when a program
	// refers to an initiative that does not exist.
	InitiativeNotFound = errors.ConstError("initiative not found")

	// HasFinalizedSubmissions describes an error that occurs when deleting
	// a program that still has finalized submissions.
	HasFinalizedSubmissions = errors.ConstError("program has finalized submissions")
)
