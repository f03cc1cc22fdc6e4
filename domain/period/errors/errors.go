// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import (
	"github.com/juju/errors"
)

const (
	// NotFound describes an error that occurs when the period being
	// requested does not exist.
	NotFound = errors.ConstError("reporting period not found")

	// AlreadyExists describes an error that occurs when a period with the
	// same year, type and number already exists.
	AlreadyExists = errors.ConstError("reporting period already exists")

	// NoOpenPeriod describes an error that occurs when no period is open.
	NoOpenPeriod = errors.ConstError("no open reporting period")
)
