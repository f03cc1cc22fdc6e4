// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import (
	"github.com/juju/errors"
)

const (
	// NotFound describes an error that occurs when the initiative being
	// requested does not exist.
	NotFound = errors.ConstError("initiative not found")

	// AlreadyExists describes an error that occurs when an initiative with
	// the same name already exists.
	AlreadyExists = errors.ConstError("initiative already exists")

	// ProgramNotFound describes an error that occurs when a bulk assignment
	// names a program that does not exist.
	ProgramNotFound = errors.ConstError("program not found")
)
