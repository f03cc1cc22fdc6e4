// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import "github.com/juju/errors"

const (
	// NotFound describes an error that occurs when the agency being
	// operated on does not exist.
	NotFound = errors.ConstError("agency not found")

	// AlreadyExists describes an error that occurs when an agency with the
	// same name already exists.
	AlreadyExists = errors.ConstError("agency already exists")
)
