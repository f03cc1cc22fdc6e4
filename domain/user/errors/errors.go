// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import (
	"github.com/juju/errors"
)

const (
	// AlreadyExists describes an error that occurs when the user being
	// created already exists.
	AlreadyExists = errors.ConstError("user already exists")

	// NotFound describes an error that occurs when the user being requested
	// does not exist.
	NotFound = errors.ConstError("user not found")

	// Unauthorized describes an error that occurs when the supplied
	// credentials do not match an active user.
	Unauthorized = errors.ConstError("user not authorized")

	// UUIDNotValid describes an error that occurs when a supplied user
	// UUID is not valid.
	UUIDNotValid = errors.ConstError("user uuid not valid")

	// UsernameNotValid describes an error that occurs when a supplied
	// user name is not valid.
	UsernameNotValid = errors.ConstError("user name not valid")

	// PasswordNotValid describes an error that occurs when a supplied
	// password does not meet the password rules.
	PasswordNotValid = errors.ConstError("password not valid")

	// AgencyNotFound describes an error that occurs when a user refers to
	// an agency that does not exist.
	AgencyNotFound = errors.ConstError("agency not found")
)
