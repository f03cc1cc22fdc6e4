// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package user

import (
	"time"

	coreuser "github.com/agency-reporting/progreport/core/user"
)

// User represents a user of the reporting system.
type User struct {
	UUID       string
	Name       string
	FullName   string
	Email      string
	Role       coreuser.Role
	AgencyUUID string
	Active     bool
	CreatedAt  time.Time
	// LastLogin is nil until the user first authenticates.
	LastLogin *time.Time
}

// Principal returns the principal the user acts as once authenticated.
func (u User) Principal() coreuser.Principal {
	return coreuser.Principal{
		UUID:       u.UUID,
		Name:       u.Name,
		Role:       u.Role,
		AgencyUUID: u.AgencyUUID,
	}
}

// AddUserArgs holds the details of a new user.
type AddUserArgs struct {
	Name       string
	FullName   string
	Email      string
	Role       coreuser.Role
	AgencyUUID string
	Password   string
}

// UpdateUserArgs holds the mutable details of an existing user.
type UpdateUserArgs struct {
	FullName   string
	Email      string
	Role       coreuser.Role
	AgencyUUID string
}
