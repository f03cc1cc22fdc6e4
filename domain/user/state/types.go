// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"database/sql"
	"time"

	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain/user"
)

// dbUser represents a user row, excluding credentials.
type dbUser struct {
	UUID       string         `db:"uuid"`
	Name       string         `db:"name"`
	FullName   string         `db:"full_name"`
	Email      string         `db:"email"`
	Role       string         `db:"role"`
	AgencyUUID sql.NullString `db:"agency_uuid"`
	Active     bool           `db:"active"`
	CreatedAt  time.Time      `db:"created_at"`
	LastLogin  sql.NullTime   `db:"last_login"`
}

func (u dbUser) toUser() user.User {
	result := user.User{
		UUID:       u.UUID,
		Name:       u.Name,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       coreuser.Role(u.Role),
		AgencyUUID: u.AgencyUUID.String,
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
	}
	if u.LastLogin.Valid {
		t := u.LastLogin.Time
		result.LastLogin = &t
	}
	return result
}

// dbNewUser is the full row written when a user is added.
type dbNewUser struct {
	UUID         string         `db:"uuid"`
	Name         string         `db:"name"`
	FullName     string         `db:"full_name"`
	Email        string         `db:"email"`
	Role         string         `db:"role"`
	AgencyUUID   sql.NullString `db:"agency_uuid"`
	PasswordHash string         `db:"password_hash"`
	Active       bool           `db:"active"`
	CreatedAt    time.Time      `db:"created_at"`
}

type dbUserUpdate struct {
	UUID       string         `db:"uuid"`
	FullName   string         `db:"full_name"`
	Email      string         `db:"email"`
	Role       string         `db:"role"`
	AgencyUUID sql.NullString `db:"agency_uuid"`
}

type dbPasswordHash struct {
	UUID         string `db:"uuid"`
	PasswordHash string `db:"password_hash"`
}

type dbActive struct {
	UUID   string `db:"uuid"`
	Active bool   `db:"active"`
}

type dbLastLogin struct {
	UUID      string    `db:"uuid"`
	LastLogin time.Time `db:"last_login"`
}

type userUUID struct {
	UUID string `db:"uuid"`
}

type userName struct {
	Name string `db:"name"`
}

type agencyUUID struct {
	UUID string `db:"agency_uuid"`
}

type userRole struct {
	Role string `db:"role"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
