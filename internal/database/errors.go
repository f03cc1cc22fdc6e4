// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

import (
	"github.com/juju/errors"
	"github.com/mattn/go-sqlite3"
)

// IsErrConstraintUnique returns true if the input error was returned by SQLite
// due to violation of a unique constraint.
func IsErrConstraintUnique(err error) bool {
	return hasExtendedCode(err, sqlite3.ErrConstraintUnique)
}

// IsErrConstraintPrimaryKey returns true if the input error was returned by
// SQLite due to violation of a primary key constraint.
func IsErrConstraintPrimaryKey(err error) bool {
	return hasExtendedCode(err, sqlite3.ErrConstraintPrimaryKey)
}

// IsErrConstraintForeignKey returns true if the input error was returned by
// SQLite due to violation of a foreign key constraint.
func IsErrConstraintForeignKey(err error) bool {
	return hasExtendedCode(err, sqlite3.ErrConstraintForeignKey)
}

// IsErrConstraintCheck returns true if the input error was returned by SQLite
// due to violation of a check constraint.
func IsErrConstraintCheck(err error) bool {
	return hasExtendedCode(err, sqlite3.ErrConstraintCheck)
}

func hasExtendedCode(err error, code sqlite3.ErrNoExtended) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == code
	}
	return false
}
