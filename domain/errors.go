// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package domain

import (
	"database/sql"
	"fmt"

	"github.com/canonical/sqlair"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/internal/database"
)

const (
	// ErrDuplicate is returned when an insert or update violates a unique
	// or primary key constraint.
	ErrDuplicate = errors.ConstError("record already exists")

	// ErrNoRecord is returned when a record is not found in the database.
	ErrNoRecord = errors.ConstError("record not found")

	// ErrReferenceMissing is returned when a write refers to a row that
	// does not exist.
	ErrReferenceMissing = errors.ConstError("referenced record does not exist")
)

// CoerceError converts database driver errors into domain errors so that
// storage specifics do not leak past the state layer. Errors that are not
// recognised are returned unchanged.
func CoerceError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, sqlair.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %w", ErrNoRecord, err)
	case database.IsErrConstraintUnique(err), database.IsErrConstraintPrimaryKey(err):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case database.IsErrConstraintForeignKey(err):
		return fmt.Errorf("%w: %w", ErrReferenceMissing, err)
	}
	return err
}
