// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package initiative

import (
	"time"

	"github.com/juju/errors"
)

// Initiative is a strategic grouping of programs, possibly spanning
// several agencies.
type Initiative struct {
	UUID         string
	Name         string
	Number       string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	Active       bool
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ProgramCount int
}

// InitiativeArgs holds the writable fields of an initiative.
type InitiativeArgs struct {
	Name        string
	Number      string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Active      bool
}

// Validate checks the initiative fields.
func (a InitiativeArgs) Validate() error {
	if a.Name == "" {
		return errors.NotValidf("empty initiative name")
	}
	if a.StartDate != nil && a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		return errors.NotValidf("end date %s before start date %s",
			a.EndDate.Format(time.DateOnly), a.StartDate.Format(time.DateOnly))
	}
	return nil
}
