// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package program

import (
	"time"

	"github.com/juju/errors"
)

// Program is a unit of government work owned by exactly one agency.
type Program struct {
	UUID           string
	Name           string
	Number         string
	Description    string
	AgencyUUID     string
	AgencyName     string
	InitiativeUUID string
	InitiativeName string
	StartDate      *time.Time
	EndDate        *time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProgramArgs holds the writable fields of a program. AgencyUUID is only
// honoured on creation; ownership changes go through reassignment.
type ProgramArgs struct {
	Name           string
	Number         string
	Description    string
	AgencyUUID     string
	InitiativeUUID string
	StartDate      *time.Time
	EndDate        *time.Time
}

// Validate checks the program fields.
func (a ProgramArgs) Validate() error {
	if a.Name == "" {
		return errors.NotValidf("empty program name")
	}
	if a.AgencyUUID == "" {
		return errors.NotValidf("program without agency")
	}
	if a.StartDate != nil && a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		return errors.NotValidf("end date %s before start date %s",
			a.EndDate.Format(time.DateOnly), a.StartDate.Format(time.DateOnly))
	}
	return nil
}

// Filter restricts a program listing. Empty fields match everything.
type Filter struct {
	AgencyUUID     string
	InitiativeUUID string
}
