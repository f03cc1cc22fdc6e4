// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package period

import (
	"fmt"
	"time"

	"github.com/juju/errors"
)

// Type is the length of a reporting period.
type Type string

const (
	Quarter Type = "quarter"
	Half    Type = "half"
	Annual  Type = "annual"
)

// maxNumber returns the highest period number of the type within a year.
func (t Type) maxNumber() int {
	switch t {
	case Quarter:
		return 4
	case Half:
		return 2
	case Annual:
		return 1
	}
	return 0
}

// Status is whether a period accepts submission changes.
type Status string

const (
	Open   Status = "open"
	Closed Status = "closed"
)

// Validate checks the status is known.
func (s Status) Validate() error {
	switch s {
	case Open, Closed:
		return nil
	}
	return errors.NotValidf("period status %q", s)
}

// Period is a reporting window.
type Period struct {
	UUID      string
	Year      int
	Type      Type
	Number    int
	StartDate time.Time
	EndDate   time.Time
	Status    Status
	CreatedAt time.Time
}

// Label returns the short name of the period, such as Q2-2024, H1-2024 or
// FY-2024.
func (p Period) Label() string {
	return Label(p.Year, p.Type, p.Number)
}

// IsOpen reports whether the period accepts submission changes.
func (p Period) IsOpen() bool {
	return p.Status == Open
}

// Contains reports whether t falls within the period. The end date is
// inclusive.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}

// Label formats the short name of a period.
func Label(year int, typ Type, number int) string {
	switch typ {
	case Quarter:
		return fmt.Sprintf("Q%d-%d", number, year)
	case Half:
		return fmt.Sprintf("H%d-%d", number, year)
	case Annual:
		return fmt.Sprintf("FY-%d", year)
	}
	return fmt.Sprintf("%s%d-%d", typ, number, year)
}

// CreatePeriodArgs holds the details of a new period.
type CreatePeriodArgs struct {
	Year      int
	Type      Type
	Number    int
	StartDate time.Time
	EndDate   time.Time
	Status    Status
}

// Validate checks the period fields.
func (a CreatePeriodArgs) Validate() error {
	if a.Year < 1900 || a.Year > 9999 {
		return errors.NotValidf("year %d", a.Year)
	}
	max := a.Type.maxNumber()
	if max == 0 {
		return errors.NotValidf("period type %q", a.Type)
	}
	if a.Number < 1 || a.Number > max {
		return errors.NotValidf("%s number %d", a.Type, a.Number)
	}
	if a.StartDate.IsZero() || a.EndDate.IsZero() {
		return errors.NotValidf("period without start and end dates")
	}
	if !a.EndDate.After(a.StartDate) {
		return errors.NotValidf("end date %s not after start date %s",
			a.EndDate.Format(time.DateOnly), a.StartDate.Format(time.DateOnly))
	}
	return errors.Trace(a.Status.Validate())
}
