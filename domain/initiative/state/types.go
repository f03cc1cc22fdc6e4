// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"database/sql"
	"time"

	"github.com/agency-reporting/progreport/domain/initiative"
)

type dbInitiative struct {
	UUID        string       `db:"uuid"`
	Name        string       `db:"name"`
	Number      string       `db:"number"`
	Description string       `db:"description"`
	StartDate   sql.NullTime `db:"start_date"`
	EndDate     sql.NullTime `db:"end_date"`
	Active      bool         `db:"active"`
	CreatedBy   string       `db:"created_by"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

type dbProgramCount struct {
	Count int `db:"program_count"`
}

type initiativeWithCount struct {
	dbInitiative
	ProgramCount int
}

func (i initiativeWithCount) toInitiative() initiative.Initiative {
	return initiative.Initiative{
		UUID:         i.UUID,
		Name:         i.Name,
		Number:       i.Number,
		Description:  i.Description,
		StartDate:    timePtr(i.StartDate),
		EndDate:      timePtr(i.EndDate),
		Active:       i.Active,
		CreatedBy:    i.CreatedBy,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
		ProgramCount: i.ProgramCount,
	}
}

type initiativeUUID struct {
	UUID string `db:"uuid"`
}

type activeFilter struct {
	Active bool `db:"active"`
}

// dbProgramInitiative is used to move a program in or out of an
// initiative.
type dbProgramInitiative struct {
	ProgramUUID    string         `db:"uuid"`
	InitiativeUUID sql.NullString `db:"initiative_uuid"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type programUUID struct {
	UUID string `db:"uuid"`
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
