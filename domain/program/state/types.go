// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"database/sql"
	"time"

	"github.com/agency-reporting/progreport/domain/program"
)

type dbProgram struct {
	UUID           string         `db:"uuid"`
	Name           string         `db:"name"`
	Number         string         `db:"number"`
	Description    string         `db:"description"`
	AgencyUUID     string         `db:"agency_uuid"`
	InitiativeUUID sql.NullString `db:"initiative_uuid"`
	StartDate      sql.NullTime   `db:"start_date"`
	EndDate        sql.NullTime   `db:"end_date"`
	CreatedBy      string         `db:"created_by"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// dbProgramNames carries the joined agency and initiative names.
type dbProgramNames struct {
	AgencyName     string         `db:"agency_name"`
	InitiativeName sql.NullString `db:"initiative_name"`
}

func toProgram(p dbProgram, n dbProgramNames) program.Program {
	return program.Program{
		UUID:           p.UUID,
		Name:           p.Name,
		Number:         p.Number,
		Description:    p.Description,
		AgencyUUID:     p.AgencyUUID,
		AgencyName:     n.AgencyName,
		InitiativeUUID: p.InitiativeUUID.String,
		InitiativeName: n.InitiativeName.String,
		StartDate:      timePtr(p.StartDate),
		EndDate:        timePtr(p.EndDate),
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type dbProgramFilter struct {
	AgencyUUID     string `db:"agency_uuid"`
	InitiativeUUID string `db:"initiative_uuid"`
}

type dbProgramNumber struct {
	AgencyUUID string `db:"agency_uuid"`
	Number     string `db:"number"`
}

type dbProgramOwner struct {
	UUID       string    `db:"uuid"`
	AgencyUUID string    `db:"agency_uuid"`
	Number     string    `db:"number"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type dbObjectKey struct {
	ObjectKey string `db:"object_key"`
}

type dbCount struct {
	Count int `db:"count"`
}

type entityUUID struct {
	UUID string `db:"uuid"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
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
