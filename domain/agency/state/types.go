// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"time"

	"github.com/agency-reporting/progreport/domain/agency"
)

type dbAgency struct {
	UUID         string    `db:"uuid"`
	Name         string    `db:"name"`
	Abbreviation string    `db:"abbreviation"`
	CreatedAt    time.Time `db:"created_at"`
}

func (a dbAgency) toAgency() agency.Agency {
	return agency.Agency{
		UUID:         a.UUID,
		Name:         a.Name,
		Abbreviation: a.Abbreviation,
		CreatedAt:    a.CreatedAt,
	}
}

type agencyUUID struct {
	UUID string `db:"uuid"`
}
