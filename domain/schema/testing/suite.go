// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/agency-reporting/progreport/domain/schema"
	databasetesting "github.com/agency-reporting/progreport/internal/database/testing"
)

// SchemaSuite provides a test database pre-populated with the reporting
// schema, along with helpers for seeding rows directly.
type SchemaSuite struct {
	databasetesting.DatabaseSuite
}

// SetUpTest applies the reporting schema to a fresh database.
func (s *SchemaSuite) SetUpTest(c *gc.C) {
	s.DatabaseSuite.SetUpTest(c)
	s.ApplyDDL(c, schema.DDL())
}

// Exec runs a raw statement against the test database in a transaction.
func (s *SchemaSuite) Exec(c *gc.C, query string, args ...any) {
	err := s.TxnRunner().StdTxn(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
	c.Assert(err, jc.ErrorIsNil)
}

// SeedAgency inserts an agency and returns its UUID.
func (s *SchemaSuite) SeedAgency(c *gc.C, name string) string {
	id := uuid.NewString()
	s.Exec(c, `INSERT INTO agency (uuid, name, abbreviation, created_at) VALUES (?, ?, ?, ?)`,
		id, name, "", time.Now().UTC())
	return id
}

// SeedUser inserts a user with the given role. agencyUUID must be empty for
// administrators.
func (s *SchemaSuite) SeedUser(c *gc.C, name, role, agencyUUID string) string {
	id := uuid.NewString()
	var agency sql.NullString
	if agencyUUID != "" {
		agency = sql.NullString{String: agencyUUID, Valid: true}
	}
	s.Exec(c, `
INSERT INTO user (uuid, name, role, agency_uuid, password_hash, active, created_at)
VALUES (?, ?, ?, ?, 'x', TRUE, ?)`, id, name, role, agency, time.Now().UTC())
	return id
}

// SeedInitiative inserts an initiative and returns its UUID.
func (s *SchemaSuite) SeedInitiative(c *gc.C, name string) string {
	id := uuid.NewString()
	now := time.Now().UTC()
	s.Exec(c, `
INSERT INTO initiative (uuid, name, created_by, created_at, updated_at)
VALUES (?, ?, 'seed', ?, ?)`, id, name, now, now)
	return id
}

// SeedProgram inserts a program owned by the agency and returns its UUID.
func (s *SchemaSuite) SeedProgram(c *gc.C, agencyUUID, name, number string) string {
	id := uuid.NewString()
	now := time.Now().UTC()
	s.Exec(c, `
INSERT INTO program (uuid, name, number, agency_uuid, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, 'seed', ?, ?)`, id, name, number, agencyUUID, now, now)
	return id
}

// SeedPeriod inserts a reporting period and returns its UUID.
func (s *SchemaSuite) SeedPeriod(c *gc.C, year, quarter int, status string, start, end time.Time) string {
	id := uuid.NewString()
	s.Exec(c, `
INSERT INTO reporting_period (uuid, year, period_type, period_number, start_date, end_date, status, created_at)
VALUES (?, ?, 'quarter', ?, ?, ?, ?, ?)`, id, year, quarter, start.UTC(), end.UTC(), status, time.Now().UTC())
	return id
}

// SeedSubmission inserts a submission for the program and period.
func (s *SchemaSuite) SeedSubmission(c *gc.C, programUUID, periodUUID string, draft bool) string {
	id := uuid.NewString()
	now := time.Now().UTC()
	var (
		submittedBy sql.NullString
		submittedAt sql.NullTime
	)
	if !draft {
		submittedBy = sql.NullString{String: "seed", Valid: true}
		submittedAt = sql.NullTime{Time: now, Valid: true}
	}
	s.Exec(c, `
INSERT INTO program_submission (uuid, program_uuid, period_uuid, is_draft, submitted_by, submitted_at, updated_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, 'seed', ?, ?)`, id, programUUID, periodUUID, draft, submittedBy, submittedAt, now, now)
	return id
}
