// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"database/sql"
	"time"

	"github.com/agency-reporting/progreport/domain/period"
	"github.com/agency-reporting/progreport/domain/submission"
)

// dbSubmission represents a row of the program_submission table. The
// legacy content_json column is only read by the importer.
type dbSubmission struct {
	UUID        string         `db:"uuid"`
	ProgramUUID string         `db:"program_uuid"`
	PeriodUUID  string         `db:"period_uuid"`
	IsDraft     bool           `db:"is_draft"`
	Description string         `db:"description"`
	SubmittedBy sql.NullString `db:"submitted_by"`
	SubmittedAt sql.NullTime   `db:"submitted_at"`
	UpdatedBy   string         `db:"updated_by"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// dbContext holds the program and period columns joined onto a
// submission.
type dbContext struct {
	ProgramName  string `db:"program_name"`
	AgencyUUID   string `db:"agency_uuid"`
	Year         int    `db:"year"`
	PeriodType   string `db:"period_type"`
	PeriodNumber int    `db:"period_number"`
	PeriodStatus string `db:"period_status"`
}

func (c dbContext) toProgramPeriod() submission.ProgramPeriod {
	return submission.ProgramPeriod{
		ProgramName:  c.ProgramName,
		AgencyUUID:   c.AgencyUUID,
		PeriodLabel:  period.Label(c.Year, period.Type(c.PeriodType), c.PeriodNumber),
		PeriodStatus: period.Status(c.PeriodStatus),
	}
}

func toSubmission(s dbSubmission, c dbContext) submission.Submission {
	pp := c.toProgramPeriod()
	return submission.Submission{
		UUID:         s.UUID,
		ProgramUUID:  s.ProgramUUID,
		ProgramName:  pp.ProgramName,
		AgencyUUID:   pp.AgencyUUID,
		PeriodUUID:   s.PeriodUUID,
		PeriodLabel:  pp.PeriodLabel,
		PeriodStatus: pp.PeriodStatus,
		IsDraft:      s.IsDraft,
		Description:  s.Description,
		SubmittedBy:  s.SubmittedBy.String,
		SubmittedAt:  timePtr(s.SubmittedAt),
		UpdatedBy:    s.UpdatedBy,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type dbTarget struct {
	UUID              string       `db:"uuid"`
	SubmissionUUID    string       `db:"submission_uuid"`
	Position          int          `db:"position"`
	Number            string       `db:"target_number"`
	Description       string       `db:"description"`
	StatusIndicator   string       `db:"status_indicator"`
	StatusDescription string       `db:"status_description"`
	Remarks           string       `db:"remarks"`
	StartDate         sql.NullTime `db:"start_date"`
	EndDate           sql.NullTime `db:"end_date"`
}

func (t dbTarget) toTarget() submission.Target {
	return submission.Target{
		UUID:              t.UUID,
		Number:            t.Number,
		Description:       t.Description,
		StatusIndicator:   submission.TargetStatus(t.StatusIndicator),
		StatusDescription: t.StatusDescription,
		Remarks:           t.Remarks,
		StartDate:         timePtr(t.StartDate),
		EndDate:           timePtr(t.EndDate),
	}
}

func fromTarget(submissionUUID string, position int, t submission.Target) dbTarget {
	return dbTarget{
		UUID:              t.UUID,
		SubmissionUUID:    submissionUUID,
		Position:          position,
		Number:            t.Number,
		Description:       t.Description,
		StatusIndicator:   string(t.StatusIndicator),
		StatusDescription: t.StatusDescription,
		Remarks:           t.Remarks,
		StartDate:         nullTime(t.StartDate),
		EndDate:           nullTime(t.EndDate),
	}
}

type dbDraftUpdate struct {
	UUID        string    `db:"uuid"`
	Description string    `db:"description"`
	UpdatedBy   string    `db:"updated_by"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type dbTransition struct {
	UUID        string         `db:"uuid"`
	SubmittedBy sql.NullString `db:"submitted_by"`
	SubmittedAt sql.NullTime   `db:"submitted_at"`
	UpdatedBy   string         `db:"updated_by"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type dbDraftFlag struct {
	UUID    string `db:"uuid"`
	IsDraft bool   `db:"is_draft"`
}

type dbProgramPeriod struct {
	ProgramUUID string `db:"program_uuid"`
	PeriodUUID  string `db:"period_uuid"`
}

type dbFilter struct {
	PeriodUUID  string `db:"period_uuid"`
	AgencyUUID  string `db:"agency_uuid"`
	ProgramUUID string `db:"program_uuid"`
	Status      string `db:"status"`
}

type dbLegacyContent struct {
	UUID        string `db:"uuid"`
	Description string `db:"description"`
	ContentJSON string `db:"content_json"`
	TargetCount int    `db:"target_count"`
}

type dbObjectKey struct {
	ObjectKey string `db:"object_key"`
}

type entityUUID struct {
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
