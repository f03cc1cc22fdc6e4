// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package submission

import (
	"time"

	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/domain/period"
)

// Status is the lifecycle state of a submission.
type Status string

const (
	// Draft submissions can still be edited by their agency.
	Draft Status = "draft"
	// Finalized submissions are locked until unsubmitted or reopened.
	Finalized Status = "finalized"
)

// Validate checks the status is known. The empty status is accepted and
// matches every submission when filtering.
func (s Status) Validate() error {
	switch s {
	case "", Draft, Finalized:
		return nil
	}
	return errors.NotValidf("submission status %q", s)
}

// TargetStatus is the progress indicator of a target.
type TargetStatus string

const (
	NotStarted TargetStatus = "not-started"
	OnTrack    TargetStatus = "on-track"
	AtRisk     TargetStatus = "at-risk"
	Delayed    TargetStatus = "delayed"
	Completed  TargetStatus = "completed"
)

// Validate checks the target status is known.
func (s TargetStatus) Validate() error {
	switch s {
	case NotStarted, OnTrack, AtRisk, Delayed, Completed:
		return nil
	}
	return errors.NotValidf("target status %q", s)
}

// Target is a measurable goal reported in a submission.
type Target struct {
	UUID              string
	Number            string
	Description       string
	StatusIndicator   TargetStatus
	StatusDescription string
	Remarks           string
	StartDate         *time.Time
	EndDate           *time.Time
}

// Submission is an agency's report on a program for one reporting period.
type Submission struct {
	UUID         string
	ProgramUUID  string
	ProgramName  string
	AgencyUUID   string
	PeriodUUID   string
	PeriodLabel  string
	PeriodStatus period.Status
	IsDraft      bool
	Description  string
	// SubmittedBy and UpdatedBy hold user UUIDs.
	SubmittedBy  string
	SubmittedAt  *time.Time
	UpdatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Targets      []Target
}

// Status returns the lifecycle state of the submission.
func (s Submission) Status() Status {
	if s.IsDraft {
		return Draft
	}
	return Finalized
}

// ValidateComplete checks that the submission can be finalized: it has at
// least one target and every target has a description and a known status.
func (s Submission) ValidateComplete() error {
	if len(s.Targets) == 0 {
		return errors.NotValidf("submission without targets")
	}
	for i, t := range s.Targets {
		if t.Description == "" {
			return errors.NotValidf("target %d without description", i+1)
		}
		if err := t.StatusIndicator.Validate(); err != nil {
			return errors.Annotatef(err, "target %d", i+1)
		}
	}
	return nil
}

// SaveDraftArgs holds the content of a draft submission. Targets replace
// any existing targets.
type SaveDraftArgs struct {
	ProgramUUID string
	PeriodUUID  string
	Description string
	Targets     []Target
}

// ProgramPeriod describes the program and period a submission is filed
// against.
type ProgramPeriod struct {
	ProgramName  string
	AgencyUUID   string
	PeriodLabel  string
	PeriodStatus period.Status
}

// Filter restricts a submission listing. Empty fields match everything.
type Filter struct {
	PeriodUUID  string
	AgencyUUID  string
	ProgramUUID string
	Status      Status
}

// LegacyContent is a submission still holding its report in the legacy
// content_json column.
type LegacyContent struct {
	SubmissionUUID string
	Description    string
	ContentJSON    string
	HasTargets     bool
}

// ImportResult counts the outcome of a legacy content import.
type ImportResult struct {
	// Converted submissions had their legacy content moved into targets.
	Converted int
	// Skipped submissions already had targets; their legacy content was
	// discarded.
	Skipped int
	// Failed submissions had legacy content that could not be parsed and
	// was left in place.
	Failed int
}
