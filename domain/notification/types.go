// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package notification

import "time"

// Kind classifies a notification.
type Kind string

const (
	// SubmissionFinalized is sent to administrators when an agency
	// finalizes a submission.
	SubmissionFinalized Kind = "submission-finalized"
	// SubmissionUnsubmitted is sent to administrators when an agency
	// withdraws a finalized submission.
	SubmissionUnsubmitted Kind = "submission-unsubmitted"
	// SubmissionReopened is sent to agency users when an administrator
	// reopens a finalized submission.
	SubmissionReopened Kind = "submission-reopened"
	// ProgramReassigned is sent to both agencies when a program changes
	// owner.
	ProgramReassigned Kind = "program-reassigned"
)

// Notification is a message addressed to a single user.
type Notification struct {
	UUID      string
	UserUUID  string
	Kind      Kind
	Message   string
	Link      string
	Read      bool
	CreatedAt time.Time
}
