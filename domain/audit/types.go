// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package audit

import "time"

// Outcome records whether an audited action succeeded.
type Outcome string

const (
	Success Outcome = "success"
	Failure Outcome = "failure"
)

// OutcomeOf returns Failure for a non-nil error and Success otherwise.
func OutcomeOf(err error) Outcome {
	if err != nil {
		return Failure
	}
	return Success
}

// Record is an entry in the audit log.
type Record struct {
	UUID      string
	UserUUID  string
	Action    string
	Detail    string
	Outcome   Outcome
	CreatedAt time.Time
}

// Filter restricts an audit listing. Zero values match everything.
type Filter struct {
	UserUUID string
	Action   string
	Since    time.Time
	Limit    int
}
