// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package agency describes the government agencies that own programs and
// employ agency-side users.
package agency

import "time"

// Agency is a reporting agency.
type Agency struct {
	UUID         string
	Name         string
	Abbreviation string
	CreatedAt    time.Time
}

// CreateAgencyArgs holds the arguments for creating an agency.
type CreateAgencyArgs struct {
	Name         string
	Abbreviation string
}
