// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package params holds the JSON request and response bodies of the HTTP
// API.
package params

import "time"

// Error is the body of every failed request.
type Error struct {
	Message string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// UUIDResult reports the uuid of a created entity.
type UUIDResult struct {
	UUID string `json:"uuid"`
}

// CountResult reports how many entities an operation touched.
type CountResult struct {
	Count int `json:"count"`
}

// LoginArgs holds the credentials for POST /api/login.
type LoginArgs struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResult holds a session token and the user it was issued for.
type LoginResult struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	User    User      `json:"user"`
}

// Me describes the authenticated user.
type Me struct {
	User                User `json:"user"`
	UnreadNotifications int  `json:"unread-notifications"`
}

// Agency is a government agency.
type Agency struct {
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation,omitempty"`
	CreatedAt    time.Time `json:"created-at"`
}

// AgencyArgs creates or updates an agency.
type AgencyArgs struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// User is a user account.
type User struct {
	UUID       string     `json:"uuid"`
	Name       string     `json:"name"`
	FullName   string     `json:"full-name,omitempty"`
	Email      string     `json:"email,omitempty"`
	Role       string     `json:"role"`
	AgencyUUID string     `json:"agency-uuid,omitempty"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created-at"`
	LastLogin  *time.Time `json:"last-login,omitempty"`
}

// AddUserArgs creates a user.
type AddUserArgs struct {
	Name       string `json:"name"`
	FullName   string `json:"full-name,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	AgencyUUID string `json:"agency-uuid,omitempty"`
	Password   string `json:"password"`
}

// UpdateUserArgs updates a user's details.
type UpdateUserArgs struct {
	FullName   string `json:"full-name,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	AgencyUUID string `json:"agency-uuid,omitempty"`
}

// SetPasswordArgs changes a password. Users changing their own password
// must supply the current one.
type SetPasswordArgs struct {
	CurrentPassword string `json:"current-password,omitempty"`
	Password        string `json:"password"`
}

// Initiative groups programs under a strategic goal.
type Initiative struct {
	UUID         string     `json:"uuid"`
	Name         string     `json:"name"`
	Number       string     `json:"number,omitempty"`
	Description  string     `json:"description,omitempty"`
	StartDate    *time.Time `json:"start-date,omitempty"`
	EndDate      *time.Time `json:"end-date,omitempty"`
	Active       bool       `json:"active"`
	CreatedBy    string     `json:"created-by,omitempty"`
	CreatedAt    time.Time  `json:"created-at"`
	UpdatedAt    time.Time  `json:"updated-at"`
	ProgramCount int        `json:"program-count"`
}

// InitiativeArgs creates or updates an initiative.
type InitiativeArgs struct {
	Name        string     `json:"name"`
	Number      string     `json:"number,omitempty"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start-date,omitempty"`
	EndDate     *time.Time `json:"end-date,omitempty"`
	Active      bool       `json:"active"`
}

// ProgramUUIDs lists programs for bulk initiative assignment.
type ProgramUUIDs struct {
	Programs []string `json:"programs"`
}

// Program is a reporting unit owned by an agency.
type Program struct {
	UUID           string     `json:"uuid"`
	Name           string     `json:"name"`
	Number         string     `json:"number"`
	Description    string     `json:"description,omitempty"`
	AgencyUUID     string     `json:"agency-uuid"`
	AgencyName     string     `json:"agency-name"`
	InitiativeUUID string     `json:"initiative-uuid,omitempty"`
	InitiativeName string     `json:"initiative-name,omitempty"`
	StartDate      *time.Time `json:"start-date,omitempty"`
	EndDate        *time.Time `json:"end-date,omitempty"`
	CreatedBy      string     `json:"created-by,omitempty"`
	CreatedAt      time.Time  `json:"created-at"`
	UpdatedAt      time.Time  `json:"updated-at"`
}

// ProgramArgs creates or updates a program.
type ProgramArgs struct {
	Name           string     `json:"name"`
	Number         string     `json:"number,omitempty"`
	Description    string     `json:"description,omitempty"`
	AgencyUUID     string     `json:"agency-uuid"`
	InitiativeUUID string     `json:"initiative-uuid,omitempty"`
	StartDate      *time.Time `json:"start-date,omitempty"`
	EndDate        *time.Time `json:"end-date,omitempty"`
}

// ReassignArgs moves a program to another agency.
type ReassignArgs struct {
	AgencyUUID string `json:"agency-uuid"`
}

// Period is a reporting period.
type Period struct {
	UUID      string    `json:"uuid"`
	Label     string    `json:"label"`
	Year      int       `json:"year"`
	Type      string    `json:"type"`
	Number    int       `json:"number"`
	StartDate time.Time `json:"start-date"`
	EndDate   time.Time `json:"end-date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created-at"`
}

// PeriodArgs creates a reporting period.
type PeriodArgs struct {
	Year      int       `json:"year"`
	Type      string    `json:"type"`
	Number    int       `json:"number"`
	StartDate time.Time `json:"start-date"`
	EndDate   time.Time `json:"end-date"`
	Status    string    `json:"status,omitempty"`
}

// Target is a measurable goal reported in a submission.
type Target struct {
	UUID              string     `json:"uuid,omitempty"`
	Number            string     `json:"number,omitempty"`
	Description       string     `json:"description"`
	StatusIndicator   string     `json:"status-indicator,omitempty"`
	StatusDescription string     `json:"status-description,omitempty"`
	Remarks           string     `json:"remarks,omitempty"`
	StartDate         *time.Time `json:"start-date,omitempty"`
	EndDate           *time.Time `json:"end-date,omitempty"`
}

// Submission is an agency's report on a program for one period.
type Submission struct {
	UUID         string     `json:"uuid"`
	ProgramUUID  string     `json:"program-uuid"`
	ProgramName  string     `json:"program-name"`
	AgencyUUID   string     `json:"agency-uuid"`
	PeriodUUID   string     `json:"period-uuid"`
	PeriodLabel  string     `json:"period-label"`
	PeriodStatus string     `json:"period-status"`
	IsDraft      bool       `json:"is-draft"`
	Status       string     `json:"status"`
	Description  string     `json:"description,omitempty"`
	SubmittedBy  string     `json:"submitted-by,omitempty"`
	SubmittedAt  *time.Time `json:"submitted-at,omitempty"`
	UpdatedBy    string     `json:"updated-by,omitempty"`
	CreatedAt    time.Time  `json:"created-at"`
	UpdatedAt    time.Time  `json:"updated-at"`
	Targets      []Target   `json:"targets"`
}

// SaveDraftArgs replaces the content of a draft submission.
type SaveDraftArgs struct {
	Description string   `json:"description,omitempty"`
	Targets     []Target `json:"targets"`
}

// ReopenArgs returns a finalized submission to its agency.
type ReopenArgs struct {
	Reason string `json:"reason"`
}

// Attachment is a file uploaded against a submission.
type Attachment struct {
	UUID           string    `json:"uuid"`
	SubmissionUUID string    `json:"submission-uuid"`
	FileName       string    `json:"file-name"`
	ContentType    string    `json:"content-type"`
	Size           int64     `json:"size"`
	HumanSize      string    `json:"human-size"`
	SHA256         string    `json:"sha256"`
	UploadedBy     string    `json:"uploaded-by"`
	CreatedAt      time.Time `json:"created-at"`
}

// Notification is a message for one user.
type Notification struct {
	UUID      string    `json:"uuid"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created-at"`
}

// Notifications lists a user's notifications.
type Notifications struct {
	Notifications []Notification `json:"notifications"`
	Unread        int            `json:"unread"`
}

// AuditRecord is an entry of the audit log.
type AuditRecord struct {
	UUID      string    `json:"uuid"`
	UserUUID  string    `json:"user-uuid,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"created-at"`
}
