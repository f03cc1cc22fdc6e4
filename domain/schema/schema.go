// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package schema

import "github.com/agency-reporting/progreport/core/database"

// DDL returns the reporting database schema. Deltas are applied in order
// and recorded, so new changes must only ever be appended.
func DDL() []database.Delta {
	schemas := []func() database.Delta{
		sequenceSchema,
		agencySchema,
		userSchema,
		initiativeSchema,
		programSchema,
		reportingPeriodSchema,
		submissionSchema,
		targetSchema,
		notificationSchema,
		attachmentSchema,
		auditSchema,
	}

	var deltas []database.Delta
	for _, fn := range schemas {
		deltas = append(deltas, fn())
	}

	return deltas
}

func sequenceSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE sequence (
    namespace TEXT PRIMARY KEY,
    value     INT NOT NULL
);
`)
}

func agencySchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE agency (
    uuid         TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    abbreviation TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX idx_agency_name
ON agency (name);
`)
}

func userSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE user (
    uuid          TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    full_name     TEXT NOT NULL DEFAULT '',
    email         TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL,
    agency_uuid   TEXT,
    password_hash TEXT NOT NULL,
    active        BOOLEAN NOT NULL DEFAULT TRUE,
    created_at    TIMESTAMP NOT NULL,
    last_login    TIMESTAMP,
    CONSTRAINT    chk_user_role
        CHECK     (role IN ('admin', 'agency', 'focal')),
    -- Administrators are not attached to an agency; everybody else is.
    CONSTRAINT    chk_user_agency
        CHECK     ((role = 'admin' AND agency_uuid IS NULL) OR
                   (role != 'admin' AND agency_uuid IS NOT NULL)),
    CONSTRAINT    fk_user_agency
        FOREIGN KEY (agency_uuid)
        REFERENCES  agency(uuid)
);

CREATE UNIQUE INDEX idx_user_name
ON user (name);

CREATE INDEX idx_user_agency
ON user (agency_uuid);
`)
}

func initiativeSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE initiative (
    uuid        TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    number      TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    start_date  TIMESTAMP,
    end_date    TIMESTAMP,
    active      BOOLEAN NOT NULL DEFAULT TRUE,
    created_by  TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX idx_initiative_name
ON initiative (name);
`)
}

func programSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE program (
    uuid            TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    number          TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    agency_uuid     TEXT NOT NULL,
    initiative_uuid TEXT,
    start_date      TIMESTAMP,
    end_date        TIMESTAMP,
    created_by      TEXT NOT NULL,
    created_at      TIMESTAMP NOT NULL,
    updated_at      TIMESTAMP NOT NULL,
    CONSTRAINT      fk_program_agency
        FOREIGN KEY (agency_uuid)
        REFERENCES  agency(uuid),
    CONSTRAINT      fk_program_initiative
        FOREIGN KEY (initiative_uuid)
        REFERENCES  initiative(uuid)
);

CREATE UNIQUE INDEX idx_program_agency_number
ON program (agency_uuid, number);

CREATE INDEX idx_program_initiative
ON program (initiative_uuid);
`)
}

func reportingPeriodSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE reporting_period (
    uuid          TEXT PRIMARY KEY,
    year          INT NOT NULL,
    period_type   TEXT NOT NULL,
    period_number INT NOT NULL,
    start_date    TIMESTAMP NOT NULL,
    end_date      TIMESTAMP NOT NULL,
    status        TEXT NOT NULL DEFAULT 'closed',
    created_at    TIMESTAMP NOT NULL,
    CONSTRAINT    chk_reporting_period_type
        CHECK     (period_type IN ('quarter', 'half', 'annual')),
    CONSTRAINT    chk_reporting_period_status
        CHECK     (status IN ('open', 'closed'))
);

CREATE UNIQUE INDEX idx_reporting_period_window
ON reporting_period (year, period_type, period_number);
`)
}

func submissionSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE program_submission (
    uuid         TEXT PRIMARY KEY,
    program_uuid TEXT NOT NULL,
    period_uuid  TEXT NOT NULL,
    is_draft     BOOLEAN NOT NULL DEFAULT TRUE,
    description  TEXT NOT NULL DEFAULT '',
    -- content_json holds the legacy denormalised report. It is only read
    -- by the legacy importer, which moves it into program_target.
    content_json TEXT,
    submitted_by TEXT,
    submitted_at TIMESTAMP,
    updated_by   TEXT NOT NULL,
    created_at   TIMESTAMP NOT NULL,
    updated_at   TIMESTAMP NOT NULL,
    CONSTRAINT   fk_program_submission_program
        FOREIGN KEY (program_uuid)
        REFERENCES  program(uuid)
        ON DELETE   CASCADE,
    CONSTRAINT   fk_program_submission_period
        FOREIGN KEY (period_uuid)
        REFERENCES  reporting_period(uuid)
);

CREATE UNIQUE INDEX idx_program_submission_program_period
ON program_submission (program_uuid, period_uuid);

CREATE INDEX idx_program_submission_period
ON program_submission (period_uuid);
`)
}

func targetSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE program_target (
    uuid               TEXT PRIMARY KEY,
    submission_uuid    TEXT NOT NULL,
    position           INT NOT NULL,
    target_number      TEXT NOT NULL DEFAULT '',
    description        TEXT NOT NULL,
    status_indicator   TEXT NOT NULL DEFAULT 'not-started',
    status_description TEXT NOT NULL DEFAULT '',
    remarks            TEXT NOT NULL DEFAULT '',
    start_date         TIMESTAMP,
    end_date           TIMESTAMP,
    CONSTRAINT         chk_program_target_status
        CHECK          (status_indicator IN ('not-started', 'on-track', 'at-risk', 'delayed', 'completed')),
    CONSTRAINT         fk_program_target_submission
        FOREIGN KEY    (submission_uuid)
        REFERENCES     program_submission(uuid)
        ON DELETE      CASCADE
);

CREATE UNIQUE INDEX idx_program_target_position
ON program_target (submission_uuid, position);
`)
}

func notificationSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE notification (
    uuid       TEXT PRIMARY KEY,
    user_uuid  TEXT NOT NULL,
    kind       TEXT NOT NULL,
    message    TEXT NOT NULL,
    link       TEXT NOT NULL DEFAULT '',
    is_read    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    CONSTRAINT fk_notification_user
        FOREIGN KEY (user_uuid)
        REFERENCES  user(uuid)
);

CREATE INDEX idx_notification_user_read
ON notification (user_uuid, is_read);
`)
}

func attachmentSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE attachment (
    uuid            TEXT PRIMARY KEY,
    submission_uuid TEXT NOT NULL,
    file_name       TEXT NOT NULL,
    content_type    TEXT NOT NULL,
    size            INT NOT NULL,
    sha256          TEXT NOT NULL,
    object_key      TEXT NOT NULL,
    uploaded_by     TEXT NOT NULL,
    created_at      TIMESTAMP NOT NULL,
    CONSTRAINT      fk_attachment_submission
        FOREIGN KEY (submission_uuid)
        REFERENCES  program_submission(uuid)
        ON DELETE   CASCADE
);

CREATE INDEX idx_attachment_submission
ON attachment (submission_uuid);

CREATE UNIQUE INDEX idx_attachment_object_key
ON attachment (object_key);
`)
}

func auditSchema() database.Delta {
	return database.MakeDelta(`
CREATE TABLE audit_log (
    uuid       TEXT PRIMARY KEY,
    user_uuid  TEXT NOT NULL DEFAULT '',
    action     TEXT NOT NULL,
    detail     TEXT NOT NULL DEFAULT '',
    outcome    TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    CONSTRAINT chk_audit_log_outcome
        CHECK  (outcome IN ('success', 'failure'))
);

CREATE INDEX idx_audit_log_created_at
ON audit_log (created_at);
`)
}
