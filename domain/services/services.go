// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package services constructs the domain services over one database.
package services

import (
	"github.com/juju/clock"

	"github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/core/logger"
	agencyservice "github.com/agency-reporting/progreport/domain/agency/service"
	agencystate "github.com/agency-reporting/progreport/domain/agency/state"
	attachmentservice "github.com/agency-reporting/progreport/domain/attachment/service"
	attachmentstate "github.com/agency-reporting/progreport/domain/attachment/state"
	auditservice "github.com/agency-reporting/progreport/domain/audit/service"
	auditstate "github.com/agency-reporting/progreport/domain/audit/state"
	initiativeservice "github.com/agency-reporting/progreport/domain/initiative/service"
	initiativestate "github.com/agency-reporting/progreport/domain/initiative/state"
	notificationservice "github.com/agency-reporting/progreport/domain/notification/service"
	notificationstate "github.com/agency-reporting/progreport/domain/notification/state"
	periodservice "github.com/agency-reporting/progreport/domain/period/service"
	periodstate "github.com/agency-reporting/progreport/domain/period/state"
	programservice "github.com/agency-reporting/progreport/domain/program/service"
	programstate "github.com/agency-reporting/progreport/domain/program/state"
	submissionservice "github.com/agency-reporting/progreport/domain/submission/service"
	submissionstate "github.com/agency-reporting/progreport/domain/submission/state"
	userservice "github.com/agency-reporting/progreport/domain/user/service"
	userstate "github.com/agency-reporting/progreport/domain/user/state"
	"github.com/agency-reporting/progreport/internal/objectstore"
)

// Config holds the dependencies shared by every service.
type Config struct {
	DB          database.TxnRunnerFactory
	ObjectStore objectstore.ObjectStore
	Clock       clock.Clock

	// MaxUploadSize limits attachment uploads, in bytes. Zero selects the
	// attachment service default.
	MaxUploadSize int64

	// LoggerPrefix names the parent of the per service loggers,
	// "progreport.domain" when empty.
	LoggerPrefix string
}

// Factory provides access to the services of every domain. Each call
// returns a fresh service sharing the same database.
type Factory struct {
	cfg Config
}

// NewFactory returns a Factory for the configuration.
func NewFactory(cfg Config) *Factory {
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.LoggerPrefix == "" {
		cfg.LoggerPrefix = "progreport.domain"
	}
	return &Factory{cfg: cfg}
}

func (f *Factory) logger(name string) logger.Logger {
	return logger.GetLogger(f.cfg.LoggerPrefix + "." + name)
}

// Agency returns the agency service.
func (f *Factory) Agency() *agencyservice.Service {
	return agencyservice.NewService(
		agencystate.NewState(f.cfg.DB),
		f.cfg.Clock,
		f.logger("agency"),
	)
}

// User returns the user service.
func (f *Factory) User() *userservice.Service {
	return userservice.NewService(
		userstate.NewState(f.cfg.DB),
		f.cfg.Clock,
		f.logger("user"),
	)
}

// Initiative returns the initiative service.
func (f *Factory) Initiative() *initiativeservice.Service {
	return initiativeservice.NewService(
		initiativestate.NewState(f.cfg.DB),
		f.cfg.Clock,
		f.logger("initiative"),
	)
}

// Program returns the program service.
func (f *Factory) Program() *programservice.Service {
	return programservice.NewService(
		programstate.NewState(f.cfg.DB),
		f.Notification(),
		f.cfg.ObjectStore,
		f.Audit(),
		f.cfg.Clock,
		f.logger("program"),
	)
}

// Period returns the reporting period service.
func (f *Factory) Period() *periodservice.Service {
	return periodservice.NewService(
		periodstate.NewState(f.cfg.DB),
		f.cfg.Clock,
		f.logger("period"),
	)
}

// Submission returns the submission service.
func (f *Factory) Submission() *submissionservice.Service {
	return submissionservice.NewService(
		submissionstate.NewState(f.cfg.DB),
		f.Notification(),
		f.cfg.ObjectStore,
		f.Audit(),
		f.cfg.Clock,
		f.logger("submission"),
	)
}

// Attachment returns the attachment service.
func (f *Factory) Attachment() *attachmentservice.Service {
	return attachmentservice.NewService(
		attachmentstate.NewState(f.cfg.DB),
		f.cfg.ObjectStore,
		f.Audit(),
		f.cfg.MaxUploadSize,
		f.cfg.Clock,
		f.logger("attachment"),
	)
}

// Notification returns the notification service.
func (f *Factory) Notification() *notificationservice.Service {
	return notificationservice.NewService(
		notificationstate.NewState(f.cfg.DB),
		f.User(),
		f.cfg.Clock,
		f.logger("notification"),
	)
}

// Audit returns the audit log service.
func (f *Factory) Audit() *auditservice.Service {
	return auditservice.NewService(
		auditstate.NewState(f.cfg.DB),
		f.cfg.Clock,
		f.logger("audit"),
	)
}
