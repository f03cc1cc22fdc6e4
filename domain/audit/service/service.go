// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/logger"
	"github.com/agency-reporting/progreport/domain/audit"
)

// State describes persistence of the audit log.
type State interface {
	// AddRecord appends a record to the audit log.
	AddRecord(ctx context.Context, record audit.Record) error

	// ListRecords returns records matching the filter, newest first.
	ListRecords(ctx context.Context, filter audit.Filter) ([]audit.Record, error)
}

// Service records and lists auditable actions.
type Service struct {
	st     State
	clock  clock.Clock
	logger logger.Logger
}

// NewService returns a new audit Service.
func NewService(st State, clock clock.Clock, logger logger.Logger) *Service {
	return &Service{
		st:     st,
		clock:  clock,
		logger: logger,
	}
}

// Log records that the user performed the action. The outcome is derived
// from actionErr. Failing to write the record is logged and returned.
func (s *Service) Log(ctx context.Context, userUUID, action, detail string, actionErr error) error {
	record := audit.Record{
		UUID:      uuid.NewString(),
		UserUUID:  userUUID,
		Action:    action,
		Detail:    detail,
		Outcome:   audit.OutcomeOf(actionErr),
		CreatedAt: s.clock.Now(),
	}
	if actionErr != nil && record.Detail == "" {
		record.Detail = actionErr.Error()
	}
	if err := s.st.AddRecord(ctx, record); err != nil {
		s.logger.Errorf("writing audit record %s for %q: %v", action, userUUID, err)
		return errors.Trace(err)
	}
	return nil
}

// List returns the audit records matching the filter.
func (s *Service) List(ctx context.Context, filter audit.Filter) ([]audit.Record, error) {
	records, err := s.st.ListRecords(ctx, filter)
	return records, errors.Trace(err)
}
