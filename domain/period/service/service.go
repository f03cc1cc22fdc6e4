// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/logger"
	"github.com/agency-reporting/progreport/domain/period"
	perioderrors "github.com/agency-reporting/progreport/domain/period/errors"
)

// State describes retrieval and persistence methods for reporting periods.
type State interface {
	// CreatePeriod inserts a reporting period.
	CreatePeriod(ctx context.Context, uuid string, args period.CreatePeriodArgs, now time.Time) error

	// GetPeriod returns the period with the given UUID.
	GetPeriod(ctx context.Context, uuid string) (period.Period, error)

	// ListPeriods returns every period, latest first.
	ListPeriods(ctx context.Context) ([]period.Period, error)

	// ListOpenPeriods returns the open periods, latest first.
	ListOpenPeriods(ctx context.Context) ([]period.Period, error)

	// SetStatus opens or closes a period, reporting whether it changed.
	SetStatus(ctx context.Context, uuid string, status period.Status) (bool, error)
}

// Service provides the API for working with reporting periods.
type Service struct {
	st     State
	clock  clock.Clock
	logger logger.Logger
}

// NewService returns a new Service for interacting with periods.
func NewService(st State, clock clock.Clock, logger logger.Logger) *Service {
	return &Service{
		st:     st,
		clock:  clock,
		logger: logger,
	}
}

// CreatePeriod adds a reporting period and returns its UUID. Periods are
// created closed unless a status is given.
func (s *Service) CreatePeriod(ctx context.Context, args period.CreatePeriodArgs) (string, error) {
	if args.Status == "" {
		args.Status = period.Closed
	}
	if err := args.Validate(); err != nil {
		return "", errors.Trace(err)
	}

	id := uuid.NewString()
	if err := s.st.CreatePeriod(ctx, id, args, s.clock.Now()); err != nil {
		return "", errors.Trace(err)
	}
	s.logger.Infof("created reporting period %s", period.Label(args.Year, args.Type, args.Number))
	return id, nil
}

// GetPeriod returns the period with the given UUID.
func (s *Service) GetPeriod(ctx context.Context, id string) (period.Period, error) {
	if _, err := uuid.Parse(id); err != nil {
		return period.Period{}, errors.NotValidf("period uuid %q", id)
	}
	p, err := s.st.GetPeriod(ctx, id)
	return p, errors.Trace(err)
}

// ListPeriods returns every period, latest first.
func (s *Service) ListPeriods(ctx context.Context) ([]period.Period, error) {
	periods, err := s.st.ListPeriods(ctx)
	return periods, errors.Trace(err)
}

// OpenPeriod opens a period for submissions.
func (s *Service) OpenPeriod(ctx context.Context, id string) error {
	return errors.Trace(s.setStatus(ctx, id, period.Open))
}

// ClosePeriod closes a period, locking its submissions.
func (s *Service) ClosePeriod(ctx context.Context, id string) error {
	return errors.Trace(s.setStatus(ctx, id, period.Closed))
}

func (s *Service) setStatus(ctx context.Context, id string, status period.Status) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NotValidf("period uuid %q", id)
	}
	changed, err := s.st.SetStatus(ctx, id, status)
	if err != nil {
		return errors.Trace(err)
	}
	if changed {
		s.logger.Infof("reporting period %q is now %s", id, status)
	}
	return nil
}

// CurrentPeriod returns the open period containing now, or failing that
// the latest open period. If no period is open an error satisfying
// perioderrors.NoOpenPeriod is returned.
func (s *Service) CurrentPeriod(ctx context.Context, now time.Time) (period.Period, error) {
	open, err := s.st.ListOpenPeriods(ctx)
	if err != nil {
		return period.Period{}, errors.Trace(err)
	}
	if len(open) == 0 {
		return period.Period{}, errors.Trace(perioderrors.NoOpenPeriod)
	}
	for _, p := range open {
		if p.Contains(now) {
			return p, nil
		}
	}
	return open[0], nil
}

// CloseExpiredPeriods closes every open period whose end date is before
// now and returns their labels.
func (s *Service) CloseExpiredPeriods(ctx context.Context, now time.Time) ([]string, error) {
	open, err := s.st.ListOpenPeriods(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}

	var closed []string
	for _, p := range open {
		if !p.EndDate.Before(now) {
			continue
		}
		changed, err := s.st.SetStatus(ctx, p.UUID, period.Closed)
		if err != nil {
			return closed, errors.Annotatef(err, "closing period %s", p.Label())
		}
		if changed {
			closed = append(closed, p.Label())
		}
	}
	if len(closed) > 0 {
		s.logger.Infof("closed expired reporting periods %v", closed)
	}
	return closed, nil
}
