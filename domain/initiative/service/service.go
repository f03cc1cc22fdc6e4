// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/logger"
	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain/initiative"
	initiativeerrors "github.com/agency-reporting/progreport/domain/initiative/errors"
)

// State describes retrieval and persistence methods for initiatives.
type State interface {
	// CreateInitiative inserts a new initiative.
	CreateInitiative(ctx context.Context, uuid string, args initiative.InitiativeArgs, createdBy string, now time.Time) error

	// GetInitiative returns the initiative with the given UUID.
	GetInitiative(ctx context.Context, uuid string) (initiative.Initiative, error)

	// ListInitiatives returns initiatives, optionally only active ones.
	ListInitiatives(ctx context.Context, activeOnly bool) ([]initiative.Initiative, error)

	// UpdateInitiative replaces the writable fields of an initiative.
	UpdateInitiative(ctx context.Context, uuid string, args initiative.InitiativeArgs, now time.Time) error

	// DeleteInitiative removes an initiative, detaching its programs.
	DeleteInitiative(ctx context.Context, uuid string, now time.Time) error

	// AssignPrograms moves programs into an initiative in one transaction.
	AssignPrograms(ctx context.Context, uuid string, programs []string, now time.Time) (int, error)

	// UnassignPrograms detaches programs from an initiative in one
	// transaction.
	UnassignPrograms(ctx context.Context, uuid string, programs []string, now time.Time) (int, error)
}

// Service provides the API for working with initiatives.
type Service struct {
	st     State
	clock  clock.Clock
	logger logger.Logger
}

// NewService returns a new Service for interacting with initiatives.
func NewService(st State, clock clock.Clock, logger logger.Logger) *Service {
	return &Service{
		st:     st,
		clock:  clock,
		logger: logger,
	}
}

// CreateInitiative adds a new initiative on behalf of the principal and
// returns its UUID.
func (s *Service) CreateInitiative(ctx context.Context, principal coreuser.Principal, args initiative.InitiativeArgs) (string, error) {
	args = normalise(args)
	if err := args.Validate(); err != nil {
		return "", errors.Trace(err)
	}

	id := uuid.NewString()
	if err := s.st.CreateInitiative(ctx, id, args, principal.UUID, s.clock.Now()); err != nil {
		return "", errors.Trace(err)
	}
	s.logger.Infof("%s created initiative %q", principal.Name, args.Name)
	return id, nil
}

// GetInitiative returns the initiative with the given UUID.
func (s *Service) GetInitiative(ctx context.Context, id string) (initiative.Initiative, error) {
	if err := validateUUID(id); err != nil {
		return initiative.Initiative{}, errors.Trace(err)
	}
	i, err := s.st.GetInitiative(ctx, id)
	return i, errors.Trace(err)
}

// ListInitiatives returns the initiatives ordered by name.
func (s *Service) ListInitiatives(ctx context.Context, activeOnly bool) ([]initiative.Initiative, error) {
	initiatives, err := s.st.ListInitiatives(ctx, activeOnly)
	return initiatives, errors.Trace(err)
}

// UpdateInitiative replaces the writable fields of an initiative.
func (s *Service) UpdateInitiative(ctx context.Context, id string, args initiative.InitiativeArgs) error {
	if err := validateUUID(id); err != nil {
		return errors.Trace(err)
	}
	args = normalise(args)
	if err := args.Validate(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(s.st.UpdateInitiative(ctx, id, args, s.clock.Now()))
}

// DeleteInitiative removes an initiative. Its programs are kept and
// detached.
func (s *Service) DeleteInitiative(ctx context.Context, id string) error {
	if err := validateUUID(id); err != nil {
		return errors.Trace(err)
	}
	if err := s.st.DeleteInitiative(ctx, id, s.clock.Now()); err != nil {
		return errors.Trace(err)
	}
	s.logger.Infof("deleted initiative %q", id)
	return nil
}

// AssignPrograms moves the programs into the initiative. Duplicate program
// UUIDs are collapsed. If any program does not exist an error satisfying
// initiativeerrors.ProgramNotFound is returned and no program is changed.
// The number of programs whose initiative changed is returned.
func (s *Service) AssignPrograms(ctx context.Context, id string, programs []string) (int, error) {
	unique, err := s.prepareBulk(id, programs)
	if err != nil {
		return 0, errors.Trace(err)
	}
	n, err := s.st.AssignPrograms(ctx, id, unique, s.clock.Now())
	if err != nil {
		return 0, errors.Trace(err)
	}
	s.logger.Debugf("assigned %d of %d programs to initiative %q", n, len(unique), id)
	return n, nil
}

// UnassignPrograms detaches the programs from the initiative with the same
// all-or-nothing behaviour as AssignPrograms.
func (s *Service) UnassignPrograms(ctx context.Context, id string, programs []string) (int, error) {
	unique, err := s.prepareBulk(id, programs)
	if err != nil {
		return 0, errors.Trace(err)
	}
	n, err := s.st.UnassignPrograms(ctx, id, unique, s.clock.Now())
	if err != nil {
		return 0, errors.Trace(err)
	}
	s.logger.Debugf("unassigned %d of %d programs from initiative %q", n, len(unique), id)
	return n, nil
}

func (s *Service) prepareBulk(id string, programs []string) ([]string, error) {
	if err := validateUUID(id); err != nil {
		return nil, errors.Trace(err)
	}
	unique := set.NewStrings()
	for _, p := range programs {
		if p = strings.TrimSpace(p); p != "" {
			unique.Add(p)
		}
	}
	if unique.IsEmpty() {
		return nil, errors.NotValidf("empty program list")
	}
	for _, p := range unique.Values() {
		if _, err := uuid.Parse(p); err != nil {
			return nil, errors.Annotatef(initiativeerrors.ProgramNotFound, "%q", p)
		}
	}
	return unique.SortedValues(), nil
}

func normalise(args initiative.InitiativeArgs) initiative.InitiativeArgs {
	args.Name = strings.TrimSpace(args.Name)
	args.Number = strings.TrimSpace(args.Number)
	args.Description = strings.TrimSpace(args.Description)
	return args
}

func validateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NotValidf("initiative uuid %q", id)
	}
	return nil
}
