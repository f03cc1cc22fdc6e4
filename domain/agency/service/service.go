// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/logger"
	"github.com/agency-reporting/progreport/domain/agency"
)

// State describes retrieval and persistence methods for agencies.
type State interface {
	// CreateAgency inserts a new agency.
	CreateAgency(ctx context.Context, uuid string, args agency.CreateAgencyArgs, createdAt time.Time) error

	// GetAgency returns the agency with the given UUID.
	GetAgency(ctx context.Context, uuid string) (agency.Agency, error)

	// ListAgencies returns all agencies.
	ListAgencies(ctx context.Context) ([]agency.Agency, error)

	// UpdateAgency changes the name and abbreviation of an agency.
	UpdateAgency(ctx context.Context, uuid, name, abbreviation string) error
}

// Service provides the API for working with agencies.
type Service struct {
	st     State
	clock  clock.Clock
	logger logger.Logger
}

// NewService returns a new Service for interacting with agencies.
func NewService(st State, clock clock.Clock, logger logger.Logger) *Service {
	return &Service{
		st:     st,
		clock:  clock,
		logger: logger,
	}
}

// CreateAgency adds a new agency and returns its UUID.
func (s *Service) CreateAgency(ctx context.Context, args agency.CreateAgencyArgs) (string, error) {
	args.Name = strings.TrimSpace(args.Name)
	args.Abbreviation = strings.TrimSpace(args.Abbreviation)
	if args.Name == "" {
		return "", errors.NotValidf("empty agency name")
	}

	id := uuid.NewString()
	if err := s.st.CreateAgency(ctx, id, args, s.clock.Now()); err != nil {
		return "", errors.Trace(err)
	}
	s.logger.Infof("created agency %q (%s)", args.Name, id)
	return id, nil
}

// GetAgency returns the agency with the given UUID.
func (s *Service) GetAgency(ctx context.Context, id string) (agency.Agency, error) {
	if err := validateUUID(id); err != nil {
		return agency.Agency{}, errors.Trace(err)
	}
	a, err := s.st.GetAgency(ctx, id)
	return a, errors.Trace(err)
}

// ListAgencies returns every agency ordered by name.
func (s *Service) ListAgencies(ctx context.Context) ([]agency.Agency, error) {
	agencies, err := s.st.ListAgencies(ctx)
	return agencies, errors.Trace(err)
}

// UpdateAgency renames an agency.
func (s *Service) UpdateAgency(ctx context.Context, id string, args agency.CreateAgencyArgs) error {
	if err := validateUUID(id); err != nil {
		return errors.Trace(err)
	}
	name := strings.TrimSpace(args.Name)
	if name == "" {
		return errors.NotValidf("empty agency name")
	}
	return errors.Trace(s.st.UpdateAgency(ctx, id, name, strings.TrimSpace(args.Abbreviation)))
}

func validateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NotValidf("agency uuid %q", id)
	}
	return nil
}
