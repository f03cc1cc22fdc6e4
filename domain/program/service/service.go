// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/logger"
	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain/notification"
	"github.com/agency-reporting/progreport/domain/program"
)

// State describes retrieval and persistence methods for programs.
type State interface {
	// CreateProgram inserts a program and returns the number it was
	// stored with.
	CreateProgram(ctx context.Context, uuid string, args program.ProgramArgs, createdBy string, now time.Time) (string, error)

	// GetProgram returns the program with the given UUID.
	GetProgram(ctx context.Context, uuid string) (program.Program, error)

	// ListPrograms returns the programs matching the filter.
	ListPrograms(ctx context.Context, filter program.Filter) ([]program.Program, error)

	// UpdateProgram replaces the writable fields of a program.
	UpdateProgram(ctx context.Context, uuid string, args program.ProgramArgs, now time.Time) error

	// DeleteProgram removes a program and returns the object keys of its
	// attachments.
	DeleteProgram(ctx context.Context, uuid string) ([]string, error)

	// ReassignProgram moves a program to another agency and returns the
	// previous owner.
	ReassignProgram(ctx context.Context, uuid, agencyUUID string, now time.Time) (string, error)
}

// Notifier sends notifications to the users of an agency.
type Notifier interface {
	NotifyAgency(ctx context.Context, agencyUUID string, kind notification.Kind, message, link string) error
}

// ObjectRemover removes stored attachment content.
type ObjectRemover interface {
	Remove(ctx context.Context, key string) error
}

// Auditor records auditable actions.
type Auditor interface {
	Log(ctx context.Context, userUUID, action, detail string, actionErr error) error
}

// Service provides the API for working with programs.
type Service struct {
	st       State
	notifier Notifier
	objects  ObjectRemover
	auditor  Auditor
	clock    clock.Clock
	logger   logger.Logger
}

// NewService returns a new Service for interacting with programs.
func NewService(
	st State,
	notifier Notifier,
	objects ObjectRemover,
	auditor Auditor,
	clock clock.Clock,
	logger logger.Logger,
) *Service {
	return &Service{
		st:       st,
		notifier: notifier,
		objects:  objects,
		auditor:  auditor,
		clock:    clock,
		logger:   logger,
	}
}

// CreateProgram adds a program and returns its UUID. Administrators may
// create programs for any agency, agency users only for their own. Agency
// users that omit the agency create the program for their own agency.
func (s *Service) CreateProgram(ctx context.Context, principal coreuser.Principal, args program.ProgramArgs) (string, error) {
	args = normalise(args)
	if args.AgencyUUID == "" && principal.IsAgency() {
		args.AgencyUUID = principal.AgencyUUID
	}
	if err := args.Validate(); err != nil {
		return "", errors.Trace(err)
	}
	if !principal.CanManageAgency(args.AgencyUUID) {
		return "", errors.Forbiddenf("creating programs for agency %q", args.AgencyUUID)
	}

	id := uuid.NewString()
	number, err := s.st.CreateProgram(ctx, id, args, principal.UUID, s.clock.Now())
	if err != nil {
		return "", errors.Trace(err)
	}
	s.logger.Infof("%s created program %s %q", principal.Name, number, args.Name)
	return id, nil
}

// GetProgram returns the program with the given UUID. Agency users can only
// see their own agency's programs.
func (s *Service) GetProgram(ctx context.Context, principal coreuser.Principal, id string) (program.Program, error) {
	if err := validateUUID(id); err != nil {
		return program.Program{}, errors.Trace(err)
	}
	p, err := s.st.GetProgram(ctx, id)
	if err != nil {
		return program.Program{}, errors.Trace(err)
	}
	if !principal.CanManageAgency(p.AgencyUUID) {
		return program.Program{}, errors.Forbiddenf("program %q", id)
	}
	return p, nil
}

// ListPrograms returns the programs matching the filter. Agency users are
// restricted to their own agency whatever the filter says.
func (s *Service) ListPrograms(ctx context.Context, principal coreuser.Principal, filter program.Filter) ([]program.Program, error) {
	if !principal.IsAdmin() {
		filter.AgencyUUID = principal.AgencyUUID
	}
	programs, err := s.st.ListPrograms(ctx, filter)
	return programs, errors.Trace(err)
}

// UpdateProgram replaces the writable fields of a program, under the same
// authorization as CreateProgram.
func (s *Service) UpdateProgram(ctx context.Context, principal coreuser.Principal, id string, args program.ProgramArgs) error {
	current, err := s.GetProgram(ctx, principal, id)
	if err != nil {
		return errors.Trace(err)
	}

	args = normalise(args)
	args.AgencyUUID = current.AgencyUUID
	if args.Number == "" {
		args.Number = current.Number
	}
	if err := args.Validate(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(s.st.UpdateProgram(ctx, id, args, s.clock.Now()))
}

// DeleteProgram removes a program with its draft submissions. Only
// administrators may delete programs, and never while the program has
// finalized submissions.
func (s *Service) DeleteProgram(ctx context.Context, principal coreuser.Principal, id string) (err error) {
	if !principal.IsAdmin() {
		return errors.Forbiddenf("deleting programs")
	}
	if err := validateUUID(id); err != nil {
		return errors.Trace(err)
	}
	defer func() {
		s.audit(ctx, principal, "program.delete", id, err)
	}()

	keys, err := s.st.DeleteProgram(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	for _, key := range keys {
		if rerr := s.objects.Remove(ctx, key); rerr != nil {
			s.logger.Warningf("removing attachment object %q of deleted program %q: %v", key, id, rerr)
		}
	}
	s.logger.Infof("%s deleted program %q", principal.Name, id)
	return nil
}

// ReassignProgram moves a program to another agency. Both the previous and
// the new agency are notified.
func (s *Service) ReassignProgram(ctx context.Context, principal coreuser.Principal, id, agencyUUID string) (err error) {
	if !principal.IsAdmin() {
		return errors.Forbiddenf("reassigning programs")
	}
	if err := validateUUID(id); err != nil {
		return errors.Trace(err)
	}
	defer func() {
		s.audit(ctx, principal, "program.reassign", fmt.Sprintf("%s to agency %s", id, agencyUUID), err)
	}()

	previous, err := s.st.ReassignProgram(ctx, id, agencyUUID, s.clock.Now())
	if err != nil {
		return errors.Trace(err)
	}
	if previous == agencyUUID {
		return nil
	}

	p, err := s.st.GetProgram(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	link := "/programs/" + id
	for agency, message := range map[string]string{
		previous:   fmt.Sprintf("Program %s %q was reassigned to %s", p.Number, p.Name, p.AgencyName),
		agencyUUID: fmt.Sprintf("Program %s %q was assigned to your agency", p.Number, p.Name),
	} {
		if nerr := s.notifier.NotifyAgency(ctx, agency, notification.ProgramReassigned, message, link); nerr != nil {
			s.logger.Warningf("notifying agency %q of program reassignment: %v", agency, nerr)
		}
	}
	return nil
}

func (s *Service) audit(ctx context.Context, principal coreuser.Principal, action, detail string, err error) {
	if aerr := s.auditor.Log(ctx, principal.UUID, action, detail, err); aerr != nil {
		s.logger.Warningf("auditing %s: %v", action, aerr)
	}
}

func normalise(args program.ProgramArgs) program.ProgramArgs {
	args.Name = strings.TrimSpace(args.Name)
	args.Number = strings.TrimSpace(args.Number)
	args.Description = strings.TrimSpace(args.Description)
	return args
}

func validateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NotValidf("program uuid %q", id)
	}
	return nil
}
