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
	"github.com/agency-reporting/progreport/domain/period"
	"github.com/agency-reporting/progreport/domain/submission"
	submissionerrors "github.com/agency-reporting/progreport/domain/submission/errors"
)

// State describes retrieval and persistence methods for submissions.
type State interface {
	// GetProgramPeriod returns the owner of the program and the status of
	// the period.
	GetProgramPeriod(ctx context.Context, programUUID, periodUUID string) (submission.ProgramPeriod, error)

	// SaveDraft creates or updates the draft for the program and period,
	// replacing its targets, and returns the submission UUID.
	SaveDraft(ctx context.Context, uuid string, args submission.SaveDraftArgs, updatedBy string, now time.Time) (string, error)

	// GetSubmission returns the submission with its targets.
	GetSubmission(ctx context.Context, uuid string) (submission.Submission, error)

	// GetSubmissionFor returns the submission for the program and period.
	GetSubmissionFor(ctx context.Context, programUUID, periodUUID string) (submission.Submission, error)

	// ListSubmissions returns the submissions matching the filter.
	ListSubmissions(ctx context.Context, filter submission.Filter) ([]submission.Submission, error)

	// Finalize marks a draft as submitted.
	Finalize(ctx context.Context, uuid, submittedBy string, now time.Time) error

	// ReturnToDraft turns a finalized submission back into a draft.
	ReturnToDraft(ctx context.Context, uuid, updatedBy string, now time.Time) error

	// DeleteSubmission removes a draft and returns the object keys of its
	// attachments.
	DeleteSubmission(ctx context.Context, uuid string) ([]string, error)

	// ListLegacyContent returns the submissions holding legacy content.
	ListLegacyContent(ctx context.Context) ([]submission.LegacyContent, error)

	// ImportLegacyContent replaces legacy content with targets.
	ImportLegacyContent(ctx context.Context, uuid, description string, targets []submission.Target) error

	// DiscardLegacyContent clears legacy content.
	DiscardLegacyContent(ctx context.Context, uuid string) error
}

// Notifier sends notifications about submission changes.
type Notifier interface {
	NotifyAgency(ctx context.Context, agencyUUID string, kind notification.Kind, message, link string) error
	NotifyAdmins(ctx context.Context, kind notification.Kind, message, link string) error
}

// ObjectRemover removes stored attachment content.
type ObjectRemover interface {
	Remove(ctx context.Context, key string) error
}

// Auditor records auditable actions.
type Auditor interface {
	Log(ctx context.Context, userUUID, action, detail string, actionErr error) error
}

// Service provides the API for working with submissions.
type Service struct {
	st       State
	notifier Notifier
	objects  ObjectRemover
	auditor  Auditor
	clock    clock.Clock
	logger   logger.Logger
}

// NewService returns a new Service for interacting with submissions.
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

// SaveDraft creates or updates the draft submission for a program and
// period. Administrators and agency users of the owning agency may save
// drafts; agency users only while the period is open.
func (s *Service) SaveDraft(ctx context.Context, principal coreuser.Principal, args submission.SaveDraftArgs) (_ submission.Submission, err error) {
	if err := validateUUID("program", args.ProgramUUID); err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	if err := validateUUID("period", args.PeriodUUID); err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	args, err = normaliseDraft(args)
	if err != nil {
		return submission.Submission{}, errors.Trace(err)
	}

	pp, err := s.st.GetProgramPeriod(ctx, args.ProgramUUID, args.PeriodUUID)
	if err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	if !principal.CanManageAgency(pp.AgencyUUID) {
		return submission.Submission{}, errors.Forbiddenf("editing submissions of program %q", pp.ProgramName)
	}
	if !principal.IsAdmin() && pp.PeriodStatus != period.Open {
		return submission.Submission{}, errors.Annotatef(submissionerrors.PeriodClosed, "%s", pp.PeriodLabel)
	}

	defer func() {
		s.audit(ctx, principal, "submission.save-draft", fmt.Sprintf("program %s period %s", args.ProgramUUID, pp.PeriodLabel), err)
	}()

	id, err := s.st.SaveDraft(ctx, uuid.NewString(), args, principal.UUID, s.clock.Now())
	if err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	s.logger.Debugf("%s saved draft %q for %q %s", principal.Name, id, pp.ProgramName, pp.PeriodLabel)

	sub, err := s.st.GetSubmission(ctx, id)
	return sub, errors.Trace(err)
}

// Finalize submits a draft. Only administrators and focal users of the
// owning agency may finalize, focal users only while the period is open.
// Every target needs a description and a known status. Administrators are
// notified.
func (s *Service) Finalize(ctx context.Context, principal coreuser.Principal, id string) (err error) {
	sub, err := s.getForTransition(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	if !principal.CanFinalizeFor(sub.AgencyUUID) {
		return errors.Forbiddenf("finalizing submissions of program %q", sub.ProgramName)
	}
	if !sub.IsDraft {
		return errors.Annotatef(submissionerrors.NotDraft, "%q", id)
	}
	if !principal.IsAdmin() && sub.PeriodStatus != period.Open {
		return errors.Annotatef(submissionerrors.PeriodClosed, "%s", sub.PeriodLabel)
	}
	if err := sub.ValidateComplete(); err != nil {
		return errors.Trace(err)
	}

	defer func() {
		s.audit(ctx, principal, "submission.finalize", describe(sub), err)
	}()

	if err := s.st.Finalize(ctx, id, principal.UUID, s.clock.Now()); err != nil {
		return errors.Trace(err)
	}
	s.logger.Infof("%s finalized %s", principal.Name, describe(sub))

	message := fmt.Sprintf("%s submission for %s was finalized by %s", sub.ProgramName, sub.PeriodLabel, principal.Name)
	if nerr := s.notifier.NotifyAdmins(ctx, notification.SubmissionFinalized, message, link(id)); nerr != nil {
		s.logger.Warningf("notifying administrators of finalized submission %q: %v", id, nerr)
	}
	return nil
}

// Unsubmit withdraws a finalized submission back to draft while its period
// is open. Focal users may only withdraw their own agency's submissions.
// Administrators are notified.
func (s *Service) Unsubmit(ctx context.Context, principal coreuser.Principal, id string) (err error) {
	sub, err := s.getForTransition(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	if !principal.CanFinalizeFor(sub.AgencyUUID) {
		return errors.Forbiddenf("unsubmitting submissions of program %q", sub.ProgramName)
	}
	if sub.IsDraft {
		return errors.Annotatef(submissionerrors.NotFinalized, "%q", id)
	}
	if sub.PeriodStatus != period.Open {
		return errors.Annotatef(submissionerrors.PeriodClosed, "%s", sub.PeriodLabel)
	}

	defer func() {
		s.audit(ctx, principal, "submission.unsubmit", describe(sub), err)
	}()

	if err := s.st.ReturnToDraft(ctx, id, principal.UUID, s.clock.Now()); err != nil {
		return errors.Trace(err)
	}
	s.logger.Infof("%s unsubmitted %s", principal.Name, describe(sub))

	message := fmt.Sprintf("%s submission for %s was withdrawn by %s", sub.ProgramName, sub.PeriodLabel, principal.Name)
	if nerr := s.notifier.NotifyAdmins(ctx, notification.SubmissionUnsubmitted, message, link(id)); nerr != nil {
		s.logger.Warningf("notifying administrators of unsubmitted submission %q: %v", id, nerr)
	}
	return nil
}

// Reopen returns a finalized submission to its agency as a draft, whatever
// the state of its period. Only administrators may reopen submissions, and
// they must give a reason, which is sent to the agency's users.
func (s *Service) Reopen(ctx context.Context, principal coreuser.Principal, id, reason string) (err error) {
	if !principal.IsAdmin() {
		return errors.Forbiddenf("reopening submissions")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errors.NotValidf("empty reopen reason")
	}
	sub, err := s.getForTransition(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	if sub.IsDraft {
		return errors.Annotatef(submissionerrors.NotFinalized, "%q", id)
	}

	defer func() {
		s.audit(ctx, principal, "submission.reopen", describe(sub)+": "+reason, err)
	}()

	if err := s.st.ReturnToDraft(ctx, id, principal.UUID, s.clock.Now()); err != nil {
		return errors.Trace(err)
	}
	s.logger.Infof("%s reopened %s: %s", principal.Name, describe(sub), reason)

	message := fmt.Sprintf("%s submission for %s was reopened: %s", sub.ProgramName, sub.PeriodLabel, reason)
	if nerr := s.notifier.NotifyAgency(ctx, sub.AgencyUUID, notification.SubmissionReopened, message, link(id)); nerr != nil {
		s.logger.Warningf("notifying agency %q of reopened submission %q: %v", sub.AgencyUUID, id, nerr)
	}
	return nil
}

// DeleteSubmission removes a draft submission with its targets and
// attachments.
func (s *Service) DeleteSubmission(ctx context.Context, principal coreuser.Principal, id string) (err error) {
	sub, err := s.getForTransition(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	if !principal.CanManageAgency(sub.AgencyUUID) {
		return errors.Forbiddenf("deleting submissions of program %q", sub.ProgramName)
	}
	if !sub.IsDraft {
		return errors.Annotatef(submissionerrors.NotDraft, "%q", id)
	}

	defer func() {
		s.audit(ctx, principal, "submission.delete", describe(sub), err)
	}()

	keys, err := s.st.DeleteSubmission(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	for _, key := range keys {
		if rerr := s.objects.Remove(ctx, key); rerr != nil {
			s.logger.Warningf("removing attachment object %q of deleted submission %q: %v", key, id, rerr)
		}
	}
	s.logger.Infof("%s deleted %s", principal.Name, describe(sub))
	return nil
}

// GetSubmission returns the submission with its targets. Agency users can
// only see their own agency's submissions.
func (s *Service) GetSubmission(ctx context.Context, principal coreuser.Principal, id string) (submission.Submission, error) {
	if err := validateUUID("submission", id); err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	sub, err := s.st.GetSubmission(ctx, id)
	if err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	if !principal.CanManageAgency(sub.AgencyUUID) {
		return submission.Submission{}, errors.Forbiddenf("submission %q", id)
	}
	return sub, nil
}

// GetSubmissionFor returns the submission filed for a program and period.
func (s *Service) GetSubmissionFor(ctx context.Context, principal coreuser.Principal, programUUID, periodUUID string) (submission.Submission, error) {
	if err := validateUUID("program", programUUID); err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	if err := validateUUID("period", periodUUID); err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	pp, err := s.st.GetProgramPeriod(ctx, programUUID, periodUUID)
	if err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	if !principal.CanManageAgency(pp.AgencyUUID) {
		return submission.Submission{}, errors.Forbiddenf("submissions of program %q", pp.ProgramName)
	}
	sub, err := s.st.GetSubmissionFor(ctx, programUUID, periodUUID)
	return sub, errors.Trace(err)
}

// ListSubmissions returns the submissions matching the filter. Agency users
// are restricted to their own agency whatever the filter says.
func (s *Service) ListSubmissions(ctx context.Context, principal coreuser.Principal, filter submission.Filter) ([]submission.Submission, error) {
	if err := filter.Status.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if !principal.IsAdmin() {
		filter.AgencyUUID = principal.AgencyUUID
	}
	subs, err := s.st.ListSubmissions(ctx, filter)
	return subs, errors.Trace(err)
}

// ImportLegacyContent moves the legacy content_json reports into targets.
// Submissions that already have targets keep them and lose the legacy
// content. Content that cannot be parsed is left in place and counted as
// failed.
func (s *Service) ImportLegacyContent(ctx context.Context) (submission.ImportResult, error) {
	legacy, err := s.st.ListLegacyContent(ctx)
	if err != nil {
		return submission.ImportResult{}, errors.Trace(err)
	}

	var result submission.ImportResult
	for _, l := range legacy {
		if l.HasTargets {
			if err := s.st.DiscardLegacyContent(ctx, l.SubmissionUUID); err != nil {
				return result, errors.Trace(err)
			}
			result.Skipped++
			continue
		}

		parsed, err := submission.ParseLegacyContent(l.ContentJSON)
		if err != nil {
			s.logger.Warningf("legacy content of submission %q: %v", l.SubmissionUUID, err)
			result.Failed++
			continue
		}
		for i := range parsed.Targets {
			parsed.Targets[i].UUID = uuid.NewString()
		}
		if err := s.st.ImportLegacyContent(ctx, l.SubmissionUUID, parsed.Description, parsed.Targets); err != nil {
			return result, errors.Trace(err)
		}
		result.Converted++
	}
	s.logger.Infof("legacy import: %d converted, %d skipped, %d failed", result.Converted, result.Skipped, result.Failed)
	return result, nil
}

func (s *Service) getForTransition(ctx context.Context, id string) (submission.Submission, error) {
	if err := validateUUID("submission", id); err != nil {
		return submission.Submission{}, errors.Trace(err)
	}
	sub, err := s.st.GetSubmission(ctx, id)
	return sub, errors.Trace(err)
}

func (s *Service) audit(ctx context.Context, principal coreuser.Principal, action, detail string, err error) {
	if aerr := s.auditor.Log(ctx, principal.UUID, action, detail, err); aerr != nil {
		s.logger.Warningf("auditing %s: %v", action, aerr)
	}
}

func normaliseDraft(args submission.SaveDraftArgs) (submission.SaveDraftArgs, error) {
	args.Description = strings.TrimSpace(args.Description)
	targets := make([]submission.Target, 0, len(args.Targets))
	for i, t := range args.Targets {
		t.UUID = uuid.NewString()
		t.Number = strings.TrimSpace(t.Number)
		t.Description = strings.TrimSpace(t.Description)
		t.StatusDescription = strings.TrimSpace(t.StatusDescription)
		t.Remarks = strings.TrimSpace(t.Remarks)
		if t.StatusIndicator == "" {
			t.StatusIndicator = submission.NotStarted
		}
		if err := t.StatusIndicator.Validate(); err != nil {
			return args, errors.Annotatef(err, "target %d", i+1)
		}
		if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
			return args, errors.NotValidf("target %d end date before start date", i+1)
		}
		targets = append(targets, t)
	}
	args.Targets = targets
	return args, nil
}

func describe(sub submission.Submission) string {
	return fmt.Sprintf("submission %s (%s %s)", sub.UUID, sub.ProgramName, sub.PeriodLabel)
}

func link(id string) string {
	return "/submissions/" + id
}

func validateUUID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NotValidf("%s uuid %q", kind, id)
	}
	return nil
}
