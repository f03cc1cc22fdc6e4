// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"github.com/juju/collections/transform"

	"github.com/agency-reporting/progreport/apiserver/params"
	"github.com/agency-reporting/progreport/domain/agency"
	"github.com/agency-reporting/progreport/domain/attachment"
	"github.com/agency-reporting/progreport/domain/audit"
	"github.com/agency-reporting/progreport/domain/initiative"
	"github.com/agency-reporting/progreport/domain/notification"
	"github.com/agency-reporting/progreport/domain/period"
	"github.com/agency-reporting/progreport/domain/program"
	"github.com/agency-reporting/progreport/domain/submission"
	"github.com/agency-reporting/progreport/domain/user"
)

func fromAgency(a agency.Agency) params.Agency {
	return params.Agency{
		UUID:         a.UUID,
		Name:         a.Name,
		Abbreviation: a.Abbreviation,
		CreatedAt:    a.CreatedAt,
	}
}

func fromUser(u user.User) params.User {
	return params.User{
		UUID:       u.UUID,
		Name:       u.Name,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       string(u.Role),
		AgencyUUID: u.AgencyUUID,
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}

func fromInitiative(i initiative.Initiative) params.Initiative {
	return params.Initiative{
		UUID:         i.UUID,
		Name:         i.Name,
		Number:       i.Number,
		Description:  i.Description,
		StartDate:    i.StartDate,
		EndDate:      i.EndDate,
		Active:       i.Active,
		CreatedBy:    i.CreatedBy,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
		ProgramCount: i.ProgramCount,
	}
}

func toInitiativeArgs(a params.InitiativeArgs) initiative.InitiativeArgs {
	return initiative.InitiativeArgs{
		Name:        a.Name,
		Number:      a.Number,
		Description: a.Description,
		StartDate:   a.StartDate,
		EndDate:     a.EndDate,
		Active:      a.Active,
	}
}

func fromProgram(p program.Program) params.Program {
	return params.Program{
		UUID:           p.UUID,
		Name:           p.Name,
		Number:         p.Number,
		Description:    p.Description,
		AgencyUUID:     p.AgencyUUID,
		AgencyName:     p.AgencyName,
		InitiativeUUID: p.InitiativeUUID,
		InitiativeName: p.InitiativeName,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProgramArgs(a params.ProgramArgs) program.ProgramArgs {
	return program.ProgramArgs{
		Name:           a.Name,
		Number:         a.Number,
		Description:    a.Description,
		AgencyUUID:     a.AgencyUUID,
		InitiativeUUID: a.InitiativeUUID,
		StartDate:      a.StartDate,
		EndDate:        a.EndDate,
	}
}

func fromPeriod(p period.Period) params.Period {
	return params.Period{
		UUID:      p.UUID,
		Label:     p.Label(),
		Year:      p.Year,
		Type:      string(p.Type),
		Number:    p.Number,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

func fromTarget(t submission.Target) params.Target {
	return params.Target{
		UUID:              t.UUID,
		Number:            t.Number,
		Description:       t.Description,
		StatusIndicator:   string(t.StatusIndicator),
		StatusDescription: t.StatusDescription,
		Remarks:           t.Remarks,
		StartDate:         t.StartDate,
		EndDate:           t.EndDate,
	}
}

func toTarget(t params.Target) submission.Target {
	return submission.Target{
		Number:            t.Number,
		Description:       t.Description,
		StatusIndicator:   submission.TargetStatus(t.StatusIndicator),
		StatusDescription: t.StatusDescription,
		Remarks:           t.Remarks,
		StartDate:         t.StartDate,
		EndDate:           t.EndDate,
	}
}

func fromSubmission(s submission.Submission) params.Submission {
	return params.Submission{
		UUID:         s.UUID,
		ProgramUUID:  s.ProgramUUID,
		ProgramName:  s.ProgramName,
		AgencyUUID:   s.AgencyUUID,
		PeriodUUID:   s.PeriodUUID,
		PeriodLabel:  s.PeriodLabel,
		PeriodStatus: string(s.PeriodStatus),
		IsDraft:      s.IsDraft,
		Status:       string(s.Status()),
		Description:  s.Description,
		SubmittedBy:  s.SubmittedBy,
		SubmittedAt:  s.SubmittedAt,
		UpdatedBy:    s.UpdatedBy,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Targets:      nonNil(transform.Slice(s.Targets, fromTarget)),
	}
}

func fromAttachment(a attachment.Attachment) params.Attachment {
	return params.Attachment{
		UUID:           a.UUID,
		SubmissionUUID: a.SubmissionUUID,
		FileName:       a.FileName,
		ContentType:    a.ContentType,
		Size:           a.Size,
		HumanSize:      a.HumanSize(),
		SHA256:         a.SHA256,
		UploadedBy:     a.UploadedBy,
		CreatedAt:      a.CreatedAt,
	}
}

func fromNotification(n notification.Notification) params.Notification {
	return params.Notification{
		UUID:      n.UUID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func fromAuditRecord(r audit.Record) params.AuditRecord {
	return params.AuditRecord{
		UUID:      r.UUID,
		UserUUID:  r.UserUUID,
		Action:    r.Action,
		Detail:    r.Detail,
		Outcome:   string(r.Outcome),
		CreatedAt: r.CreatedAt,
	}
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
