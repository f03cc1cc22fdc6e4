// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	loggertesting "github.com/agency-reporting/progreport/core/logger/testing"
	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain/attachment"
	attachmenterrors "github.com/agency-reporting/progreport/domain/attachment/errors"
	"github.com/agency-reporting/progreport/domain/period"
)

type serviceSuite struct {
	testing.IsolationSuite

	state   *MockState
	objects *MockObjectStore
	auditor *MockAuditor
	clock   *testclock.Clock
}

var _ = gc.Suite(&serviceSuite{})

const (
	health         = "11111111-1111-4111-8111-111111111111"
	water          = "22222222-2222-4222-8222-222222222222"
	submissionUUID = "55555555-5555-4555-8555-555555555555"
	attachmentUUID = "66666666-6666-4666-8666-666666666666"

	// sha256 of "hello"
	helloSum = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
)

var (
	admin = coreuser.Principal{UUID: "admin-uuid", Name: "admin", Role: coreuser.RoleAdmin}
	nurse = coreuser.Principal{UUID: "nurse-uuid", Name: "nurse", Role: coreuser.RoleAgency, AgencyUUID: health}
	diver = coreuser.Principal{UUID: "diver-uuid", Name: "diver", Role: coreuser.RoleFocal, AgencyUUID: water}

	openDraft = attachment.SubmissionOwner{AgencyUUID: health, IsDraft: true, PeriodStatus: period.Open}
)

func (s *serviceSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.state = NewMockState(ctrl)
	s.objects = NewMockObjectStore(ctrl)
	s.auditor = NewMockAuditor(ctrl)
	s.clock = testclock.NewClock(time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC))
	return ctrl
}

func (s *serviceSuite) service(c *gc.C, maxSize int64) *Service {
	return NewService(s.state, s.objects, s.auditor, maxSize, s.clock, loggertesting.WrapCheckLog(c))
}

func (s *serviceSuite) TestUpload(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.state.EXPECT().GetSubmissionOwner(gomock.Any(), submissionUUID).Return(openDraft, nil)
	var stored string
	s.objects.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), int64(5)).DoAndReturn(
		func(_ context.Context, key string, r io.Reader, _ int64) error {
			c.Check(strings.HasPrefix(key, "attachments/"), jc.IsTrue)
			data, err := io.ReadAll(r)
			c.Assert(err, jc.ErrorIsNil)
			stored = string(data)
			return nil
		})
	var recorded attachment.Attachment
	s.state.EXPECT().AddAttachment(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, a attachment.Attachment) error {
			recorded = a
			return nil
		})
	s.auditor.EXPECT().Log(gomock.Any(), "nurse-uuid", "attachment.upload", gomock.Any(), gomock.Nil()).Return(nil)

	a, err := s.service(c, 0).Upload(context.Background(), nurse, submissionUUID, `C:\reports\q2.pdf`, "application/pdf", strings.NewReader("hello"))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(stored, gc.Equals, "hello")
	c.Check(a, jc.DeepEquals, recorded)
	c.Check(a.FileName, gc.Equals, "q2.pdf")
	c.Check(a.ContentType, gc.Equals, "application/pdf")
	c.Check(a.Size, gc.Equals, int64(5))
	c.Check(a.SHA256, gc.Equals, helloSum)
	c.Check(a.ObjectKey, gc.Equals, "attachments/"+a.UUID)
	c.Check(a.UploadedBy, gc.Equals, nurse.UUID)
	c.Check(a.CreatedAt.Equal(s.clock.Now()), jc.IsTrue)
}

func (s *serviceSuite) TestUploadTooLarge(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.state.EXPECT().GetSubmissionOwner(gomock.Any(), submissionUUID).Return(openDraft, nil)
	s.auditor.EXPECT().Log(gomock.Any(), gomock.Any(), "attachment.upload", gomock.Any(), gomock.Not(gomock.Nil())).Return(nil)

	_, err := s.service(c, 4).Upload(context.Background(), nurse, submissionUUID, "big.bin", "", strings.NewReader("hello"))
	c.Assert(err, jc.ErrorIs, attachmenterrors.TooLarge)
	c.Check(err, gc.ErrorMatches, `"big.bin" exceeds 4 B: attachment too large`)
}

func (s *serviceSuite) TestUploadExactlyMaxSize(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.state.EXPECT().GetSubmissionOwner(gomock.Any(), submissionUUID).Return(openDraft, nil)
	s.objects.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), int64(5)).Return(nil)
	s.state.EXPECT().AddAttachment(gomock.Any(), gomock.Any()).Return(nil)
	s.auditor.EXPECT().Log(gomock.Any(), gomock.Any(), "attachment.upload", gomock.Any(), gomock.Nil()).Return(nil)

	a, err := s.service(c, 5).Upload(context.Background(), nurse, submissionUUID, "f.txt", "", strings.NewReader("hello"))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(a.ContentType, gc.Equals, "application/octet-stream")
}

func (s *serviceSuite) TestUploadMetadataFailureRemovesObject(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.state.EXPECT().GetSubmissionOwner(gomock.Any(), submissionUUID).Return(openDraft, nil)
	var key string
	s.objects.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), int64(5)).DoAndReturn(
		func(_ context.Context, k string, _ io.Reader, _ int64) error {
			key = k
			return nil
		})
	s.state.EXPECT().AddAttachment(gomock.Any(), gomock.Any()).Return(attachmenterrors.SubmissionNotDraft)
	s.objects.EXPECT().Remove(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, k string) error {
			c.Check(k, gc.Equals, key)
			return nil
		})
	s.auditor.EXPECT().Log(gomock.Any(), gomock.Any(), "attachment.upload", gomock.Any(), gomock.Not(gomock.Nil())).Return(nil)

	_, err := s.service(c, 0).Upload(context.Background(), nurse, submissionUUID, "f.txt", "", strings.NewReader("hello"))
	c.Assert(err, jc.ErrorIs, attachmenterrors.SubmissionNotDraft)
}

func (s *serviceSuite) TestUploadOtherAgencyForbidden(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.state.EXPECT().GetSubmissionOwner(gomock.Any(), submissionUUID).Return(openDraft, nil)

	_, err := s.service(c, 0).Upload(context.Background(), diver, submissionUUID, "f.txt", "", strings.NewReader("x"))
	c.Assert(err, jc.ErrorIs, errors.Forbidden)
}

func (s *serviceSuite) TestUploadFinalized(c *gc.C) {
	defer s.setupMocks(c).Finish()

	owner := openDraft
	owner.IsDraft = false
	s.state.EXPECT().GetSubmissionOwner(gomock.Any(), submissionUUID).Return(owner, nil)

	_, err := s.service(c, 0).Upload(context.Background(), admin, submissionUUID, "f.txt", "", strings.NewReader("x"))
	c.Assert(err, jc.ErrorIs, attachmenterrors.SubmissionNotDraft)
}

func (s *serviceSuite) TestUploadClosedPeriod(c *gc.C) {
	defer s.setupMocks(c).Finish()

	owner := openDraft
	owner.PeriodStatus = period.Closed
	s.state.EXPECT().GetSubmissionOwner(gomock.Any(), submissionUUID).Return(owner, nil)

	_, err := s.service(c, 0).Upload(context.Background(), nurse, submissionUUID, "f.txt", "", strings.NewReader("x"))
	c.Assert(err, jc.ErrorIs, attachmenterrors.PeriodClosed)
}

func (s *serviceSuite) TestUploadInvalidInput(c *gc.C) {
	defer s.setupMocks(c).Finish()

	svc := s.service(c, 0)
	_, err := svc.Upload(context.Background(), nurse, "nope", "f.txt", "", strings.NewReader("x"))
	c.Check(err, jc.ErrorIs, errors.NotValid)
	_, err = svc.Upload(context.Background(), nurse, submissionUUID, "  ", "", strings.NewReader("x"))
	c.Check(err, jc.ErrorIs, errors.NotValid)
	_, err = svc.Upload(context.Background(), nurse, submissionUUID, "f.txt", "not a type;;", strings.NewReader("x"))
	c.Check(err, jc.ErrorIs, errors.NotValid)
}

func (s *serviceSuite) TestList(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.state.EXPECT().GetSubmissionOwner(gomock.Any(), submissionUUID).Return(openDraft, nil)
	s.state.EXPECT().ListAttachments(gomock.Any(), submissionUUID).Return([]attachment.Attachment{{UUID: attachmentUUID}}, nil)

	list, err := s.service(c, 0).List(context.Background(), nurse, submissionUUID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(list, gc.HasLen, 1)
}

func (s *serviceSuite) TestListOtherAgencyForbidden(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.state.EXPECT().GetSubmissionOwner(gomock.Any(), submissionUUID).Return(openDraft, nil)

	_, err := s.service(c, 0).List(context.Background(), diver, submissionUUID)
	c.Assert(err, jc.ErrorIs, errors.Forbidden)
}

func (s *serviceSuite) TestOpen(c *gc.C) {
	defer s.setupMocks(c).Finish()

	a := attachment.Attachment{UUID: attachmentUUID, ObjectKey: "attachments/" + attachmentUUID}
	s.state.EXPECT().GetAttachment(gomock.Any(), attachmentUUID).Return(a, openDraft, nil)
	s.objects.EXPECT().Get(gomock.Any(), a.ObjectKey).Return(io.NopCloser(strings.NewReader("hello")), nil)

	got, r, err := s.service(c, 0).Open(context.Background(), admin, attachmentUUID)
	c.Assert(err, jc.ErrorIsNil)
	defer r.Close()
	c.Check(got, jc.DeepEquals, a)
	data, err := io.ReadAll(r)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), gc.Equals, "hello")
}

func (s *serviceSuite) TestOpenOtherAgencyForbidden(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.state.EXPECT().GetAttachment(gomock.Any(), attachmentUUID).Return(attachment.Attachment{}, openDraft, nil)

	_, _, err := s.service(c, 0).Open(context.Background(), diver, attachmentUUID)
	c.Assert(err, jc.ErrorIs, errors.Forbidden)
}

func (s *serviceSuite) TestDelete(c *gc.C) {
	defer s.setupMocks(c).Finish()

	a := attachment.Attachment{UUID: attachmentUUID, FileName: "f.txt", ObjectKey: "attachments/" + attachmentUUID}
	s.state.EXPECT().GetAttachment(gomock.Any(), attachmentUUID).Return(a, openDraft, nil)
	s.state.EXPECT().DeleteAttachment(gomock.Any(), attachmentUUID).Return(a.ObjectKey, nil)
	s.objects.EXPECT().Remove(gomock.Any(), a.ObjectKey).Return(errors.New("already gone"))
	s.auditor.EXPECT().Log(gomock.Any(), "nurse-uuid", "attachment.delete", gomock.Any(), gomock.Nil()).Return(nil)

	err := s.service(c, 0).Delete(context.Background(), nurse, attachmentUUID)
	c.Assert(err, jc.ErrorIsNil)
}

func (s *serviceSuite) TestDeleteFinalized(c *gc.C) {
	defer s.setupMocks(c).Finish()

	owner := openDraft
	owner.IsDraft = false
	s.state.EXPECT().GetAttachment(gomock.Any(), attachmentUUID).Return(attachment.Attachment{}, owner, nil)

	err := s.service(c, 0).Delete(context.Background(), nurse, attachmentUUID)
	c.Assert(err, jc.ErrorIs, attachmenterrors.SubmissionNotDraft)
}
