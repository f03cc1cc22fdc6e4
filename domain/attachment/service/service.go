// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/logger"
	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain/attachment"
	attachmenterrors "github.com/agency-reporting/progreport/domain/attachment/errors"
	"github.com/agency-reporting/progreport/domain/period"
)

// DefaultMaxSize is the upload limit used when none is configured.
const DefaultMaxSize = 10 * humanize.MiByte

// State describes retrieval and persistence methods for attachments.
type State interface {
	// GetSubmissionOwner returns the owner and state of a submission.
	GetSubmissionOwner(ctx context.Context, submissionUUID string) (attachment.SubmissionOwner, error)

	// AddAttachment records an attachment of a draft submission.
	AddAttachment(ctx context.Context, a attachment.Attachment) error

	// GetAttachment returns an attachment and the owner of its
	// submission.
	GetAttachment(ctx context.Context, uuid string) (attachment.Attachment, attachment.SubmissionOwner, error)

	// ListAttachments returns the attachments of a submission.
	ListAttachments(ctx context.Context, submissionUUID string) ([]attachment.Attachment, error)

	// DeleteAttachment removes an attachment and returns its object key.
	DeleteAttachment(ctx context.Context, uuid string) (string, error)
}

// ObjectStore holds attachment content.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// Auditor records auditable actions.
type Auditor interface {
	Log(ctx context.Context, userUUID, action, detail string, actionErr error) error
}

// Service provides the API for working with attachments.
type Service struct {
	st      State
	objects ObjectStore
	auditor Auditor
	maxSize int64
	clock   clock.Clock
	logger  logger.Logger
}

// NewService returns a new Service for interacting with attachments.
// Uploads larger than maxSize bytes are refused; a non-positive maxSize
// selects DefaultMaxSize.
func NewService(
	st State,
	objects ObjectStore,
	auditor Auditor,
	maxSize int64,
	clock clock.Clock,
	logger logger.Logger,
) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Service{
		st:      st,
		objects: objects,
		auditor: auditor,
		maxSize: maxSize,
		clock:   clock,
		logger:  logger,
	}
}

// Upload stores a file for a draft submission. The same users that may
// edit the draft may upload to it. The content is written to the object
// store before the metadata is recorded, and removed again if recording
// fails.
func (s *Service) Upload(
	ctx context.Context,
	principal coreuser.Principal,
	submissionUUID, fileName, contentType string,
	r io.Reader,
) (_ attachment.Attachment, err error) {
	if err := validateUUID("submission", submissionUUID); err != nil {
		return attachment.Attachment{}, errors.Trace(err)
	}
	fileName, err = cleanFileName(fileName)
	if err != nil {
		return attachment.Attachment{}, errors.Trace(err)
	}
	contentType, err = cleanContentType(contentType)
	if err != nil {
		return attachment.Attachment{}, errors.Trace(err)
	}

	owner, err := s.st.GetSubmissionOwner(ctx, submissionUUID)
	if err != nil {
		return attachment.Attachment{}, errors.Trace(err)
	}
	if err := s.checkWritable(principal, owner); err != nil {
		return attachment.Attachment{}, errors.Trace(err)
	}

	defer func() {
		s.audit(ctx, principal, "attachment.upload", fmt.Sprintf("%s on submission %s", fileName, submissionUUID), err)
	}()

	var buf bytes.Buffer
	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(&buf, hash), io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return attachment.Attachment{}, errors.Annotate(err, "reading upload")
	}
	if size > s.maxSize {
		return attachment.Attachment{}, errors.Annotatef(attachmenterrors.TooLarge, "%q exceeds %s", fileName, humanize.IBytes(uint64(s.maxSize)))
	}

	id := uuid.NewString()
	a := attachment.Attachment{
		UUID:           id,
		SubmissionUUID: submissionUUID,
		FileName:       fileName,
		ContentType:    contentType,
		Size:           size,
		SHA256:         hex.EncodeToString(hash.Sum(nil)),
		ObjectKey:      attachment.ObjectKey(id),
		UploadedBy:     principal.UUID,
		CreatedAt:      s.clock.Now().UTC(),
	}
	if err := s.objects.Put(ctx, a.ObjectKey, &buf, size); err != nil {
		return attachment.Attachment{}, errors.Annotatef(err, "storing %q", fileName)
	}
	if err := s.st.AddAttachment(ctx, a); err != nil {
		if rerr := s.objects.Remove(ctx, a.ObjectKey); rerr != nil {
			s.logger.Warningf("removing object %q of failed upload: %v", a.ObjectKey, rerr)
		}
		return attachment.Attachment{}, errors.Trace(err)
	}
	s.logger.Infof("%s uploaded %q (%s) to submission %q", principal.Name, fileName, a.HumanSize(), submissionUUID)
	return a, nil
}

// List returns the attachments of a submission visible to the principal.
func (s *Service) List(ctx context.Context, principal coreuser.Principal, submissionUUID string) ([]attachment.Attachment, error) {
	if err := validateUUID("submission", submissionUUID); err != nil {
		return nil, errors.Trace(err)
	}
	owner, err := s.st.GetSubmissionOwner(ctx, submissionUUID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !principal.CanManageAgency(owner.AgencyUUID) {
		return nil, errors.Forbiddenf("attachments of submission %q", submissionUUID)
	}
	attachments, err := s.st.ListAttachments(ctx, submissionUUID)
	return attachments, errors.Trace(err)
}

// Open returns an attachment and a reader for its content. The caller must
// close the reader.
func (s *Service) Open(ctx context.Context, principal coreuser.Principal, id string) (attachment.Attachment, io.ReadCloser, error) {
	if err := validateUUID("attachment", id); err != nil {
		return attachment.Attachment{}, nil, errors.Trace(err)
	}
	a, owner, err := s.st.GetAttachment(ctx, id)
	if err != nil {
		return attachment.Attachment{}, nil, errors.Trace(err)
	}
	if !principal.CanManageAgency(owner.AgencyUUID) {
		return attachment.Attachment{}, nil, errors.Forbiddenf("attachment %q", id)
	}
	r, err := s.objects.Get(ctx, a.ObjectKey)
	if err != nil {
		return attachment.Attachment{}, nil, errors.Annotatef(err, "opening %q", a.FileName)
	}
	return a, r, nil
}

// Delete removes an attachment of a draft submission.
func (s *Service) Delete(ctx context.Context, principal coreuser.Principal, id string) (err error) {
	if err := validateUUID("attachment", id); err != nil {
		return errors.Trace(err)
	}
	a, owner, err := s.st.GetAttachment(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	if err := s.checkWritable(principal, owner); err != nil {
		return errors.Trace(err)
	}

	defer func() {
		s.audit(ctx, principal, "attachment.delete", fmt.Sprintf("%s on submission %s", a.FileName, a.SubmissionUUID), err)
	}()

	key, err := s.st.DeleteAttachment(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	if rerr := s.objects.Remove(ctx, key); rerr != nil {
		s.logger.Warningf("removing object %q of deleted attachment %q: %v", key, id, rerr)
	}
	return nil
}

func (s *Service) checkWritable(principal coreuser.Principal, owner attachment.SubmissionOwner) error {
	if !principal.CanManageAgency(owner.AgencyUUID) {
		return errors.Forbiddenf("changing attachments of agency %q", owner.AgencyUUID)
	}
	if !owner.IsDraft {
		return errors.Trace(attachmenterrors.SubmissionNotDraft)
	}
	if !principal.IsAdmin() && owner.PeriodStatus != period.Open {
		return errors.Trace(attachmenterrors.PeriodClosed)
	}
	return nil
}

func (s *Service) audit(ctx context.Context, principal coreuser.Principal, action, detail string, err error) {
	if aerr := s.auditor.Log(ctx, principal.UUID, action, detail, err); aerr != nil {
		s.logger.Warningf("auditing %s: %v", action, aerr)
	}
}

// cleanFileName drops any directory part a client sent with the name.
func cleanFileName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	name = path.Base(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", errors.NotValidf("empty file name")
	}
	return name, nil
}

func cleanContentType(contentType string) (string, error) {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return "application/octet-stream", nil
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.NewNotValid(err, fmt.Sprintf("content type %q", contentType))
	}
	return mime.FormatMediaType(mediaType, params), nil
}

func validateUUID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NotValidf("%s uuid %q", kind, id)
	}
	return nil
}
