// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/logger"
	"github.com/agency-reporting/progreport/domain/notification"
)

// State describes retrieval and persistence methods for notifications.
type State interface {
	// AddNotifications stores notifications in one transaction.
	AddNotifications(ctx context.Context, notifications []notification.Notification) error

	// ListForUser returns the newest notifications of a user first.
	ListForUser(ctx context.Context, userUUID string, unreadOnly bool, limit int) ([]notification.Notification, error)

	// UnreadCount returns the number of unread notifications of a user.
	UnreadCount(ctx context.Context, userUUID string) (int, error)

	// MarkRead marks a notification of the user as read.
	MarkRead(ctx context.Context, userUUID, uuid string) error

	// MarkAllRead marks every notification of the user as read.
	MarkAllRead(ctx context.Context, userUUID string) (int, error)

	// DeleteOlderThan removes notifications created before the cutoff.
	DeleteOlderThan(ctx context.Context, before time.Time) (int, error)
}

// UserLister resolves the recipients of agency and administrator
// notifications.
type UserLister interface {
	// ListUserUUIDsByAgency returns the active users of an agency.
	ListUserUUIDsByAgency(ctx context.Context, agencyUUID string) ([]string, error)

	// ListAdminUUIDs returns the active administrators.
	ListAdminUUIDs(ctx context.Context) ([]string, error)
}

// Service provides the API for sending and reading notifications.
type Service struct {
	st     State
	users  UserLister
	clock  clock.Clock
	logger logger.Logger
}

// NewService returns a new notification Service.
func NewService(st State, users UserLister, clock clock.Clock, logger logger.Logger) *Service {
	return &Service{
		st:     st,
		users:  users,
		clock:  clock,
		logger: logger,
	}
}

// Notify sends one notification to each distinct user.
func (s *Service) Notify(ctx context.Context, users []string, kind notification.Kind, message, link string) error {
	recipients := set.NewStrings()
	for _, u := range users {
		if u != "" {
			recipients.Add(u)
		}
	}
	if recipients.IsEmpty() {
		return nil
	}

	now := s.clock.Now()
	notifications := make([]notification.Notification, 0, recipients.Size())
	for _, u := range recipients.SortedValues() {
		notifications = append(notifications, notification.Notification{
			UUID:      uuid.NewString(),
			UserUUID:  u,
			Kind:      kind,
			Message:   message,
			Link:      link,
			CreatedAt: now,
		})
	}
	if err := s.st.AddNotifications(ctx, notifications); err != nil {
		return errors.Trace(err)
	}
	s.logger.Debugf("sent %s notification to %d users", kind, len(notifications))
	return nil
}

// NotifyAgency notifies every active user of an agency.
func (s *Service) NotifyAgency(ctx context.Context, agencyUUID string, kind notification.Kind, message, link string) error {
	users, err := s.users.ListUserUUIDsByAgency(ctx, agencyUUID)
	if err != nil {
		return errors.Annotatef(err, "resolving users of agency %q", agencyUUID)
	}
	return errors.Trace(s.Notify(ctx, users, kind, message, link))
}

// NotifyAdmins notifies every active administrator.
func (s *Service) NotifyAdmins(ctx context.Context, kind notification.Kind, message, link string) error {
	users, err := s.users.ListAdminUUIDs(ctx)
	if err != nil {
		return errors.Annotate(err, "resolving administrators")
	}
	return errors.Trace(s.Notify(ctx, users, kind, message, link))
}

// ListForUser returns the notifications of a user, newest first.
func (s *Service) ListForUser(ctx context.Context, userUUID string, unreadOnly bool, limit int) ([]notification.Notification, error) {
	result, err := s.st.ListForUser(ctx, userUUID, unreadOnly, limit)
	return result, errors.Trace(err)
}

// UnreadCount returns the number of unread notifications of a user.
func (s *Service) UnreadCount(ctx context.Context, userUUID string) (int, error) {
	n, err := s.st.UnreadCount(ctx, userUUID)
	return n, errors.Trace(err)
}

// MarkRead marks a notification read. Users can only mark their own
// notifications.
func (s *Service) MarkRead(ctx context.Context, userUUID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NotValidf("notification uuid %q", id)
	}
	return errors.Trace(s.st.MarkRead(ctx, userUUID, id))
}

// MarkAllRead marks every notification of a user read.
func (s *Service) MarkAllRead(ctx context.Context, userUUID string) (int, error) {
	n, err := s.st.MarkAllRead(ctx, userUUID)
	return n, errors.Trace(err)
}

// DeleteOlderThan removes notifications created before the cutoff.
func (s *Service) DeleteOlderThan(ctx context.Context, before time.Time) (int, error) {
	n, err := s.st.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if n > 0 {
		s.logger.Infof("removed %d notifications older than %s", n, before.Format(time.RFC3339))
	}
	return n, nil
}
