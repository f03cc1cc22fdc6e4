// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"context"
	"time"

	"github.com/canonical/sqlair"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/domain"
	"github.com/agency-reporting/progreport/domain/notification"
	notificationerrors "github.com/agency-reporting/progreport/domain/notification/errors"
)

type dbNotification struct {
	UUID      string    `db:"uuid"`
	UserUUID  string    `db:"user_uuid"`
	Kind      string    `db:"kind"`
	Message   string    `db:"message"`
	Link      string    `db:"link"`
	Read      bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

func (n dbNotification) toNotification() notification.Notification {
	return notification.Notification{
		UUID:      n.UUID,
		UserUUID:  n.UserUUID,
		Kind:      notification.Kind(n.Kind),
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type dbUserQuery struct {
	UserUUID string `db:"user_uuid"`
	UUID     string `db:"uuid"`
	Unread   bool   `db:"unread"`
	Limit    int    `db:"max_rows"`
}

type dbCount struct {
	Count int `db:"count"`
}

type dbCutoff struct {
	Before time.Time `db:"before"`
}

// State represents a type for interacting with the underlying state.
type State struct {
	*domain.StateBase
}

// NewState returns a new State for interacting with the underlying state.
func NewState(factory database.TxnRunnerFactory) *State {
	return &State{
		StateBase: domain.NewStateBase(factory),
	}
}

// AddNotifications stores the notifications in a single transaction.
func (st *State) AddNotifications(ctx context.Context, notifications []notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	stmt, err := st.Prepare(`
INSERT INTO notification (uuid, user_uuid, kind, message, link, is_read, created_at)
VALUES ($dbNotification.*)`, dbNotification{})
	if err != nil {
		return errors.Annotate(err, "preparing insert notification statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		for _, n := range notifications {
			row := dbNotification{
				UUID:      n.UUID,
				UserUUID:  n.UserUUID,
				Kind:      string(n.Kind),
				Message:   n.Message,
				Link:      n.Link,
				CreatedAt: n.CreatedAt.UTC(),
			}
			if err := tx.Query(ctx, stmt, row).Run(); err != nil {
				return errors.Annotatef(err, "notifying user %q", n.UserUUID)
			}
		}
		return nil
	})
	return errors.Annotatef(domain.CoerceError(err), "adding %d notifications", len(notifications))
}

// ListForUser returns the newest notifications of a user first. A limit of
// zero or less returns every notification.
func (st *State) ListForUser(ctx context.Context, userUUID string, unreadOnly bool, limit int) ([]notification.Notification, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}

	if limit <= 0 {
		limit = -1
	}
	q := dbUserQuery{UserUUID: userUUID, Unread: unreadOnly, Limit: limit}
	stmt, err := st.Prepare(`
SELECT &dbNotification.*
FROM   notification
WHERE  user_uuid = $dbUserQuery.user_uuid
AND    ($dbUserQuery.unread = FALSE OR is_read = FALSE)
ORDER  BY created_at DESC, uuid
LIMIT  $dbUserQuery.max_rows`, dbNotification{}, q)
	if err != nil {
		return nil, errors.Annotate(err, "preparing list notifications statement")
	}

	var rows []dbNotification
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, q).GetAll(&rows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotatef(err, "listing notifications for %q", userUUID)
	}
	return transform.Slice(rows, dbNotification.toNotification), nil
}

// UnreadCount returns the number of unread notifications of a user.
func (st *State) UnreadCount(ctx context.Context, userUUID string) (int, error) {
	db, err := st.DB()
	if err != nil {
		return 0, errors.Trace(err)
	}

	q := dbUserQuery{UserUUID: userUUID}
	stmt, err := st.Prepare(`
SELECT COUNT(*) AS &dbCount.count
FROM   notification
WHERE  user_uuid = $dbUserQuery.user_uuid
AND    is_read = FALSE`, dbCount{}, q)
	if err != nil {
		return 0, errors.Annotate(err, "preparing unread count statement")
	}

	var count dbCount
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return errors.Trace(tx.Query(ctx, stmt, q).Get(&count))
	})
	if err != nil {
		return 0, errors.Annotatef(err, "counting unread notifications for %q", userUUID)
	}
	return count.Count, nil
}

// MarkRead marks one notification of the user as read. Notifications of
// other users are reported as notificationerrors.NotFound.
func (st *State) MarkRead(ctx context.Context, userUUID, uuid string) error {
	db, err := st.DB()
	if err != nil {
		return errors.Trace(err)
	}

	q := dbUserQuery{UserUUID: userUUID, UUID: uuid}
	stmt, err := st.Prepare(`
UPDATE notification
SET    is_read = TRUE
WHERE  uuid = $dbUserQuery.uuid
AND    user_uuid = $dbUserQuery.user_uuid`, q)
	if err != nil {
		return errors.Annotate(err, "preparing mark read statement")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var outcome sqlair.Outcome
		if err := tx.Query(ctx, stmt, q).Get(&outcome); err != nil {
			return errors.Trace(err)
		}
		if n, err := outcome.Result().RowsAffected(); err != nil {
			return errors.Trace(err)
		} else if n != 1 {
			return errors.Annotatef(notificationerrors.NotFound, "%q", uuid)
		}
		return nil
	})
	return errors.Annotatef(err, "marking notification %q read", uuid)
}

// MarkAllRead marks every notification of the user as read and returns
// how many changed.
func (st *State) MarkAllRead(ctx context.Context, userUUID string) (int, error) {
	db, err := st.DB()
	if err != nil {
		return 0, errors.Trace(err)
	}

	q := dbUserQuery{UserUUID: userUUID}
	stmt, err := st.Prepare(`
UPDATE notification
SET    is_read = TRUE
WHERE  user_uuid = $dbUserQuery.user_uuid
AND    is_read = FALSE`, q)
	if err != nil {
		return 0, errors.Annotate(err, "preparing mark all read statement")
	}

	var changed int64
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var outcome sqlair.Outcome
		if err := tx.Query(ctx, stmt, q).Get(&outcome); err != nil {
			return errors.Trace(err)
		}
		var err error
		changed, err = outcome.Result().RowsAffected()
		return errors.Trace(err)
	})
	if err != nil {
		return 0, errors.Annotatef(err, "marking notifications of %q read", userUUID)
	}
	return int(changed), nil
}

// DeleteOlderThan removes notifications created before the cutoff and
// returns how many were removed.
func (st *State) DeleteOlderThan(ctx context.Context, before time.Time) (int, error) {
	db, err := st.DB()
	if err != nil {
		return 0, errors.Trace(err)
	}

	cutoff := dbCutoff{Before: before.UTC()}
	stmt, err := st.Prepare(`
DELETE FROM notification
WHERE  created_at < $dbCutoff.before`, cutoff)
	if err != nil {
		return 0, errors.Annotate(err, "preparing delete notifications statement")
	}

	var removed int64
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		var outcome sqlair.Outcome
		if err := tx.Query(ctx, stmt, cutoff).Get(&outcome); err != nil {
			return errors.Trace(err)
		}
		var err error
		removed, err = outcome.Result().RowsAffected()
		return errors.Trace(err)
	})
	if err != nil {
		return 0, errors.Annotate(err, "deleting old notifications")
	}
	return int(removed), nil
}
