// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/apiserver/params"
)

func (s *Server) listNotifications(w http.ResponseWriter, req *http.Request) error {
	unreadOnly, err := queryBool(req, "unread")
	if err != nil {
		return errors.Trace(err)
	}
	limit, err := queryInt(req, "limit")
	if err != nil {
		return errors.Trace(err)
	}

	svc := s.services.Notification()
	userUUID := principal(req).UUID
	notes, err := svc.ListForUser(req.Context(), userUUID, unreadOnly, limit)
	if err != nil {
		return errors.Trace(err)
	}
	unread, err := svc.UnreadCount(req.Context(), userUUID)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, params.Notifications{
		Notifications: nonNil(transform.Slice(notes, fromNotification)),
		Unread:        unread,
	})
	return nil
}

func (s *Server) markNotificationRead(w http.ResponseWriter, req *http.Request) error {
	err := s.services.Notification().MarkRead(req.Context(), principal(req).UUID, mux.Vars(req)["uuid"])
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) markAllNotificationsRead(w http.ResponseWriter, req *http.Request) error {
	n, err := s.services.Notification().MarkAllRead(req.Context(), principal(req).UUID)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, params.CountResult{Count: n})
	return nil
}
