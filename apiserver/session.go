// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"net/http"
	"strings"

	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/apiserver/params"
)

func (s *Server) login(w http.ResponseWriter, req *http.Request) error {
	var args params.LoginArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	name := strings.TrimSpace(args.Name)
	if name == "" || args.Password == "" {
		return errors.BadRequestf("name and password required")
	}

	usr, err := s.services.User().Authenticate(req.Context(), name, args.Password)
	s.audit(req, usr.UUID, "user.login", name, err)
	if err != nil {
		return errors.Trace(err)
	}

	token, expires, err := s.tokens.Issue(usr.Principal())
	if err != nil {
		return errors.Trace(err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.sendStatusAndJSON(w, http.StatusOK, params.LoginResult{
		Token:   token,
		Expires: expires,
		User:    fromUser(usr),
	})
	return nil
}

// logout clears the session cookie. Bearer tokens stay valid until they
// expire.
func (s *Server) logout(w http.ResponseWriter, req *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) me(w http.ResponseWriter, req *http.Request) error {
	p := principal(req)
	usr, err := s.services.User().GetUser(req.Context(), p.UUID)
	if err != nil {
		return errors.Trace(err)
	}
	unread, err := s.services.Notification().UnreadCount(req.Context(), p.UUID)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, params.Me{
		User:                fromUser(usr),
		UnreadNotifications: unread,
	})
	return nil
}

// audit records an action outside the domain services. Failures are only
// logged.
func (s *Server) audit(req *http.Request, userUUID, action, detail string, actionErr error) {
	if err := s.services.Audit().Log(req.Context(), userUUID, action, detail, actionErr); err != nil {
		s.logger.Warningf("recording audit %q: %v", action, err)
	}
}
