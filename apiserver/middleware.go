// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	coreuser "github.com/agency-reporting/progreport/core/user"
	usererrors "github.com/agency-reporting/progreport/domain/user/errors"
)

// SessionCookieName names the cookie holding the session token.
const SessionCookieName = "progreport-session"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// instrument records request metrics against the route template and logs
// each request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		route := "unknown"
		if r := mux.CurrentRoute(req); r != nil {
			if tmpl, err := r.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		start := s.clock.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, req)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		elapsed := s.clock.Now().Sub(start)

		s.metrics.requests.WithLabelValues(req.Method, route, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(req.Method, route).Observe(elapsed.Seconds())
		s.logger.Debugf("%s %s -> %d (%v)", req.Method, req.URL.Path, rec.status, elapsed)
	})
}

// sessionToken returns the bearer token of the request, falling back to
// the session cookie.
func sessionToken(req *http.Request) string {
	if header := req.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := req.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// authenticate resolves the session token to an active user and stores
// the user's principal in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		token := sessionToken(req)
		if token == "" {
			s.sendError(w, req, errors.Unauthorizedf("no session token"))
			return
		}
		claimed, err := s.tokens.Verify(token)
		if err != nil {
			s.sendError(w, req, err)
			return
		}

		// Role, agency and activation changes apply to existing sessions.
		usr, err := s.services.User().GetUser(req.Context(), claimed.UUID)
		if errors.Is(err, usererrors.NotFound) || errors.Is(err, usererrors.UUIDNotValid) {
			s.sendError(w, req, errors.Unauthorizedf("user %q no longer exists", claimed.Name))
			return
		} else if err != nil {
			s.sendError(w, req, errors.Trace(err))
			return
		}
		if !usr.Active {
			s.sendError(w, req, errors.Unauthorizedf("user %q is deactivated", usr.Name))
			return
		}

		ctx := coreuser.WithPrincipal(req.Context(), usr.Principal())
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// requireRole only lets principals with one of the roles through.
func (s *Server) requireRole(roles ...coreuser.Role) func(http.HandlerFunc) http.HandlerFunc {
	allowed := set.NewStrings()
	for _, r := range roles {
		allowed.Add(string(r))
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			p, ok := coreuser.PrincipalFromContext(req.Context())
			if !ok {
				s.sendError(w, req, errors.Unauthorizedf("not logged in"))
				return
			}
			if !allowed.Contains(string(p.Role)) {
				s.sendError(w, req, errors.Forbiddenf("%s role", p.Role))
				return
			}
			next(w, req)
		}
	}
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireRole(coreuser.RoleAdmin)(next)
}

func (s *Server) requireFocal(next http.HandlerFunc) http.HandlerFunc {
	return s.requireRole(coreuser.RoleAdmin, coreuser.RoleFocal)(next)
}

func (s *Server) requireAgency(next http.HandlerFunc) http.HandlerFunc {
	return s.requireRole(coreuser.RoleAdmin, coreuser.RoleAgency, coreuser.RoleFocal)(next)
}

func principal(req *http.Request) coreuser.Principal {
	p, _ := coreuser.PrincipalFromContext(req.Context())
	return p
}
