// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/apiserver/params"
	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain/user"
)

func (s *Server) listUsers(w http.ResponseWriter, req *http.Request) error {
	users, err := s.services.User().ListUsers(req.Context(), principal(req), req.URL.Query().Get("agency"))
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, nonNil(transform.Slice(users, fromUser)))
	return nil
}

func (s *Server) addUser(w http.ResponseWriter, req *http.Request) error {
	var args params.AddUserArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	id, err := s.services.User().AddUser(req.Context(), user.AddUserArgs{
		Name:       args.Name,
		FullName:   args.FullName,
		Email:      args.Email,
		Role:       coreuser.Role(args.Role),
		AgencyUUID: args.AgencyUUID,
		Password:   args.Password,
	})
	s.audit(req, principal(req).UUID, "user.add", args.Name, err)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusCreated, params.UUIDResult{UUID: id})
	return nil
}

// getUser lets administrators read any user, and other users read
// themselves and members of their own agency.
func (s *Server) getUser(w http.ResponseWriter, req *http.Request) error {
	p := principal(req)
	usr, err := s.services.User().GetUser(req.Context(), mux.Vars(req)["uuid"])
	if err != nil {
		return errors.Trace(err)
	}
	if !p.IsAdmin() && p.UUID != usr.UUID && !p.BelongsTo(usr.AgencyUUID) {
		return errors.Forbiddenf("user %q", usr.Name)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromUser(usr))
	return nil
}

func (s *Server) updateUser(w http.ResponseWriter, req *http.Request) error {
	var args params.UpdateUserArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	id := mux.Vars(req)["uuid"]
	err := s.services.User().UpdateUser(req.Context(), id, user.UpdateUserArgs{
		FullName:   args.FullName,
		Email:      args.Email,
		Role:       coreuser.Role(args.Role),
		AgencyUUID: args.AgencyUUID,
	})
	s.audit(req, principal(req).UUID, "user.update", id, err)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// setPassword lets administrators reset any password. Users changing
// their own password must confirm the current one.
func (s *Server) setPassword(w http.ResponseWriter, req *http.Request) error {
	var args params.SetPasswordArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	p := principal(req)
	id := mux.Vars(req)["uuid"]

	if !p.IsAdmin() {
		if p.UUID != id {
			return errors.Forbiddenf("changing another user's password")
		}
		if _, err := s.services.User().Authenticate(req.Context(), p.Name, args.CurrentPassword); err != nil {
			return errors.Annotate(err, "current password")
		}
	}

	err := s.services.User().SetPassword(req.Context(), id, args.Password)
	s.audit(req, p.UUID, "user.set-password", id, err)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) deactivateUser(w http.ResponseWriter, req *http.Request) error {
	p := principal(req)
	id := mux.Vars(req)["uuid"]
	if p.UUID == id {
		return errors.BadRequestf("cannot deactivate yourself")
	}
	err := s.services.User().DeactivateUser(req.Context(), id)
	s.audit(req, p.UUID, "user.deactivate", id, err)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) activateUser(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["uuid"]
	err := s.services.User().ActivateUser(req.Context(), id)
	s.audit(req, principal(req).UUID, "user.activate", id, err)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
