// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/apiserver/params"
)

func (s *Server) listInitiatives(w http.ResponseWriter, req *http.Request) error {
	activeOnly, err := queryBool(req, "active")
	if err != nil {
		return errors.Trace(err)
	}
	initiatives, err := s.services.Initiative().ListInitiatives(req.Context(), activeOnly)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, nonNil(transform.Slice(initiatives, fromInitiative)))
	return nil
}

func (s *Server) createInitiative(w http.ResponseWriter, req *http.Request) error {
	var args params.InitiativeArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	p := principal(req)
	id, err := s.services.Initiative().CreateInitiative(req.Context(), p, toInitiativeArgs(args))
	s.audit(req, p.UUID, "initiative.create", args.Name, err)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusCreated, params.UUIDResult{UUID: id})
	return nil
}

func (s *Server) getInitiative(w http.ResponseWriter, req *http.Request) error {
	i, err := s.services.Initiative().GetInitiative(req.Context(), mux.Vars(req)["uuid"])
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromInitiative(i))
	return nil
}

func (s *Server) updateInitiative(w http.ResponseWriter, req *http.Request) error {
	var args params.InitiativeArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	id := mux.Vars(req)["uuid"]
	err := s.services.Initiative().UpdateInitiative(req.Context(), id, toInitiativeArgs(args))
	s.audit(req, principal(req).UUID, "initiative.update", id, err)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) deleteInitiative(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["uuid"]
	err := s.services.Initiative().DeleteInitiative(req.Context(), id)
	s.audit(req, principal(req).UUID, "initiative.delete", id, err)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// assignPrograms links every listed program to the initiative, or none of
// them if any is unknown.
func (s *Server) assignPrograms(w http.ResponseWriter, req *http.Request) error {
	var args params.ProgramUUIDs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	id := mux.Vars(req)["uuid"]
	n, err := s.services.Initiative().AssignPrograms(req.Context(), id, args.Programs)
	s.audit(req, principal(req).UUID, "initiative.assign-programs",
		fmt.Sprintf("%s: %d program(s)", id, len(args.Programs)), err)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, params.CountResult{Count: n})
	return nil
}

func (s *Server) unassignPrograms(w http.ResponseWriter, req *http.Request) error {
	var args params.ProgramUUIDs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	id := mux.Vars(req)["uuid"]
	n, err := s.services.Initiative().UnassignPrograms(req.Context(), id, args.Programs)
	s.audit(req, principal(req).UUID, "initiative.unassign-programs",
		fmt.Sprintf("%s: %d program(s)", id, len(args.Programs)), err)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, params.CountResult{Count: n})
	return nil
}

func queryBool(req *http.Request, key string) (bool, error) {
	v := req.URL.Query().Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.BadRequestf("query %s=%q", key, v)
	}
	return b, nil
}

func queryInt(req *http.Request, key string) (int, error) {
	v := req.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.BadRequestf("query %s=%q", key, v)
	}
	return n, nil
}
