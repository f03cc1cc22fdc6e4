// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/apiserver/params"
	"github.com/agency-reporting/progreport/domain/program"
)

func (s *Server) listPrograms(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	programs, err := s.services.Program().ListPrograms(req.Context(), principal(req), program.Filter{
		AgencyUUID:     query.Get("agency"),
		InitiativeUUID: query.Get("initiative"),
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, nonNil(transform.Slice(programs, fromProgram)))
	return nil
}

func (s *Server) createProgram(w http.ResponseWriter, req *http.Request) error {
	var args params.ProgramArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	id, err := s.services.Program().CreateProgram(req.Context(), principal(req), toProgramArgs(args))
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusCreated, params.UUIDResult{UUID: id})
	return nil
}

func (s *Server) getProgram(w http.ResponseWriter, req *http.Request) error {
	p, err := s.services.Program().GetProgram(req.Context(), principal(req), mux.Vars(req)["uuid"])
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromProgram(p))
	return nil
}

func (s *Server) updateProgram(w http.ResponseWriter, req *http.Request) error {
	var args params.ProgramArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	err := s.services.Program().UpdateProgram(req.Context(), principal(req), mux.Vars(req)["uuid"], toProgramArgs(args))
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) deleteProgram(w http.ResponseWriter, req *http.Request) error {
	if err := s.services.Program().DeleteProgram(req.Context(), principal(req), mux.Vars(req)["uuid"]); err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) reassignProgram(w http.ResponseWriter, req *http.Request) error {
	var args params.ReassignArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	err := s.services.Program().ReassignProgram(req.Context(), principal(req), mux.Vars(req)["uuid"], args.AgencyUUID)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
