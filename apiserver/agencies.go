// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/apiserver/params"
	"github.com/agency-reporting/progreport/domain/agency"
)

func (s *Server) listAgencies(w http.ResponseWriter, req *http.Request) error {
	agencies, err := s.services.Agency().ListAgencies(req.Context())
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, nonNil(transform.Slice(agencies, fromAgency)))
	return nil
}

func (s *Server) createAgency(w http.ResponseWriter, req *http.Request) error {
	var args params.AgencyArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	id, err := s.services.Agency().CreateAgency(req.Context(), agency.CreateAgencyArgs{
		Name:         args.Name,
		Abbreviation: args.Abbreviation,
	})
	s.audit(req, principal(req).UUID, "agency.create", args.Name, err)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusCreated, params.UUIDResult{UUID: id})
	return nil
}

func (s *Server) getAgency(w http.ResponseWriter, req *http.Request) error {
	a, err := s.services.Agency().GetAgency(req.Context(), mux.Vars(req)["uuid"])
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromAgency(a))
	return nil
}

func (s *Server) updateAgency(w http.ResponseWriter, req *http.Request) error {
	var args params.AgencyArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	id := mux.Vars(req)["uuid"]
	err := s.services.Agency().UpdateAgency(req.Context(), id, agency.CreateAgencyArgs{
		Name:         args.Name,
		Abbreviation: args.Abbreviation,
	})
	s.audit(req, principal(req).UUID, "agency.update", id, err)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
