// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/apiserver/params"
	"github.com/agency-reporting/progreport/domain/period"
)

func (s *Server) listPeriods(w http.ResponseWriter, req *http.Request) error {
	periods, err := s.services.Period().ListPeriods(req.Context())
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, nonNil(transform.Slice(periods, fromPeriod)))
	return nil
}

func (s *Server) createPeriod(w http.ResponseWriter, req *http.Request) error {
	var args params.PeriodArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	id, err := s.services.Period().CreatePeriod(req.Context(), period.CreatePeriodArgs{
		Year:      args.Year,
		Type:      period.Type(args.Type),
		Number:    args.Number,
		StartDate: args.StartDate,
		EndDate:   args.EndDate,
		Status:    period.Status(args.Status),
	})
	s.audit(req, principal(req).UUID, "period.create", period.Label(args.Year, period.Type(args.Type), args.Number), err)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusCreated, params.UUIDResult{UUID: id})
	return nil
}

func (s *Server) currentPeriod(w http.ResponseWriter, req *http.Request) error {
	p, err := s.services.Period().CurrentPeriod(req.Context(), s.clock.Now())
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromPeriod(p))
	return nil
}

func (s *Server) getPeriod(w http.ResponseWriter, req *http.Request) error {
	p, err := s.services.Period().GetPeriod(req.Context(), mux.Vars(req)["uuid"])
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromPeriod(p))
	return nil
}

func (s *Server) openPeriod(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["uuid"]
	err := s.services.Period().OpenPeriod(req.Context(), id)
	s.audit(req, principal(req).UUID, "period.open", id, err)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) closePeriod(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["uuid"]
	err := s.services.Period().ClosePeriod(req.Context(), id)
	s.audit(req, principal(req).UUID, "period.close", id, err)
	if err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
