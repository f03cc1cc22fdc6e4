// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/apiserver/params"
	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain/submission"
	submissionservice "github.com/agency-reporting/progreport/domain/submission/service"
)

func (s *Server) listSubmissions(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	subs, err := s.services.Submission().ListSubmissions(req.Context(), principal(req), submission.Filter{
		PeriodUUID:  query.Get("period"),
		AgencyUUID:  query.Get("agency"),
		ProgramUUID: query.Get("program"),
		Status:      submission.Status(query.Get("status")),
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, nonNil(transform.Slice(subs, fromSubmission)))
	return nil
}

func (s *Server) getSubmissionFor(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	sub, err := s.services.Submission().GetSubmissionFor(req.Context(), principal(req), vars["uuid"], vars["period"])
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromSubmission(sub))
	return nil
}

// saveDraft creates or replaces the draft submission of a program for a
// period.
func (s *Server) saveDraft(w http.ResponseWriter, req *http.Request) error {
	var args params.SaveDraftArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	vars := mux.Vars(req)
	sub, err := s.services.Submission().SaveDraft(req.Context(), principal(req), submission.SaveDraftArgs{
		ProgramUUID: vars["uuid"],
		PeriodUUID:  vars["period"],
		Description: args.Description,
		Targets:     transform.Slice(args.Targets, toTarget),
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromSubmission(sub))
	return nil
}

func (s *Server) getSubmission(w http.ResponseWriter, req *http.Request) error {
	sub, err := s.services.Submission().GetSubmission(req.Context(), principal(req), mux.Vars(req)["uuid"])
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromSubmission(sub))
	return nil
}

func (s *Server) deleteSubmission(w http.ResponseWriter, req *http.Request) error {
	if err := s.services.Submission().DeleteSubmission(req.Context(), principal(req), mux.Vars(req)["uuid"]); err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) finalizeSubmission(w http.ResponseWriter, req *http.Request) error {
	return s.transition(w, req, s.services.Submission().Finalize)
}

func (s *Server) unsubmitSubmission(w http.ResponseWriter, req *http.Request) error {
	return s.transition(w, req, s.services.Submission().Unsubmit)
}

func (s *Server) reopenSubmission(w http.ResponseWriter, req *http.Request) error {
	var args params.ReopenArgs
	if err := readJSON(w, req, &args); err != nil {
		return errors.Trace(err)
	}
	svc := s.services.Submission()
	id := mux.Vars(req)["uuid"]
	if err := svc.Reopen(req.Context(), principal(req), id, args.Reason); err != nil {
		return errors.Trace(err)
	}
	return s.sendSubmission(w, req, svc, id)
}

// transition applies a lifecycle change and replies with the updated
// submission.
func (s *Server) transition(
	w http.ResponseWriter, req *http.Request,
	change func(ctx context.Context, p coreuser.Principal, id string) error,
) error {
	id := mux.Vars(req)["uuid"]
	if err := change(req.Context(), principal(req), id); err != nil {
		return errors.Trace(err)
	}
	return s.sendSubmission(w, req, s.services.Submission(), id)
}

func (s *Server) sendSubmission(w http.ResponseWriter, req *http.Request, svc *submissionservice.Service, id string) error {
	sub, err := svc.GetSubmission(req.Context(), principal(req), id)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, fromSubmission(sub))
	return nil
}
