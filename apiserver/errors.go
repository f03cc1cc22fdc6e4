// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"encoding/json"
	"net/http"

	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/apiserver/params"
	"github.com/agency-reporting/progreport/domain"
	agencyerrors "github.com/agency-reporting/progreport/domain/agency/errors"
	attachmenterrors "github.com/agency-reporting/progreport/domain/attachment/errors"
	initiativeerrors "github.com/agency-reporting/progreport/domain/initiative/errors"
	notificationerrors "github.com/agency-reporting/progreport/domain/notification/errors"
	perioderrors "github.com/agency-reporting/progreport/domain/period/errors"
	programerrors "github.com/agency-reporting/progreport/domain/program/errors"
	submissionerrors "github.com/agency-reporting/progreport/domain/submission/errors"
	usererrors "github.com/agency-reporting/progreport/domain/user/errors"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeNotFound      = "not-found"
	CodeNotValid      = "not-valid"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeAlreadyExists = "already-exists"
	CodeConflict      = "conflict"
	CodeTooLarge      = "too-large"
	CodeInternal      = "internal"
)

type errorClass struct {
	errs   []error
	status int
	code   string
}

// errorClasses is consulted in order; the first class holding an error
// that the returned error matches wins.
var errorClasses = []errorClass{{
	errs: []error{
		errors.Unauthorized,
		usererrors.Unauthorized,
	},
	status: http.StatusUnauthorized,
	code:   CodeUnauthorized,
}, {
	errs:   []error{errors.Forbidden},
	status: http.StatusForbidden,
	code:   CodeForbidden,
}, {
	errs: []error{
		errors.NotFound,
		domain.ErrNoRecord,
		agencyerrors.NotFound,
		usererrors.NotFound,
		usererrors.AgencyNotFound,
		initiativeerrors.NotFound,
		initiativeerrors.ProgramNotFound,
		programerrors.NotFound,
		programerrors.AgencyNotFound,
		programerrors.InitiativeNotFound,
		perioderrors.NotFound,
		perioderrors.NoOpenPeriod,
		submissionerrors.NotFound,
		submissionerrors.ProgramNotFound,
		submissionerrors.PeriodNotFound,
		attachmenterrors.NotFound,
		attachmenterrors.SubmissionNotFound,
		notificationerrors.NotFound,
	},
	status: http.StatusNotFound,
	code:   CodeNotFound,
}, {
	errs: []error{
		errors.NotValid,
		errors.BadRequest,
		usererrors.UUIDNotValid,
		usererrors.UsernameNotValid,
		usererrors.PasswordNotValid,
	},
	status: http.StatusBadRequest,
	code:   CodeNotValid,
}, {
	errs: []error{
		errors.AlreadyExists,
		domain.ErrDuplicate,
		agencyerrors.AlreadyExists,
		usererrors.AlreadyExists,
		initiativeerrors.AlreadyExists,
		programerrors.AlreadyExists,
		perioderrors.AlreadyExists,
	},
	status: http.StatusConflict,
	code:   CodeAlreadyExists,
}, {
	errs: []error{
		submissionerrors.NotDraft,
		submissionerrors.NotFinalized,
		submissionerrors.PeriodClosed,
		attachmenterrors.SubmissionNotDraft,
		attachmenterrors.PeriodClosed,
		programerrors.HasFinalizedSubmissions,
	},
	status: http.StatusConflict,
	code:   CodeConflict,
}, {
	errs:   []error{attachmenterrors.TooLarge},
	status: http.StatusRequestEntityTooLarge,
	code:   CodeTooLarge,
}}

// errorStatus returns the HTTP status and error code for err.
func errorStatus(err error) (int, string) {
	for _, class := range errorClasses {
		for _, target := range class.errs {
			if errors.Is(err, target) {
				return class.status, class.code
			}
		}
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge, CodeTooLarge
	}
	return http.StatusInternalServerError, CodeInternal
}

// sendError writes err as a JSON error body. Internal errors are logged
// and their detail withheld from the client.
func (s *Server) sendError(w http.ResponseWriter, req *http.Request, err error) {
	status, code := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Errorf("returning error from %s %s: %s", req.Method, req.URL.Path, errors.Details(err))
		message = http.StatusText(status)
	} else {
		s.logger.Debugf("returning error from %s %s: %v", req.Method, req.URL.Path, err)
	}
	s.sendStatusAndJSON(w, status, params.Error{
		Message: message,
		Code:    code,
	})
}

// sendStatusAndJSON writes body as JSON with the given status.
func (s *Server) sendStatusAndJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Errorf("cannot marshal JSON result %#v: %v", body, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debugf("cannot write response: %v", err)
	}
}

// readJSON decodes the request body into v.
func readJSON(w http.ResponseWriter, req *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return errors.Trace(err)
		}
		return errors.NewBadRequest(err, "invalid request body")
	}
	return nil
}
