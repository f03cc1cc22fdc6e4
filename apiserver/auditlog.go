// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"net/http"
	"time"

	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/domain/audit"
)

// defaultAuditLimit bounds audit listings that do not ask for a limit.
const defaultAuditLimit = 500

func (s *Server) listAudit(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	filter := audit.Filter{
		UserUUID: query.Get("user"),
		Action:   query.Get("action"),
		Limit:    defaultAuditLimit,
	}
	if since := query.Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return errors.BadRequestf("query since=%q", since)
		}
		filter.Since = t
	}
	limit, err := queryInt(req, "limit")
	if err != nil {
		return errors.Trace(err)
	}
	if limit > 0 {
		filter.Limit = limit
	}

	records, err := s.services.Audit().List(req.Context(), filter)
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, nonNil(transform.Slice(records, fromAuditRecord)))
	return nil
}
