// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"
)

// uploadFormField names the multipart field holding an uploaded file.
const uploadFormField = "file"

func (s *Server) listAttachments(w http.ResponseWriter, req *http.Request) error {
	attachments, err := s.services.Attachment().List(req.Context(), principal(req), mux.Vars(req)["uuid"])
	if err != nil {
		return errors.Trace(err)
	}
	s.sendStatusAndJSON(w, http.StatusOK, nonNil(transform.Slice(attachments, fromAttachment)))
	return nil
}

// uploadAttachment streams the "file" part of a multipart body into the
// attachment service, which enforces the size limit.
func (s *Server) uploadAttachment(w http.ResponseWriter, req *http.Request) error {
	reader, err := req.MultipartReader()
	if err != nil {
		return errors.NewBadRequest(err, "expected multipart upload")
	}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return errors.BadRequestf("missing %q upload field", uploadFormField)
		} else if err != nil {
			return errors.NewBadRequest(err, "reading upload")
		}
		if part.FormName() != uploadFormField {
			_ = part.Close()
			continue
		}

		a, err := s.services.Attachment().Upload(
			req.Context(), principal(req), mux.Vars(req)["uuid"],
			part.FileName(), part.Header.Get("Content-Type"), part,
		)
		_ = part.Close()
		if err != nil {
			return errors.Trace(err)
		}
		s.sendStatusAndJSON(w, http.StatusCreated, fromAttachment(a))
		return nil
	}
}

func (s *Server) downloadAttachment(w http.ResponseWriter, req *http.Request) error {
	a, r, err := s.services.Attachment().Open(req.Context(), principal(req), mux.Vars(req)["uuid"])
	if err != nil {
		return errors.Trace(err)
	}
	defer r.Close()

	h := w.Header()
	h.Set("Content-Type", a.ContentType)
	h.Set("Content-Length", strconv.FormatInt(a.Size, 10))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName}))
	h.Set("X-Content-SHA256", a.SHA256)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, r); err != nil {
		// The status has been sent; all that can be done is to log.
		s.logger.Warningf("sending attachment %q: %v", a.UUID, err)
	}
	return nil
}

func (s *Server) deleteAttachment(w http.ResponseWriter, req *http.Request) error {
	if err := s.services.Attachment().Delete(req.Context(), principal(req), mux.Vars(req)["uuid"]); err != nil {
		return errors.Trace(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
