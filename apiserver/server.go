// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package apiserver serves the JSON HTTP API over the domain services.
package apiserver

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agency-reporting/progreport/core/logger"
	"github.com/agency-reporting/progreport/domain/services"
	"github.com/agency-reporting/progreport/internal/auth"
)

// maxJSONBody limits the size of JSON request bodies.
const maxJSONBody = 1 << 20

// Config holds the dependencies of the API server.
type Config struct {
	Services *services.Factory
	Tokens   *auth.TokenManager
	Clock    clock.Clock
	Logger   logger.Logger

	// Registerer receives the request metrics and Gatherer serves
	// /metrics. Both default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	// SecureCookies marks session cookies as HTTPS only.
	SecureCookies bool
}

// Validate ensures that the config values are valid.
func (c Config) Validate() error {
	if c.Services == nil {
		return errors.NotValidf("missing Services")
	}
	if c.Tokens == nil {
		return errors.NotValidf("missing Tokens")
	}
	if c.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	if c.Logger == nil {
		return errors.NotValidf("missing Logger")
	}
	return nil
}

// Server is the HTTP API handler.
type Server struct {
	services      *services.Factory
	tokens        *auth.TokenManager
	clock         clock.Clock
	logger        logger.Logger
	metrics       *Collector
	secureCookies bool

	router *mux.Router
}

// NewServer returns a Server and registers its metrics.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		services:      cfg.Services,
		tokens:        cfg.Tokens,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
		metrics:       NewMetricsCollector(),
		secureCookies: cfg.SecureCookies,
	}
	if err := cfg.Registerer.Register(s.metrics); err != nil {
		return nil, errors.Annotate(err, "registering metrics")
	}
	s.router = s.routes(cfg.Gatherer)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

type handlerFunc func(w http.ResponseWriter, req *http.Request) error

// handle adapts a handler returning an error to an http.HandlerFunc.
func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			s.sendError(w, req, err)
		}
	}
}

func (s *Server) routes(gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.sendError(w, req, errors.NotFoundf("%s %s", req.Method, req.URL.Path))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.sendStatusAndJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"error": http.StatusText(http.StatusMethodNotAllowed),
			"code":  CodeNotValid,
		})
	})

	r.HandleFunc("/healthz", s.handle(s.healthz)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/api/login", s.handle(s.login)).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.handle(s.logout)).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authenticate)

	api.HandleFunc("/me", s.handle(s.me)).Methods(http.MethodGet)

	api.HandleFunc("/agencies", s.handle(s.listAgencies)).Methods(http.MethodGet)
	api.HandleFunc("/agencies", s.requireAdmin(s.handle(s.createAgency))).Methods(http.MethodPost)
	api.HandleFunc("/agencies/{uuid}", s.handle(s.getAgency)).Methods(http.MethodGet)
	api.HandleFunc("/agencies/{uuid}", s.requireAdmin(s.handle(s.updateAgency))).Methods(http.MethodPut)

	api.HandleFunc("/users", s.handle(s.listUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users", s.requireAdmin(s.handle(s.addUser))).Methods(http.MethodPost)
	api.HandleFunc("/users/{uuid}", s.handle(s.getUser)).Methods(http.MethodGet)
	api.HandleFunc("/users/{uuid}", s.requireAdmin(s.handle(s.updateUser))).Methods(http.MethodPut)
	api.HandleFunc("/users/{uuid}/password", s.handle(s.setPassword)).Methods(http.MethodPost)
	api.HandleFunc("/users/{uuid}/deactivate", s.requireAdmin(s.handle(s.deactivateUser))).Methods(http.MethodPost)
	api.HandleFunc("/users/{uuid}/activate", s.requireAdmin(s.handle(s.activateUser))).Methods(http.MethodPost)

	api.HandleFunc("/initiatives", s.handle(s.listInitiatives)).Methods(http.MethodGet)
	api.HandleFunc("/initiatives", s.requireAdmin(s.handle(s.createInitiative))).Methods(http.MethodPost)
	api.HandleFunc("/initiatives/{uuid}", s.handle(s.getInitiative)).Methods(http.MethodGet)
	api.HandleFunc("/initiatives/{uuid}", s.requireAdmin(s.handle(s.updateInitiative))).Methods(http.MethodPut)
	api.HandleFunc("/initiatives/{uuid}", s.requireAdmin(s.handle(s.deleteInitiative))).Methods(http.MethodDelete)
	api.HandleFunc("/initiatives/{uuid}/programs", s.requireAdmin(s.handle(s.assignPrograms))).Methods(http.MethodPost)
	api.HandleFunc("/initiatives/{uuid}/programs", s.requireAdmin(s.handle(s.unassignPrograms))).Methods(http.MethodDelete)

	api.HandleFunc("/programs", s.handle(s.listPrograms)).Methods(http.MethodGet)
	api.HandleFunc("/programs", s.requireAgency(s.handle(s.createProgram))).Methods(http.MethodPost)
	api.HandleFunc("/programs/{uuid}", s.handle(s.getProgram)).Methods(http.MethodGet)
	api.HandleFunc("/programs/{uuid}", s.requireAgency(s.handle(s.updateProgram))).Methods(http.MethodPut)
	api.HandleFunc("/programs/{uuid}", s.requireAgency(s.handle(s.deleteProgram))).Methods(http.MethodDelete)
	api.HandleFunc("/programs/{uuid}/reassign", s.requireAdmin(s.handle(s.reassignProgram))).Methods(http.MethodPost)

	api.HandleFunc("/periods", s.handle(s.listPeriods)).Methods(http.MethodGet)
	api.HandleFunc("/periods", s.requireAdmin(s.handle(s.createPeriod))).Methods(http.MethodPost)
	api.HandleFunc("/periods/current", s.handle(s.currentPeriod)).Methods(http.MethodGet)
	api.HandleFunc("/periods/{uuid}", s.handle(s.getPeriod)).Methods(http.MethodGet)
	api.HandleFunc("/periods/{uuid}/open", s.requireAdmin(s.handle(s.openPeriod))).Methods(http.MethodPost)
	api.HandleFunc("/periods/{uuid}/close", s.requireAdmin(s.handle(s.closePeriod))).Methods(http.MethodPost)

	api.HandleFunc("/submissions", s.handle(s.listSubmissions)).Methods(http.MethodGet)
	api.HandleFunc("/programs/{uuid}/periods/{period}/submission", s.handle(s.getSubmissionFor)).Methods(http.MethodGet)
	api.HandleFunc("/programs/{uuid}/periods/{period}/submission", s.requireAgency(s.handle(s.saveDraft))).Methods(http.MethodPut)
	api.HandleFunc("/submissions/{uuid}", s.handle(s.getSubmission)).Methods(http.MethodGet)
	api.HandleFunc("/submissions/{uuid}", s.requireAgency(s.handle(s.deleteSubmission))).Methods(http.MethodDelete)
	api.HandleFunc("/submissions/{uuid}/finalize", s.requireFocal(s.handle(s.finalizeSubmission))).Methods(http.MethodPost)
	api.HandleFunc("/submissions/{uuid}/unsubmit", s.requireFocal(s.handle(s.unsubmitSubmission))).Methods(http.MethodPost)
	api.HandleFunc("/submissions/{uuid}/reopen", s.requireAdmin(s.handle(s.reopenSubmission))).Methods(http.MethodPost)

	api.HandleFunc("/submissions/{uuid}/attachments", s.handle(s.listAttachments)).Methods(http.MethodGet)
	api.HandleFunc("/submissions/{uuid}/attachments", s.requireAgency(s.handle(s.uploadAttachment))).Methods(http.MethodPost)
	api.HandleFunc("/attachments/{uuid}", s.handle(s.downloadAttachment)).Methods(http.MethodGet)
	api.HandleFunc("/attachments/{uuid}", s.requireAgency(s.handle(s.deleteAttachment))).Methods(http.MethodDelete)

	api.HandleFunc("/notifications", s.handle(s.listNotifications)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", s.handle(s.markAllNotificationsRead)).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{uuid}/read", s.handle(s.markNotificationRead)).Methods(http.MethodPost)

	api.HandleFunc("/audit", s.requireAdmin(s.handle(s.listAudit))).Methods(http.MethodGet)

	return r
}

func (s *Server) healthz(w http.ResponseWriter, req *http.Request) error {
	s.sendStatusAndJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.clock.Now().UTC().Format(time.RFC3339),
	})
	return nil
}
