// Package v1 wires the HTTP surface of the transfer service. Handlers stay
// thin and delegate business rules to the service layer; the core engine never
// sees wire format.
package v1

import (
	"context"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cashwire/transferd/internal/service/account"
	"github.com/cashwire/transferd/internal/service/transfer"
)

// ReadyChecker verifies store connectivity for the readiness probe.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Server wires handlers and middleware using chi.
type Server struct {
	accountSvc  account.Service
	transferSvc transfer.Service
	ready       ReadyChecker
	log         *slog.Logger
	rt          *chi.Mux
}

// New constructs the HTTP server with routes and middleware. idem is the
// value store backing the Idempotency-Key middleware; nil disables it.
func New(arepo account.Repo, awriter account.Writer, trepo transfer.Repo, engine transfer.Engine, ready ReadyChecker, idem ValueStore, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		accountSvc:  account.New(arepo, awriter),
		transferSvc: transfer.New(trepo, engine),
		ready:       ready,
		rt:          r,
		log:         logger,
	}
	s.routes(idem)
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches per-route
// middleware.
func (s *Server) routes(idem ValueStore) {
	// Accounts (v1)
	s.rt.With(s.validateCreateAccount()).Post("/v1/accounts", s.postAccount)
	s.rt.Get("/v1/accounts", s.listAccounts)
	s.rt.Get("/v1/accounts/{id}", s.getAccount)
	s.rt.Delete("/v1/accounts/{id}", s.deleteAccount)
	s.rt.Get("/v1/accounts/{id}/transactions", s.listAccountTransactions)
	// Transactions (v1). Idempotency runs before validation so a cached
	// replay never re-enters the engine.
	if idem != nil {
		s.rt.With(idempotency(idem, s.log), s.validateCreateTransaction()).Post("/v1/transactions", s.postTransaction)
	} else {
		s.rt.With(s.validateCreateTransaction()).Post("/v1/transactions", s.postTransaction)
	}
	s.rt.Get("/v1/transactions", s.listTransactions)
	s.rt.Get("/v1/transactions/{id}", s.getTransaction)
	// Probes and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
