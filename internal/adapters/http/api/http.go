// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/pitwall/internal/adapters/http/swagger"
	service "github.com/okian/pitwall/internal/app"
	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/internal/domain/transfers"
	"github.com/okian/pitwall/internal/domain/types"
	"github.com/okian/pitwall/pkg/logger"
	"github.com/okian/pitwall/pkg/metrics"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	Catalog(ctx context.Context) (types.Catalog, error)
	Weights(ctx context.Context, racesCompleted *int) (types.Weights, error)
	Suggest(ctx context.Context, req service.SuggestRequest) (service.Suggestion, error)
	Transfers(ctx context.Context, from, to model.Roster) (transfers.Transfers, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	candidatesHandler *CandidatesHandler
	suggestHandler    *SuggestHandler

	suggestTimeout time.Duration
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithSuggestTimeout bounds how long a single /suggest search may run.
func WithSuggestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.suggestTimeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(deps),
		candidatesHandler: NewCandidatesHandler(deps),
		suggestHandler:    NewSuggestHandler(deps),
		suggestTimeout:    30 * time.Second,
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router with every route attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Get("/candidates", s.candidatesHandler.HandleCandidates)
	r.Get("/weights", s.candidatesHandler.HandleWeights)
	r.With(chiMiddleware.Timeout(s.suggestTimeout)).Post("/suggest", s.suggestHandler.HandleSuggest)
	r.Post("/transfers", s.suggestHandler.HandleTransfers)

	swagger.Register(r)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeUpstreamError maps err with statusFor and writes it.
func writeUpstreamError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// decodeBody reads a single JSON value into v. An empty body leaves v
// untouched; anything after the first value is rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after the JSON body", ErrBadRequest)
	}
	return nil
}
