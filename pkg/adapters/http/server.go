// Package http exposes a SUL to remote learners as a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/nvimsul"
	"github.com/aretw0/nvimsul/internal/logging"
	"github.com/aretw0/nvimsul/pkg/classifier"
	"github.com/aretw0/nvimsul/pkg/domain"
)

// SUL is what the API needs from the adapter.
type SUL interface {
	Query(ctx context.Context, word domain.Word) (domain.Trace, error)
	Reset(ctx context.Context) error
	Status() domain.AdapterStatus
}

// Server serves one SUL. Queries are serialized by the SUL itself.
type Server struct {
	SUL      SUL
	Alphabet domain.Alphabet
	Metrics  http.Handler
	Logger   *slog.Logger
}

// QueryRequest is the body of POST /query.
// A single string is accepted as a one-symbol word.
type QueryRequest struct {
	Word []string `mapstructure:"word"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the SUL.
func NewHandler(sul SUL, alphabet domain.Alphabet, opts ...Option) http.Handler {
	server := &Server{
		SUL:      sul,
		Alphabet: alphabet,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/alphabet", server.GetAlphabet)
	r.Get("/modes", server.GetModes)
	r.Get("/status", server.GetStatus)
	r.Post("/query", server.PostQuery)
	r.Post("/reset", server.PostReset)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.Logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "nvimsul-http",
		"version": strings.TrimSpace(nvimsul.Version),
	}, s.Logger)
}

// GetAlphabet handles the GET /alphabet request.
func (s *Server) GetAlphabet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Alphabet.Strings(), s.Logger)
}

// GetModes handles the GET /modes request: the classifier table.
func (s *Server) GetModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, classifier.Table(), s.Logger)
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": string(s.SUL.Status())}, s.Logger)
}

// PostQuery handles the POST /query request.
func (s *Server) PostQuery(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.fail(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body: %w", err))
		return
	}
	var req QueryRequest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &req,
	})
	if err == nil {
		err = dec.Decode(raw)
	}
	if err != nil {
		s.fail(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body: %w", err))
		return
	}

	word := make(domain.Word, len(req.Word))
	for i, k := range req.Word {
		sym := domain.Symbol(k)
		if !s.Alphabet.Contains(sym) {
			s.fail(w, http.StatusBadRequest, "unknown_symbol", fmt.Errorf("%w: %q", domain.ErrUnknownSymbol, k))
			return
		}
		word[i] = sym
	}

	trace, err := s.SUL.Query(r.Context(), word)
	if err != nil {
		status, kind := classify(err)
		s.fail(w, status, kind, err)
		return
	}
	writeJSON(w, http.StatusOK, trace, s.Logger)
}

// PostReset handles the POST /reset request.
func (s *Server) PostReset(w http.ResponseWriter, r *http.Request) {
	if err := s.SUL.Reset(r.Context()); err != nil {
		status, kind := classify(err)
		s.fail(w, status, kind, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(s.SUL.Status())}, s.Logger)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownSymbol):
		return http.StatusBadRequest, "unknown_symbol"
	case errors.Is(err, domain.ErrPrecondition):
		return http.StatusConflict, "precondition"
	case errors.Is(err, domain.ErrNonDeterminism):
		return http.StatusConflict, "non_determinism"
	case errors.Is(err, domain.ErrClassification):
		return http.StatusBadGateway, "classification"
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, domain.ErrLifecycle):
		return http.StatusServiceUnavailable, "lifecycle"
	}
	return http.StatusInternalServerError, "internal"
}

func (s *Server) fail(w http.ResponseWriter, status int, kind string, err error) {
	if status >= 500 {
		s.Logger.Error("request failed", "kind", kind, "error", err)
	} else {
		s.Logger.Warn("request rejected", "kind", kind, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind}, s.Logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
