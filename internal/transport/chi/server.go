package chi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/domain"
	healthuc "github.com/kailas-cloud/moviematch/internal/usecase/health"
)

// Query limits applied when topn is absent or too large.
const (
	DefaultTopN = 10
	MaxTopN     = 100
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Limits bounds the topn query parameter.
type Limits struct {
	DefaultTopN int
	MaxTopN     int
}

// Server serves recommendation queries over HTTP.
type Server struct {
	recommender   domain.Recommender
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. Zero limits fall back to package defaults.
func NewServer(
	recommender domain.Recommender,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.DefaultTopN <= 0 {
		limits.DefaultTopN = DefaultTopN
	}
	if limits.MaxTopN <= 0 {
		limits.MaxTopN = MaxTopN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		recommender: recommender,
		health:      health,
		limits:      limits,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		noMatchHandler,
		sentinelHandler(domain.ErrNotFitted, http.StatusServiceUnavailable, ErrorCodeNotFitted),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeBadRequest),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/recommendations/title", s.RecommendByTitle)
	r.Get("/recommendations/keywords", s.RecommendByKeywords)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// RecommendByTitle handles GET /recommendations/title?title=&topn=.
func (s *Server) RecommendByTitle(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		s.handleDomainError(w, fmt.Errorf("title is required: %w", domain.ErrInvalidQuery))
		return
	}
	topN, err := s.topN(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.recommender.ByTitle(r.Context(), title, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationToResponse(res))
}

// RecommendByKeywords handles GET /recommendations/keywords?q=&topn=.
func (s *Server) RecommendByKeywords(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.handleDomainError(w, fmt.Errorf("q is required: %w", domain.ErrInvalidQuery))
		return
	}
	topN, err := s.topN(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.recommender.ByKeywords(r.Context(), q, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationToResponse(res))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	resp := HealthResponse{
		Status:  string(report.Status),
		ModelID: report.ModelID,
		Checks:  checks,
	}
	if !report.FittedAt.IsZero() {
		resp.FittedAt = report.FittedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, httpStatus, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// topN parses the topn parameter. Absent means the default; values above the
// maximum are clamped.
func (s *Server) topN(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("topn")
	if raw == "" {
		return s.limits.DefaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("topn must be a positive integer, got %q: %w", raw, domain.ErrInvalidQuery)
	}
	return min(n, s.limits.MaxTopN), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Invalid query details are the caller's own input and pass through.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidQuery) {
		return err.Error()
	}
	for _, s := range []error{domain.ErrNotFitted, domain.ErrNoMatch} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// noMatchHandler reports the closest catalog title alongside the 404.
func noMatchHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrNoMatch) {
		return false
	}
	resp := NoMatchResponse{ErrorResponse: ErrorResponse{Code: ErrorCodeNoMatch, Message: msg}}
	var nm *domain.NoMatchError
	if errors.As(err, &nm) {
		resp.BestMatch = nm.BestMatch
		resp.Score = nm.Score
	}
	writeJSON(w, http.StatusNotFound, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
