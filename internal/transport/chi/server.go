// Package chi exposes the search pipeline over HTTP with a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	domsearch "github.com/lighthouse-careers/agentsearch/internal/domain/search"
	healthuc "github.com/lighthouse-careers/agentsearch/internal/usecase/health"
	usageuc "github.com/lighthouse-careers/agentsearch/internal/usecase/usage"
)

// maxBodyBytes bounds a search request body; the query itself is at most 500 characters.
const maxBodyBytes = 16 << 10

// Response headers carrying per-request token spend.
const (
	HeaderEmbeddingTokens = "X-Embedding-Tokens"
	HeaderLLMTokens       = "X-LLM-Tokens"
)

// SearchRequest is the body of POST /api/v1/search. A missing limit selects the default.
type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// Server serves the search API.
type Server struct {
	search        Searcher
	usage         UsageReporter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, usage UsageReporter, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		search:        search,
		usage:         usage,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Get("/usage", s.GetUsage)
	})
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		msg := "Invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, msg)
		return
	}

	req, err := searchRequestFromBody(body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Search(ctx, req)
	setUsageHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func searchRequestFromBody(body SearchRequest) (domsearch.Request, error) {
	// An explicit zero is out of range; only an absent limit selects the default.
	if body.Limit != nil && *body.Limit <= 0 {
		return domsearch.Request{}, fmt.Errorf("%w: limit must be between 1 and %d",
			domain.ErrInvalidRequest, domsearch.MaxLimit)
	}
	limit := 0
	if body.Limit != nil {
		limit = *body.Limit
	}
	req, err := domsearch.NewRequest(body.Query, limit)
	if err != nil {
		return domsearch.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return req, nil
}

// GetUsage handles GET /api/v1/usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := usageuc.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.usage.GetReport(r.Context(), period))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.Usage) {
	if tokens, used := usage.EmbeddingTokens(); used {
		w.Header().Set(HeaderEmbeddingTokens, strconv.Itoa(tokens))
	}
	if tokens := usage.LLMTokens(); tokens > 0 {
		w.Header().Set(HeaderLLMTokens, strconv.Itoa(tokens))
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger
	if id := middleware.GetReqID(r.Context()); id != "" {
		log = log.With(zap.String("request_id", id))
	}
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
