// Package api exposes the HTTP surface of the proxy: the character listing
// endpoint, the healthcheck and the metrics handler.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/characterhub/rickmorty-proxy/pkg/characters"
	"github.com/characterhub/rickmorty-proxy/pkg/health"
	"github.com/characterhub/rickmorty-proxy/pkg/ratelimit"
	"github.com/characterhub/rickmorty-proxy/pkg/service"
	"github.com/characterhub/rickmorty-proxy/pkg/upstream"
)

// CharacterService serves validated character queries.
type CharacterService interface {
	GetCharacters(ctx context.Context, q service.Query) ([]byte, error)
}

// HealthChecker reports dependency liveness.
type HealthChecker interface {
	Check(ctx context.Context) health.Status
}

// Server wires the HTTP handlers.
type Server struct {
	service CharacterService
	probe   HealthChecker
	limiter *ratelimit.Limiter
	logger  zerolog.Logger
}

// NewServer creates a server over the given collaborators.
func NewServer(svc CharacterService, probe HealthChecker, limiter *ratelimit.Limiter) *Server {
	return &Server{
		service: svc,
		probe:   probe,
		limiter: limiter,
		logger:  log.With().Str("component", "api").Logger(),
	}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/characters", s.rateLimited(s.handleCharacters))
	mux.HandleFunc("/healthcheck", s.handleHealthcheck)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// rateLimited rejects clients that exceed their request budget with 429.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", r.URL.RawQuery).Msg("Invalid query parameters")
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}

	payload, err := s.service.GetCharacters(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	status := s.probe.Check(r.Context())

	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// writeServiceError maps pipeline failures to HTTP statuses. Upstream
// errors propagate their status code; everything else is a 500. Bodies stay
// generic, full detail goes to the server log only.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		s.logger.Error().Err(err).Int("status", ue.StatusCode).Msg("Upstream fetch failed")
		writeError(w, ue.StatusCode, "Upstream request failed")
		return
	}

	s.logger.Error().Err(err).Msg("Unhandled error")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// parseQuery validates the listing parameters, applying the documented
// defaults: page=1, limit=10, sort_by=id, sort_order=asc.
func parseQuery(r *http.Request) (service.Query, error) {
	q := service.Query{
		Page:      1,
		Limit:     10,
		SortBy:    characters.SortByID,
		SortOrder: characters.OrderAsc,
	}

	values := r.URL.Query()

	if v := values.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return q, errors.New("page must be an integer >= 1")
		}
		q.Page = page
	}

	if v := values.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 50 {
			return q, errors.New("limit must be an integer in [1, 50]")
		}
		q.Limit = limit
	}

	if v := values.Get("sort_by"); v != "" {
		if v != characters.SortByID && v != characters.SortByName {
			return q, errors.New("sort_by must be one of: id, name")
		}
		q.SortBy = v
	}

	if v := values.Get("sort_order"); v != "" {
		if v != characters.OrderAsc && v != characters.OrderDesc {
			return q, errors.New("sort_order must be one of: asc, desc")
		}
		q.SortOrder = v
	}

	return q, nil
}

// clientIP extracts the client address for rate limiting, honoring
// X-Forwarded-For when present. The header may carry a comma-separated
// proxy chain; the originating client is the first entry.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
