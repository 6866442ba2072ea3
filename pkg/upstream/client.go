// Package upstream provides the HTTP client for the paginated character
// API, with bounded retry and exponential backoff on transient failures.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/characterhub/rickmorty-proxy/pkg/characters"
)

// DefaultBaseURL is the public character API endpoint.
const DefaultBaseURL = "https://rickandmortyapi.com/api/character"

// Prometheus metrics for upstream requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total upstream requests by status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})
)

// pageResponse is the envelope of a paginated upstream response.
type pageResponse struct {
	Results []characters.Character `json:"results"`
}

// Config holds the fetcher configuration.
type Config struct {
	// BaseURL is the character API endpoint, queried as BaseURL?page=<n>.
	BaseURL string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// Retry controls the backoff policy for transient failures.
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 10 * time.Second,
		Retry:   DefaultRetryConfig(),
	}
}

// Client fetches character pages from the upstream API.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new upstream client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "upstream").Logger(),
	}, nil
}

// FetchPage retrieves one page of characters. Rate-limited (429) and
// network-level failures are retried with exponential backoff up to the
// configured attempt ceiling; any other non-200 status fails immediately
// with an *Error carrying the upstream status code.
func (c *Client) FetchPage(ctx context.Context, page int) ([]characters.Character, error) {
	url := fmt.Sprintf("%s?page=%d", c.config.BaseURL, page)

	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	var result pageResponse

	err := retryWithBackoff(ctx, c.config.Retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error().Err(err).Int("page", page).Msg("Upstream request failed")
			requestsTotal.WithLabelValues("network_error").Inc()
			return err
		}
		defer resp.Body.Close()

		requestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusTooManyRequests {
			c.logger.Warn().Int("page", page).Msg("Upstream rate limited")
			return &Error{StatusCode: resp.StatusCode, Message: "rate limited"}
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Warn().
				Int("page", page).
				Int("status", resp.StatusCode).
				Msg("Upstream request error")
			return &Error{StatusCode: resp.StatusCode, Message: resp.Status}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if err := json.Unmarshal(body, &result); err != nil {
			// A malformed body is not transient, fail the fetch.
			return &Error{
				StatusCode: http.StatusBadGateway,
				Message:    "invalid upstream payload",
				Err:        err,
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("page", page).
		Int("count", len(result.Results)).
		Msg("Fetched upstream page")

	return result.Results, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
