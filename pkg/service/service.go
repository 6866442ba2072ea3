// Package service composes the request pipeline: cache lookup, upstream
// fetch, filter/sort, best-effort persistence and cache population.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/characterhub/rickmorty-proxy/pkg/cache"
	"github.com/characterhub/rickmorty-proxy/pkg/characters"
)

var charactersProcessed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "app_characters_processed_total",
	Help: "Number of characters processed after filtering",
})

// Fetcher retrieves one page of raw characters from the upstream source.
type Fetcher interface {
	FetchPage(ctx context.Context, page int) ([]characters.Character, error)
}

// ResultCache stores serialized result sets under canonical query keys.
// Implementations never fail the caller; unavailability reads as a miss.
type ResultCache interface {
	Get(ctx context.Context, key cache.Key) ([]byte, bool)
	Put(ctx context.Context, key cache.Key, payload []byte)
}

// Writer persists filtered characters best-effort.
type Writer interface {
	UpsertBestEffort(ctx context.Context, fc characters.FilteredCharacter)
}

// Query is a validated character listing request.
type Query struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Key returns the canonical cache key for the query.
func (q Query) Key() cache.Key {
	return cache.Key{
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
}

// Service orchestrates one request through the pipeline. Dependencies are
// injected so tests can substitute fakes.
type Service struct {
	fetcher Fetcher
	cache   ResultCache
	writer  Writer
	logger  zerolog.Logger
}

// New creates a service over the given collaborators.
func New(fetcher Fetcher, resultCache ResultCache, writer Writer) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   resultCache,
		writer:  writer,
		logger:  log.With().Str("component", "service").Logger(),
	}
}

// GetCharacters serves one request: cache lookup, on miss fetch + filter +
// sort, persist matches best-effort, populate the cache and return the
// serialized JSON array. Only the fetcher retries internally; cache and
// store failures never fail the request.
func (s *Service) GetCharacters(ctx context.Context, q Query) ([]byte, error) {
	key := q.Key()

	if payload, ok := s.cache.Get(ctx, key); ok {
		return payload, nil
	}

	raw, err := s.fetcher.FetchPage(ctx, q.Page)
	if err != nil {
		return nil, err
	}

	filtered := characters.Process(raw, q.SortBy, q.SortOrder, q.Limit)
	charactersProcessed.Add(float64(len(filtered)))

	for _, fc := range filtered {
		s.writer.UpsertBestEffort(ctx, fc)
	}

	payload, err := json.Marshal(filtered)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	s.cache.Put(ctx, key, payload)

	s.logger.Debug().
		Int("page", q.Page).
		Int("matched", len(filtered)).
		Msg("Served characters from upstream")

	return payload, nil
}
