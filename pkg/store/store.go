// Package store provides Postgres persistence for filtered characters with
// conflict-free, first-writer-wins insert semantics.
package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/characterhub/rickmorty-proxy/pkg/characters"
)

// ErrDisabled is returned by operations that require a live connection when
// the store was constructed without one.
var ErrDisabled = errors.New("store disabled")

// Store wraps a pgx connection pool. The pool is safe for concurrent use
// and is shared process-wide; a nil pool means persistence is disabled and
// every write is silently skipped.
type Store struct {
	pool     *pgxpool.Pool
	logger   zerolog.Logger
	squirrel sq.StatementBuilderType
}

// New connects to Postgres, bootstraps the schema and returns the store.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "unable to connect to database")
	}

	s := newStore(pool)

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	return s, nil
}

// NewWithPool creates a store over an existing pool (for tests).
func NewWithPool(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := newStore(pool)
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, errors.Wrap(err, "failed to initialize schema")
	}
	return s, nil
}

// NewDisabled creates a store with no backing connection. Writes become
// no-ops and Ping always fails.
func NewDisabled() *Store {
	return newStore(nil)
}

func newStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:     pool,
		logger:   log.With().Str("component", "store").Logger(),
		squirrel: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Enabled reports whether the store has a live connection pool.
func (s *Store) Enabled() bool {
	return s.pool != nil
}

// insertQuery builds the conditional insert for one character. An existing
// row with the same id is left untouched.
func (s *Store) insertQuery(fc characters.FilteredCharacter) sq.InsertBuilder {
	return s.squirrel.
		Insert("characters").
		Columns("id", "name", "status", "species", "origin").
		Values(fc.ID, fc.Name, fc.Status, fc.Species, fc.Origin).
		Suffix("ON CONFLICT (id) DO NOTHING")
}

// InsertCharacter inserts a character row unless one with the same id
// already exists. Duplicate ids are no-ops, not errors.
func (s *Store) InsertCharacter(ctx context.Context, fc characters.FilteredCharacter) error {
	if s.pool == nil {
		return ErrDisabled
	}

	query, args, err := s.insertQuery(fc).ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build insert query")
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to insert character %d", fc.ID)
	}

	return nil
}

// UpsertBestEffort persists a character without ever failing the caller.
// Failures are logged and swallowed; a disabled store skips silently.
func (s *Store) UpsertBestEffort(ctx context.Context, fc characters.FilteredCharacter) {
	if s.pool == nil {
		return
	}

	if err := s.InsertCharacter(ctx, fc); err != nil {
		s.logger.Error().Err(err).Int("id", fc.ID).Msg("Failed to store character")
	}
}

// CountCharacters returns the number of persisted rows.
func (s *Store) CountCharacters(ctx context.Context) (int, error) {
	if s.pool == nil {
		return 0, ErrDisabled
	}

	query, args, err := s.squirrel.Select("COUNT(*)").From("characters").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build count query")
	}

	var count int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count characters")
	}

	return count, nil
}

// Ping checks database reachability with a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return ErrDisabled
	}

	var one int
	if err := s.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return errors.Wrap(err, "database ping failed")
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
