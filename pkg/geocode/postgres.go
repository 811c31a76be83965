package geocode

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the Postgres cache store needs. It is
// also satisfied by pgxmock for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresCacheStore implements CacheStore on a shared Postgres database,
// for teams that run the pipeline from more than one machine.
type PostgresCacheStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgresCacheStore connects to Postgres and ensures the cache table
// exists.
func NewPostgresCacheStore(ctx context.Context, connString string) (*PostgresCacheStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres cache: connect")
	}

	s := &PostgresCacheStore{pool: pool, closeFn: pool.Close}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresCacheStoreFromPool wraps an existing pool (used by tests).
func NewPostgresCacheStoreFromPool(pool Pool) *PostgresCacheStore {
	return &PostgresCacheStore{pool: pool, closeFn: func() {}}
}

func (s *PostgresCacheStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS geocode_cache (
			query     TEXT PRIMARY KEY,
			lon       DOUBLE PRECISION NOT NULL DEFAULT 0,
			lat       DOUBLE PRECISION NOT NULL DEFAULT 0,
			matched   BOOLEAN NOT NULL DEFAULT false,
			cached_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return eris.Wrap(err, "postgres cache: migrate")
}

// Load implements CacheStore.
func (s *PostgresCacheStore) Load(ctx context.Context) (map[string]Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT query, lon, lat, matched FROM geocode_cache`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres cache: load")
	}
	defer rows.Close()

	entries := make(map[string]Entry)
	for rows.Next() {
		var query string
		var e Entry
		if err := rows.Scan(&query, &e.Longitude, &e.Latitude, &e.Matched); err != nil {
			return nil, eris.Wrap(err, "postgres cache: scan entry")
		}
		entries[query] = e
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres cache: iterate entries")
	}
	return entries, nil
}

// Put implements CacheStore.
func (s *PostgresCacheStore) Put(ctx context.Context, entries map[string]Entry) error {
	for query, e := range entries {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO geocode_cache (query, lon, lat, matched, cached_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (query) DO UPDATE SET
				lon = EXCLUDED.lon,
				lat = EXCLUDED.lat,
				matched = EXCLUDED.matched,
				cached_at = now()`,
			query, e.Longitude, e.Latitude, e.Matched,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres cache: upsert %q", query)
		}
	}
	return nil
}

// Close implements CacheStore.
func (s *PostgresCacheStore) Close() error {
	s.closeFn()
	return nil
}
