package geocode

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteCacheStore implements CacheStore using modernc.org/sqlite.
type SQLiteCacheStore struct {
	db *sql.DB
}

// NewSQLiteCacheStore opens (creating if needed) a SQLite cache database at
// the given path and configures WAL mode.
func NewSQLiteCacheStore(dsn string) (*SQLiteCacheStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite cache: exec %s", pragma)
		}
	}

	s := &SQLiteCacheStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const sqliteCacheMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query     TEXT PRIMARY KEY,
	lon       REAL NOT NULL DEFAULT 0,
	lat       REAL NOT NULL DEFAULT 0,
	matched   INTEGER NOT NULL DEFAULT 0,
	cached_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteCacheStore) migrate() error {
	_, err := s.db.Exec(sqliteCacheMigration)
	return eris.Wrap(err, "sqlite cache: migrate")
}

// Load implements CacheStore.
func (s *SQLiteCacheStore) Load(ctx context.Context) (map[string]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT query, lon, lat, matched FROM geocode_cache`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite cache: load")
	}
	defer rows.Close() //nolint:errcheck

	entries := make(map[string]Entry)
	for rows.Next() {
		var query string
		var e Entry
		var matched int
		if err := rows.Scan(&query, &e.Longitude, &e.Latitude, &matched); err != nil {
			return nil, eris.Wrap(err, "sqlite cache: scan entry")
		}
		e.Matched = matched != 0
		entries[query] = e
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite cache: iterate entries")
	}
	return entries, nil
}

// Put implements CacheStore.
func (s *SQLiteCacheStore) Put(ctx context.Context, entries map[string]Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite cache: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO geocode_cache (query, lon, lat, matched, cached_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT (query) DO UPDATE SET
			lon = excluded.lon,
			lat = excluded.lat,
			matched = excluded.matched,
			cached_at = excluded.cached_at`)
	if err != nil {
		return eris.Wrap(err, "sqlite cache: prepare upsert")
	}
	defer stmt.Close() //nolint:errcheck

	for query, e := range entries {
		matched := 0
		if e.Matched {
			matched = 1
		}
		if _, err := stmt.ExecContext(ctx, query, e.Longitude, e.Latitude, matched); err != nil {
			return eris.Wrapf(err, "sqlite cache: upsert %q", query)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite cache: commit")
}

// Close implements CacheStore.
func (s *SQLiteCacheStore) Close() error {
	return s.db.Close()
}
