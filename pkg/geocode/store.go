package geocode

import "context"

// CacheStore persists geocode cache entries between runs.
type CacheStore interface {
	// Load returns every persisted entry keyed by canonical query.
	Load(ctx context.Context) (map[string]Entry, error)

	// Put upserts the given entries.
	Put(ctx context.Context, entries map[string]Entry) error

	// Close releases the underlying connection.
	Close() error
}
