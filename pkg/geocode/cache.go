package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Entry is one cached geocode outcome. Failures are cached too
// (Matched=false) so a known-bad query costs no further network calls.
type Entry struct {
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
	Matched   bool    `json:"matched"`
}

// Cache is the in-run geocode cache: loaded once at construction, appended
// by the single processing goroutine, flushed once at the end. No locking —
// there is no concurrent writer.
type Cache struct {
	store   CacheStore
	entries map[string]Entry
	dirty   map[string]Entry
	hits    int
	misses  int
}

var cacheSpaceRe = regexp.MustCompile(`\s+`)

// CacheKey canonicalizes a query string for cache lookup: lower-cased with
// whitespace collapsed.
func CacheKey(query string) string {
	return strings.TrimSpace(cacheSpaceRe.ReplaceAllString(strings.ToLower(query), " "))
}

// QueryString builds the canonical "address, city, state zip" query.
func QueryString(address, city, state, zip string) string {
	return fmt.Sprintf("%s, %s, %s %s", strings.TrimSpace(address),
		strings.TrimSpace(city), strings.TrimSpace(state), strings.TrimSpace(zip))
}

// NewCache loads all persisted entries from the store.
func NewCache(ctx context.Context, store CacheStore) (*Cache, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: load cache")
	}
	if entries == nil {
		entries = make(map[string]Entry)
	}
	zap.L().Info("geocode cache loaded", zap.Int("entries", len(entries)))
	return &Cache{
		store:   store,
		entries: entries,
		dirty:   make(map[string]Entry),
	}, nil
}

// Lookup returns the cached entry for a query, counting the hit or miss.
func (c *Cache) Lookup(query string) (Entry, bool) {
	e, ok := c.entries[CacheKey(query)]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return e, ok
}

// Store records a fresh result. The entry is visible to later Lookups in the
// same run and persisted on Flush.
func (c *Cache) Store(query string, e Entry) {
	key := CacheKey(query)
	c.entries[key] = e
	c.dirty[key] = e
}

// Hits returns the number of cache hits so far.
func (c *Cache) Hits() int { return c.hits }

// Misses returns the number of cache misses so far.
func (c *Cache) Misses() int { return c.misses }

// Len returns the total number of entries held.
func (c *Cache) Len() int { return len(c.entries) }

// Flush persists entries added during this run.
func (c *Cache) Flush(ctx context.Context) error {
	if len(c.dirty) == 0 {
		return nil
	}
	if err := c.store.Put(ctx, c.dirty); err != nil {
		return eris.Wrap(err, "geocode: flush cache")
	}
	zap.L().Info("geocode cache flushed", zap.Int("new_entries", len(c.dirty)))
	c.dirty = make(map[string]Entry)
	return nil
}

// ImportJSON merges a legacy JSON cache snapshot (query → [lat, lon], null
// for recorded failures) into the cache. Imported entries are persisted on
// the next Flush.
func (c *Cache) ImportJSON(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, eris.Wrapf(err, "geocode: read cache snapshot %s", path)
	}

	var raw map[string][]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, eris.Wrap(err, "geocode: parse cache snapshot")
	}

	imported := 0
	for query, pair := range raw {
		key := CacheKey(query)
		if _, exists := c.entries[key]; exists {
			continue
		}
		e := Entry{Matched: false}
		if len(pair) == 2 && pair[0] != nil && pair[1] != nil {
			// Legacy snapshots store [lat, lon].
			e = Entry{Latitude: *pair[0], Longitude: *pair[1], Matched: true}
		}
		c.entries[key] = e
		c.dirty[key] = e
		imported++
	}
	return imported, nil
}
