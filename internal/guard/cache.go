package guard

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry is a stored response snapshot with its storage time.
type cacheEntry struct {
	// response is the cloned response snapshot.
	response *Response
	// storedAt is when the snapshot was stored.
	storedAt time.Time
}

// responseCache stores response snapshots for idempotent requests,
// keyed by "METHOD:url". Freshness is enforced lazily: an entry older
// than the configured duration is dropped on lookup, never by a
// background sweep. The LRU backing store only bounds memory for
// callers with unbounded key spaces; it does not change freshness.
type responseCache struct {
	// entries is the bounded backing store. The lru.Cache is safe for
	// concurrent use, so no extra locking is needed here.
	entries *lru.Cache[string, *cacheEntry]
	// duration is the freshness window for stored entries.
	duration time.Duration
	// now returns the current time; overridable in tests.
	now func() time.Time
}

// newResponseCache creates a cache with the given capacity and freshness window.
func newResponseCache(capacity int, duration time.Duration) (*responseCache, error) {
	entries, err := lru.New[string, *cacheEntry](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}

	return &responseCache{
		entries:  entries,
		duration: duration,
		now:      time.Now,
	}, nil
}

// cacheKey builds the lookup key for a request.
// The query string is part of the key and is deliberately not normalized:
// two URLs with reordered query parameters are distinct keys.
func cacheKey(request *Request) string {
	return request.Method + ":" + request.URL
}

// isCacheable reports whether responses to the request may be cached.
// Only idempotent read methods qualify.
func isCacheable(request *Request) bool {
	return strings.EqualFold(request.Method, http.MethodGet) ||
		strings.EqualFold(request.Method, http.MethodHead)
}

// lookup returns a fresh cached response for the request, or nil on a miss.
// Expired entries are evicted here and reported as misses.
func (c *responseCache) lookup(request *Request) *Response {
	key := cacheKey(request)

	entry, ok := c.entries.Get(key)
	if !ok {
		return nil
	}

	if c.now().Sub(entry.storedAt) >= c.duration {
		c.entries.Remove(key)

		return nil
	}

	response := entry.response.Clone()
	response.Source = SourceCache

	return response
}

// store snapshots the response for the request.
// The clone makes the cached entry immune to later mutation
// of the live response object.
func (c *responseCache) store(request *Request, response *Response) {
	c.entries.Add(cacheKey(request), &cacheEntry{
		response: response.Clone(),
		storedAt: c.now(),
	})
}
