package chat

import (
	"strings"
	"sync"

	"techdesk-ai/internal/knowledge"
)

// globalTenant is the cache tenant used when a query names no agent.
const globalTenant = "global"

type cacheKey struct {
	tenant string
	query  string
	topK   int
}

// QueryCache memoizes recent retrieval results so repeated queries skip the
// embedding and vector search round trip. Eviction is strict FIFO on insert
// order; a hit does not refresh an entry's position. Entries live for the
// process lifetime with no TTL, so results can go stale after re-indexing.
type QueryCache struct {
	mu       sync.Mutex
	entries  map[cacheKey][]knowledge.Chunk
	order    []cacheKey
	capacity int
}

// NewQueryCache creates a cache bounded to capacity entries.
func NewQueryCache(capacity int) *QueryCache {
	return &QueryCache{
		entries:  make(map[cacheKey][]knowledge.Chunk, capacity),
		capacity: capacity,
	}
}

// normalizeKey lower-cases and trims the query so queries differing only in
// case or surrounding whitespace share an entry.
func normalizeKey(tenant, query string, topK int) cacheKey {
	if tenant == "" {
		tenant = globalTenant
	}
	return cacheKey{
		tenant: tenant,
		query:  strings.ToLower(strings.TrimSpace(query)),
		topK:   topK,
	}
}

// Lookup returns the cached chunks for (tenant, query, topK) and whether the
// entry was present.
func (c *QueryCache) Lookup(tenant, query string, topK int) ([]knowledge.Chunk, bool) {
	key := normalizeKey(tenant, query, topK)

	c.mu.Lock()
	defer c.mu.Unlock()
	chunks, ok := c.entries[key]
	return chunks, ok
}

// Store records retrieval results for (tenant, query, topK). When the cache
// is full, the oldest-inserted entry is evicted first. Re-storing an existing
// key replaces its value without changing its eviction position.
func (c *QueryCache) Store(tenant, query string, topK int, chunks []knowledge.Chunk) {
	key := normalizeKey(tenant, query, topK)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = chunks
		return
	}

	if len(c.entries) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = chunks
	c.order = append(c.order, key)
}

// Clear drops all entries.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey][]knowledge.Chunk, c.capacity)
	c.order = nil
}

// Len returns the current entry count.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
