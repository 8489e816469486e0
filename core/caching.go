package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// currentCacheVersion defines the version of the cached result schema.
const currentCacheVersion = 1

// ResultCache holds aggregated time-series results keyed by normalized request
// signature. Values cross a JSON encode/decode boundary on every read and
// write, so no two callers can observe or mutate shared state.
//
// The cache is in-process first; when a durable contract.CacheStore is
// attached, entries survive restarts. TTL is explicit and configurable
// (0 = entries never expire).
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
	store   contract.CacheStore
}

type cacheEntry struct {
	data      []byte
	timestamp time.Time
}

// NewResultCache creates a cache with the given TTL and optional durable store.
func NewResultCache(ttl time.Duration, store contract.CacheStore) *ResultCache {
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		store:   store,
	}
}

// WithClock overrides the cache's clock. For deterministic tests.
func (c *ResultCache) WithClock(now func() time.Time) *ResultCache {
	c.now = now
	return c
}

// Get returns an independent copy of the cached result for key, if present and
// fresh. The in-memory tier is consulted first, then the durable store.
func (c *ResultCache) Get(key string) (*schema.TimeSeriesResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok && c.fresh(entry.timestamp) {
		if result := decodeResult(entry.data); result != nil {
			return result, true
		}
	}

	if c.store != nil {
		data, version, ts, err := c.store.Get(key)
		if err == nil && version == currentCacheVersion && c.fresh(time.Unix(ts, 0)) {
			if result := decodeResult(data); result != nil {
				// Promote to the in-memory tier.
				c.entries[key] = cacheEntry{data: data, timestamp: time.Unix(ts, 0)}
				return result, true
			}
		}
	}
	return nil, false
}

// Put stores a deep copy of the result under key.
func (c *ResultCache) Put(key string, result *schema.TimeSeriesResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	now := c.now()

	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, timestamp: now}
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.Set(key, data, currentCacheVersion, now.Unix())
	}
}

// Len reports the number of in-memory entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) fresh(ts time.Time) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(ts) <= c.ttl
}

func decodeResult(data []byte) *schema.TimeSeriesResult {
	var result schema.TimeSeriesResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

// cacheKey creates a unique key from the normalized request signature plus the
// year range. Identical logical requests hash identically regardless of
// variable ordering.
func cacheKey(desc *schema.RequestDescriptor, primaryCode string, startYear, endYear int) string {
	codes := make([]string, len(desc.VariableCodes))
	copy(codes, desc.VariableCodes)
	sort.Strings(codes)

	metrics := make([]string, 0, len(desc.Metrics))
	for _, m := range desc.Metrics {
		metrics = append(metrics, string(m))
	}
	sort.Strings(metrics)

	parents := make([]string, 0, len(desc.InClauses))
	for k, v := range desc.InClauses {
		parents = append(parents, k+"="+v)
	}
	sort.Strings(parents)

	key := fmt.Sprintf("%s:%s:%s:%s:%s:%s:%d:%d",
		desc.Level,
		desc.ForClause,
		strings.Join(parents, ","),
		strings.Join(codes, ","),
		strings.Join(metrics, ","),
		primaryCode,
		startYear,
		endYear,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
