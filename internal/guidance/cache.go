package guidance

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"threecs/internal/scoring"
)

// DefaultCacheSize covers every valid score combination for every grade.
const DefaultCacheSize = 150 * 5

type cacheKey struct {
	culture, competence, commitment int
	grade                           scoring.Grade
}

// CacheObserver is notified on cache lookups. Metrics implementations satisfy it.
type CacheObserver interface {
	IncrementCacheHit()
	IncrementCacheMiss()
}

// CachedComposer memoizes Generate keyed by the full input tuple.
// Records are values, so cached entries cannot be mutated by callers.
type CachedComposer struct {
	cache    *lru.Cache[cacheKey, Record]
	observer CacheObserver
}

// CacheOption configures a CachedComposer.
type CacheOption func(*CachedComposer)

// WithCacheObserver reports hits and misses to o.
func WithCacheObserver(o CacheObserver) CacheOption {
	return func(c *CachedComposer) {
		c.observer = o
	}
}

// NewCachedComposer builds a CachedComposer holding up to size records.
func NewCachedComposer(size int, opts ...CacheOption) (*CachedComposer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, Record](size)
	if err != nil {
		return nil, fmt.Errorf("create guidance cache: %w", err)
	}
	c := &CachedComposer{cache: cache}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate implements Composer.
func (c *CachedComposer) Generate(culture, competence, commitment int, grade scoring.Grade) Record {
	key := cacheKey{culture: culture, competence: competence, commitment: commitment, grade: grade}
	if rec, ok := c.cache.Get(key); ok {
		if c.observer != nil {
			c.observer.IncrementCacheHit()
		}
		return rec
	}
	if c.observer != nil {
		c.observer.IncrementCacheMiss()
	}
	rec := Generate(culture, competence, commitment, grade)
	c.cache.Add(key, rec)
	return rec
}

// size returns the number of cached records.
func (c *CachedComposer) size() int {
	return c.cache.Len()
}
