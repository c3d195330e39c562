package similarity

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	defaultNumCounters = 1e6
	defaultMaxCost     = 64 << 20 // 64MB of vectors
	defaultBufferItems = 64
	defaultCacheTTL    = 24 * time.Hour
)

// CacheConfig configures the embedding cache
type CacheConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	TTL         time.Duration
}

// CachedEmbedder wraps an Embedder with a ristretto cache keyed by
// lowercase word. The cache is best-effort: ristretto may decline a write,
// which only costs a future provider round trip.
type CachedEmbedder struct {
	inner Embedder
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewCachedEmbedder creates a caching wrapper around the given embedder
func NewCachedEmbedder(inner Embedder, cfg CacheConfig) (*CachedEmbedder, error) {
	if cfg.NumCounters == 0 {
		cfg.NumCounters = defaultNumCounters
	}
	if cfg.MaxCost == 0 {
		cfg.MaxCost = defaultMaxCost
	}
	if cfg.BufferItems == 0 {
		cfg.BufferItems = defaultBufferItems
	}
	if cfg.TTL == 0 {
		cfg.TTL = defaultCacheTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &CachedEmbedder{inner: inner, cache: cache, ttl: cfg.TTL}, nil
}

// Dimension returns the wrapped embedder's dimension
func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

// Embed returns the cached vector for the word or fetches it
func (c *CachedEmbedder) Embed(ctx context.Context, word string) ([]float32, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if v, ok := c.cache.Get(word); ok {
		return v.([]float32), nil
	}

	vec, err := c.inner.Embed(ctx, word)
	if err != nil {
		return nil, err
	}
	c.cache.SetWithTTL(word, vec, int64(len(vec)*4), c.ttl)
	return vec, nil
}

// EmbedBatch resolves cached words locally and fetches only the misses in
// a single upstream call. With a fully warm cache no provider round trip
// happens at all.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, words []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(words))
	misses := make([]string, 0)

	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if v, ok := c.cache.Get(w); ok {
			out[w] = v.([]float32)
		} else {
			misses = append(misses, w)
		}
	}

	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.inner.EmbedBatch(ctx, misses)
	if err != nil {
		return nil, err
	}
	for w, vec := range fetched {
		out[w] = vec
		c.cache.SetWithTTL(w, vec, int64(len(vec)*4), c.ttl)
	}
	return out, nil
}

// Wait flushes pending cache writes. Intended for tests.
func (c *CachedEmbedder) Wait() {
	c.cache.Wait()
}

// Close releases the cache resources
func (c *CachedEmbedder) Close() {
	c.cache.Close()
}
