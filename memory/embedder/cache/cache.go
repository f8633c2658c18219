// Package cache provides a read-through embedding cache. The store
// path re-embeds recurring content (every chunk is embedded before the
// dedup check), so caching by exact text saves repeated model calls.
package cache

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/armcknight/cache-for-clankers/memory"
)

// Embedder wraps another embedder with a ristretto cache keyed by the
// exact input text. Safe for concurrent use.
type Embedder struct {
	inner memory.Embedder
	cache *ristretto.Cache
}

var _ memory.Embedder = (*Embedder)(nil)

// New wraps inner with a cache holding up to maxBytes of embedding
// data (cost is counted in vector bytes).
func New(inner memory.Embedder, maxBytes int64) (*Embedder, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Embedder{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, or embeds and caches it.
// Errors from the inner embedder are never cached.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached.([]float32), nil
	}

	embedding, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.Set(text, embedding, int64(len(embedding)*4))
	return embedding, nil
}

// Dimensions returns the inner embedder's vector size.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}

// Wait blocks until buffered cache writes are applied. Ristretto
// applies Set asynchronously; tests call this before asserting hits.
func (e *Embedder) Wait() {
	e.cache.Wait()
}

// Close releases cache resources.
func (e *Embedder) Close() {
	e.cache.Close()
}
