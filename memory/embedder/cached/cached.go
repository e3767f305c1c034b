// Package cached decorates an Embedder with a ristretto cache.
//
// Embedding is the expensive step of every Add and Search, and chat
// sessions re-embed overlapping text constantly (the query at add
// time, the same text at search time). Caching by content hash is safe
// because embedders are deterministic.
package cached

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/onceagainarise/repo-surfer/memory"
)

// Embedder wraps an inner Embedder with an in-process cache keyed by
// the SHA-256 of the text.
type Embedder struct {
	inner memory.Embedder
	cache *ristretto.Cache
}

// New creates a caching embedder holding up to maxEntries vectors.
func New(inner memory.Embedder, maxEntries int64) (*Embedder, error) {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cached: create cache: %w", err)
	}
	return &Embedder{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, computing and caching it
// on miss.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	// ristretto hashes only string/[]byte/integer keys and panics on
	// anything else, so the digest goes in as a byte slice.
	digest := sha256.Sum256([]byte(text))
	key := digest[:]

	if hit, ok := e.cache.Get(key); ok {
		if vec, ok := hit.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	// Wait makes the write visible immediately; Set alone is async and
	// interactive sessions would miss the cache on the very next call.
	e.cache.Set(key, vec, 1)
	e.cache.Wait()
	return vec, nil
}

// Dimensions returns the inner embedder's vector size.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}

// Close releases the cache's internal goroutines.
func (e *Embedder) Close() {
	e.cache.Close()
}
