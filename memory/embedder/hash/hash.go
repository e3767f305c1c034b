// Package hash provides a deterministic, content-addressable embedder.
//
// Vectors are derived from a cryptographic hash of the text, so the
// same text always maps to the same unit vector and distinct texts map
// to uncorrelated ones. The vectors carry no semantic meaning: nearby
// texts do not get nearby embeddings. This is a placeholder that keeps
// the memory store functional offline; similarity search only becomes
// meaningful with a real model (see the onnx embedder).
package hash

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// DefaultDimensions matches the all-MiniLM-L6-v2 vector size, so the
// hash embedder can be swapped for the real one without reindexing
// configuration.
const DefaultDimensions = 384

// Embedder generates deterministic hash-derived embeddings.
type Embedder struct {
	dimensions int
}

// New creates a hash embedder with DefaultDimensions.
func New() *Embedder {
	return &Embedder{dimensions: DefaultDimensions}
}

// NewWithDimensions creates a hash embedder with a custom vector size.
func NewWithDimensions(dimensions int) *Embedder {
	return &Embedder{dimensions: dimensions}
}

// Embed converts text to a unit vector seeded by its SHA-256 digest.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))
	seed := binary.BigEndian.Uint64(digest[:8])

	embedding := make([]float32, e.dimensions)
	for i := range embedding {
		// LCG over the hash seed gives a full deterministic vector
		// from a single digest.
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// normalize scales the vector to unit length so cosine similarity
// behaves.
func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
