// Package mock provides a deterministic, offline embedder for tests
// and for running the memory system without a model file. It has no
// semantic understanding: identical text maps to identical vectors,
// different text to (almost certainly) dissimilar ones.
package mock

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
)

// Embedder generates deterministic embeddings from a text hash.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder with all-MiniLM-L6-v2 dimensions.
func New() *Embedder {
	return &Embedder{dimensions: 384}
}

// Embed creates a deterministic unit-length embedding from text.
// Whitespace is normalized first so trivially reformatted duplicates
// still collide; input that is empty after normalization is an error.
func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil, errors.New("cannot embed empty text")
	}

	h := fnv.New64a()
	h.Write([]byte(normalized))
	seed := h.Sum64()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		// LCG stream seeded by the text hash.
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (m *Embedder) Dimensions() int {
	return m.dimensions
}

// normalize converts the embedding to a unit vector.
func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized
}
