package memory

import "context"

// Embedder converts text to vector embeddings.
// Implementations: mock (testing, offline), onnx (all-MiniLM-L6-v2),
// cache (ristretto read-through wrapper around either).
//
// Embed must be deterministic for identical input within a model
// version and fail on input that is empty after whitespace
// normalization.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// VectorIndex is the persistent vector storage backend. One value
// corresponds to one collection. Implementations: chromem (embedded,
// optionally persistent).
//
// Query returns at most k matches ordered by descending cosine
// similarity. Delete returns ErrNotFound for unknown IDs.
type VectorIndex interface {
	// Add inserts a new fragment with its embedding.
	Add(ctx context.Context, rec Record) error

	// Update overwrites an existing fragment entry in full.
	Update(ctx context.Context, rec Record) error

	// Query retrieves the k nearest stored fragments by cosine
	// similarity.
	Query(ctx context.Context, embedding []float32, k int) ([]RawMatch, error)

	// Delete removes a fragment permanently.
	Delete(ctx context.Context, id string) error

	// GetAll returns stored fragments, up to limit when limit > 0.
	GetAll(ctx context.Context, limit int) ([]Fragment, error)

	// Count returns the number of stored fragments.
	Count(ctx context.Context) (int, error)
}
