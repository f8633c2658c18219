package memory

import "time"

// Fragment is the unit of storage: an independently retrievable piece
// of text with its own metadata. Its embedding lives in the vector
// index, keyed by the fragment ID.
type Fragment struct {
	// ID is opaque, stable and unique within a collection. IDs are
	// never reused after deletion.
	ID string

	// Content is the fragment text. Never empty for a stored fragment.
	Content string

	// SessionIDs records the originating sessions. Merging two
	// near-duplicate fragments unions their session sets.
	SessionIDs []string

	// Importance is the information-density score in [0,1].
	Importance float64

	// CreatedAt is the creation time of the fragment. A merge keeps
	// the existing fragment's CreatedAt.
	CreatedAt time.Time

	// Sequence is the chunk index within the source text, kept for
	// reassembly and debugging.
	Sequence int
}

// Record is a fragment together with its embedding, as written to the
// vector index.
type Record struct {
	Fragment
	Embedding []float32
}

// RawMatch is a similarity-search result straight from the vector
// index, before ranking.
type RawMatch struct {
	ID         string
	Content    string
	Similarity float64
	Importance float64
	SessionIDs []string
	CreatedAt  time.Time
	Sequence   int

	// Embedding is the stored vector, needed by the deduplicator when
	// the match is a merge candidate.
	Embedding []float32
}

// RankedResult is a raw match with its combined retrieval score
// (0.70 x similarity + 0.30 x importance), computed at query time.
type RankedResult struct {
	RawMatch
	Combined float64
}
