// Package memory provides a retrieval-augmented memory layer for LLM
// sessions: free text in, ranked relevant fragments out.
//
// The write path chunks text into coherent fragments, scores each
// fragment's information density, and deduplicates against the store
// so near-identical content is merged instead of stored twice. The
// read path runs a vector similarity search and re-ranks results by a
// 70/30 blend of similarity and importance.
//
// Architecture:
//   - Manager: orchestrates store / retrieve / delete / list / count
//   - intelligence: the pure policy layer (chunker, scorer, dedup, ranker)
//   - VectorIndex: vector storage backend (chromem-go for local use)
//   - Embedder: text-to-vector conversion (ONNX all-MiniLM-L6-v2, or the
//     deterministic mock for tests and offline use)
//
// Both collaborators are interfaces so the core never depends on a
// concrete vector-database client and can be tested with deterministic
// fakes. One VectorIndex value corresponds to one collection; store and
// delete operations against it are serialized by the Manager.
package memory
