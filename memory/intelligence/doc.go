// Package intelligence contains the policy layer of the memory system:
// the text chunker, the importance scorer, the near-duplicate resolver
// and the retrieval ranker.
//
// Everything in this package is pure: no I/O, no clocks, no randomness.
// The manager feeds it embeddings and index candidates and applies its
// decisions; the functions here only decide.
//
// Tunables are package constants so behaviour is stable across calls:
//   - MaxChunkSize / MinChunkSize bound chunk sizes (500 / 20 characters)
//   - MergeThreshold is the near-duplicate cosine similarity (0.92)
//   - SimilarityWeight / ImportanceWeight blend the retrieval score (0.70 / 0.30)
//   - the importance sub-score weights are 0.40 vocabulary, 0.30 structure,
//     0.30 factual density
package intelligence
