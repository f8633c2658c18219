package memory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/armcknight/cache-for-clankers/memory/intelligence"
)

// Manager orchestrates the intelligence layer against the vector index
// and embedding collaborators. It exposes the five memory operations:
// Store, Retrieve, Delete, ListAll and Count.
//
// Store and Delete serialize on an internal mutex held for the full
// check-then-act span of each operation: without it, two concurrent
// stores of near-duplicate content could both observe no
// sufficiently-similar candidate and both insert. Reads take no lock.
type Manager struct {
	index    VectorIndex
	embedder Embedder
	config   *Config

	mu sync.Mutex // single writer per collection
}

// Config holds Manager tunables.
type Config struct {
	// CandidateMultiplier scales the requested result count when
	// over-fetching raw matches from the index, leaving headroom for
	// the importance filter. Default: 3.
	CandidateMultiplier int

	// DedupCandidates is how many nearest neighbours the duplicate
	// check inspects per chunk. Default: 5.
	DedupCandidates int
}

// DefaultConfig returns sensible defaults.
var DefaultConfig = &Config{
	CandidateMultiplier: 3,
	DedupCandidates:     5,
}

// NewManager creates a Manager over the given index and embedder.
func NewManager(index VectorIndex, embedder Embedder, config *Config) *Manager {
	if config == nil {
		config = DefaultConfig
	}
	return &Manager{
		index:    index,
		embedder: embedder,
		config:   config,
	}
}

// Store chunks text, scores each chunk, and writes each chunk to the
// index, merging into an existing near-duplicate entry when one
// exists. It returns the resulting fragment IDs (merged or inserted)
// in chunk order.
//
// Failure is atomic per chunk: a failing chunk stops the operation,
// already-committed IDs are still returned, and the error is a
// *ChunkError naming the failing chunk index.
func (m *Manager) Store(ctx context.Context, text string, sessionID string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Reason: "empty or whitespace-only content"}
	}

	pieces := intelligence.Chunk(text)

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		// A cancelled store must not leave a partially written
		// fragment, so cancellation is only observed between chunks.
		if err := ctx.Err(); err != nil {
			return ids, &ChunkError{Index: piece.Index, Err: err}
		}
		id, err := m.storeChunk(ctx, piece, sessionID)
		if err != nil {
			return ids, &ChunkError{Index: piece.Index, Err: err}
		}
		ids = append(ids, id)
	}

	log.Printf("[MEMORY] Stored %d chunk(s) for session %q", len(ids), sessionID)
	return ids, nil
}

// storeChunk runs the per-chunk write sequence: score, embed, query
// dedup candidates, resolve, then merge or insert. Caller holds m.mu.
func (m *Manager) storeChunk(ctx context.Context, piece intelligence.Piece, sessionID string) (string, error) {
	content := strings.TrimSpace(piece.Content)
	importance := intelligence.Score(content)

	embedding, err := m.embedder.Embed(ctx, content)
	if err != nil {
		return "", &CollaboratorError{Op: "embed content", Err: err}
	}

	matches, err := m.index.Query(ctx, embedding, m.config.DedupCandidates)
	if err != nil {
		return "", &CollaboratorError{Op: "query dedup candidates", Err: err}
	}

	decision, err := intelligence.Resolve(embedding, toCandidates(matches))
	if err != nil {
		// Defensive check tripped: the index handed back malformed
		// embeddings. Logged and surfaced as a collaborator failure.
		log.Printf("[MEMORY] Dedup received malformed candidates: %v", err)
		return "", &CollaboratorError{Op: "resolve duplicates", Err: err}
	}

	if decision.Merge {
		return m.mergeChunk(ctx, decision, matches, embedding, content, importance, sessionID)
	}

	frag := Fragment{
		ID:         uuid.New().String(),
		Content:    content,
		SessionIDs: sessionSet(sessionID),
		Importance: importance,
		CreatedAt:  time.Now().UTC(),
		Sequence:   piece.Index,
	}
	if err := m.index.Add(ctx, Record{Fragment: frag, Embedding: embedding}); err != nil {
		return "", &CollaboratorError{Op: "add fragment", Err: err}
	}

	log.Printf("[MEMORY] Inserted fragment %s (importance=%.3f)", frag.ID, importance)
	return frag.ID, nil
}

// mergeChunk overwrites the merge target in full with the merged
// content, metadata and matching embedding. The target keeps its ID,
// CreatedAt and Sequence.
func (m *Manager) mergeChunk(ctx context.Context, decision intelligence.Decision, matches []RawMatch,
	embedding []float32, content string, importance float64, sessionID string) (string, error) {

	target, ok := matchByID(matches, decision.TargetID)
	if !ok {
		return "", &CollaboratorError{Op: "resolve duplicates",
			Err: fmt.Errorf("merge target %s missing from candidate set", decision.TargetID)}
	}

	merged := intelligence.Merge(toCandidate(target), content, importance, sessionID)
	retained := embedding
	if merged.KeepExistingEmbedding {
		retained = target.Embedding
	}

	rec := Record{
		Fragment: Fragment{
			ID:         target.ID,
			Content:    merged.Content,
			SessionIDs: merged.SessionIDs,
			Importance: merged.Importance,
			CreatedAt:  target.CreatedAt,
			Sequence:   target.Sequence,
		},
		Embedding: retained,
	}
	if err := m.index.Update(ctx, rec); err != nil {
		return "", &CollaboratorError{Op: "update merged fragment", Err: err}
	}

	log.Printf("[MEMORY] Merged into fragment %s (similarity=%.4f)", target.ID, decision.Similarity)
	return target.ID, nil
}

// Retrieve embeds the query, over-fetches raw candidates from the
// index, and returns up to n results ranked by the combined
// similarity/importance score. Matches below minImportance are
// filtered before truncation, so fewer than n results may come back.
func (m *Manager) Retrieve(ctx context.Context, query string, n int, minImportance float64) ([]RankedResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Reason: "empty or whitespace-only query"}
	}
	if n <= 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("n_results must be positive, got %d", n)}
	}
	if minImportance < 0 || minImportance > 1 {
		return nil, &ValidationError{Reason: fmt.Sprintf("min_importance must be in [0,1], got %v", minImportance)}
	}

	embedding, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &CollaboratorError{Op: "embed query", Err: err}
	}

	matches, err := m.index.Query(ctx, embedding, n*m.config.CandidateMultiplier)
	if err != nil {
		return nil, &CollaboratorError{Op: "query index", Err: err}
	}

	byID := make(map[string]RawMatch, len(matches))
	for _, match := range matches {
		byID[match.ID] = match
	}

	ranked := intelligence.Rank(toMatches(matches), minImportance, n)

	results := make([]RankedResult, len(ranked))
	for i, r := range ranked {
		results[i] = RankedResult{RawMatch: byID[r.ID], Combined: r.Combined}
	}

	log.Printf("[MEMORY] Retrieved %d of %d raw matches for query %q",
		len(results), len(matches), truncateLog(query, 50))
	return results, nil
}

// Delete removes a fragment permanently. It returns ErrNotFound when
// the ID does not exist. Delete serializes against Store so a fragment
// is never deleted mid-merge.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Reason: "empty fragment id"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.index.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return &CollaboratorError{Op: "delete fragment", Err: err}
	}

	log.Printf("[MEMORY] Deleted fragment %s", id)
	return nil
}

// ListAll returns stored fragments, up to limit when limit > 0. No
// ranking is applied.
func (m *Manager) ListAll(ctx context.Context, limit int) ([]Fragment, error) {
	frags, err := m.index.GetAll(ctx, limit)
	if err != nil {
		return nil, &CollaboratorError{Op: "list fragments", Err: err}
	}
	return frags, nil
}

// Count returns the total number of stored fragments.
func (m *Manager) Count(ctx context.Context) (int, error) {
	n, err := m.index.Count(ctx)
	if err != nil {
		return 0, &CollaboratorError{Op: "count fragments", Err: err}
	}
	return n, nil
}

func sessionSet(sessionID string) []string {
	if sessionID == "" {
		return nil
	}
	return []string{sessionID}
}

func matchByID(matches []RawMatch, id string) (RawMatch, bool) {
	for _, m := range matches {
		if m.ID == id {
			return m, true
		}
	}
	return RawMatch{}, false
}

func toCandidate(m RawMatch) intelligence.Candidate {
	return intelligence.Candidate{
		ID:         m.ID,
		Embedding:  m.Embedding,
		Content:    m.Content,
		Importance: m.Importance,
		SessionIDs: m.SessionIDs,
		CreatedAt:  m.CreatedAt,
	}
}

func toCandidates(matches []RawMatch) []intelligence.Candidate {
	candidates := make([]intelligence.Candidate, len(matches))
	for i, m := range matches {
		candidates[i] = toCandidate(m)
	}
	return candidates
}

func toMatches(matches []RawMatch) []intelligence.Match {
	out := make([]intelligence.Match, len(matches))
	for i, m := range matches {
		out[i] = intelligence.Match{
			ID:         m.ID,
			Content:    m.Content,
			Similarity: m.Similarity,
			Importance: m.Importance,
			SessionIDs: m.SessionIDs,
			CreatedAt:  m.CreatedAt,
		}
	}
	return out
}

// truncateLog truncates text for logging.
func truncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
