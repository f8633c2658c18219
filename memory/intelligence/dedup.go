package intelligence

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MergeThreshold is the cosine similarity at or above which two
// fragments are near-duplicates. At 0.92 minor paraphrases collapse
// into one entry while genuinely different content stays separate.
const MergeThreshold = 0.92

// Candidate is an existing fragment considered for a merge, as
// returned by the vector index similarity query.
type Candidate struct {
	ID         string
	Embedding  []float32
	Content    string
	Importance float64
	SessionIDs []string
	CreatedAt  time.Time
}

// Decision is the outcome of near-duplicate resolution: merge into
// TargetID, or insert as new. Similarity is the best similarity seen,
// kept for logging.
type Decision struct {
	Merge      bool
	TargetID   string
	Similarity float64
}

// Resolve decides whether a new fragment with the given embedding is a
// near-duplicate of one of the candidates. The best candidate by
// cosine similarity wins; exact ties pick the earliest CreatedAt.
// Malformed candidate embeddings are an error rather than a silent
// insert, since silent insertion risks unbounded duplication.
func Resolve(embedding []float32, candidates []Candidate) (Decision, error) {
	if len(embedding) == 0 {
		return Decision{}, errors.New("empty embedding")
	}

	best := -1
	bestSim := math.Inf(-1)
	for i, c := range candidates {
		if len(c.Embedding) != len(embedding) {
			return Decision{}, fmt.Errorf("candidate %s: embedding has %d dimensions, want %d",
				c.ID, len(c.Embedding), len(embedding))
		}
		sim := Cosine(embedding, c.Embedding)
		switch {
		case best < 0 || sim > bestSim:
			best, bestSim = i, sim
		case sim == bestSim && c.CreatedAt.Before(candidates[best].CreatedAt):
			best = i
		}
	}
	if best < 0 {
		return Decision{}, nil
	}

	d := Decision{Similarity: bestSim}
	if NearDuplicate(bestSim) {
		d.Merge = true
		d.TargetID = candidates[best].ID
	}
	return d, nil
}

// NearDuplicate reports whether a similarity meets the merge
// threshold. The boundary is inclusive: exactly MergeThreshold merges.
func NearDuplicate(similarity float64) bool {
	return similarity >= MergeThreshold
}

// Cosine computes the cosine similarity of two equal-length vectors,
// accumulated in float64. A zero vector has similarity 0 to anything.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Merged is the result of merging new content into an existing
// fragment: a full overwrite of the target entry.
type Merged struct {
	Content    string
	Importance float64
	SessionIDs []string

	// KeepExistingEmbedding is true when the retained content is the
	// existing one, so the stored embedding still matches it.
	KeepExistingEmbedding bool
}

// Merge combines an existing fragment with new content. The longer
// text wins (a proxy for "more complete"; ties keep the existing
// text), importance is the maximum of the two, and the session set is
// the union of both.
func Merge(existing Candidate, content string, importance float64, sessionID string) Merged {
	m := Merged{
		Content:               existing.Content,
		Importance:            math.Max(existing.Importance, importance),
		SessionIDs:            unionSessions(existing.SessionIDs, sessionID),
		KeepExistingEmbedding: true,
	}
	if len(content) > len(existing.Content) {
		m.Content = content
		m.KeepExistingEmbedding = false
	}
	return m
}

func unionSessions(existing []string, sessionID string) []string {
	union := make([]string, len(existing))
	copy(union, existing)
	if sessionID == "" {
		return union
	}
	for _, s := range union {
		if s == sessionID {
			return union
		}
	}
	return append(union, sessionID)
}
