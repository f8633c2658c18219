package intelligence

import (
	"sort"
	"time"
)

// Retrieval score blend. Recomputed at query time, never stored.
const (
	SimilarityWeight = 0.70
	ImportanceWeight = 0.30
)

// Match is a raw similarity-search result as returned by the vector
// index.
type Match struct {
	ID         string
	Content    string
	Similarity float64
	Importance float64
	SessionIDs []string
	CreatedAt  time.Time
}

// Ranked is a match with its combined retrieval score.
type Ranked struct {
	Match
	Combined float64
}

// Rank filters matches below minImportance, scores the rest with the
// 70/30 similarity/importance blend, orders them (combined desc,
// similarity desc, ID asc) and truncates to limit. Filtering happens
// before truncation, so fewer than limit results may come back; the
// ranker never searches further to compensate.
func Rank(matches []Match, minImportance float64, limit int) []Ranked {
	ranked := make([]Ranked, 0, len(matches))
	for _, m := range matches {
		if m.Importance < minImportance {
			continue
		}
		ranked = append(ranked, Ranked{
			Match:    m,
			Combined: SimilarityWeight*m.Similarity + ImportanceWeight*m.Importance,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Combined != ranked[j].Combined {
			return ranked[i].Combined > ranked[j].Combined
		}
		if ranked[i].Similarity != ranked[j].Similarity {
			return ranked[i].Similarity > ranked[j].Similarity
		}
		return ranked[i].ID < ranked[j].ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
