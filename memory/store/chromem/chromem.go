// Package chromem implements memory.VectorIndex on top of chromem-go,
// a pure Go embedded vector database.
package chromem

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/armcknight/cache-for-clankers/memory"
)

// Metadata keys for fragment fields. chromem metadata is
// string-to-string, so numeric fields are formatted on write and
// parsed on read.
const (
	metaImportance = "importance"
	metaSessionIDs = "session_ids"
	metaCreatedAt  = "created_at"
	metaSequence   = "sequence"
)

// sessionSeparator joins the session set into one metadata value.
const sessionSeparator = ","

// Config configures the store.
type Config struct {
	// Path is the on-disk location of the database. Empty means a
	// purely in-memory store.
	Path string

	// Collection is the collection name. Default: "memories".
	Collection string

	// Dimensions is the embedding vector size. Required: chromem has
	// no API to enumerate documents, so reads that need the full
	// collection query it with a probe vector of this size.
	Dimensions int
}

// Store wraps a single chromem collection. One Store corresponds to
// one collection.
type Store struct {
	db         *chromem.DB
	col        *chromem.Collection
	dimensions int
}

var _ memory.VectorIndex = (*Store)(nil)

// New creates a chromem-based store. With a non-empty Path the
// database persists to disk and reloads on restart.
func New(cfg Config) (*Store, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.Collection == "" {
		cfg.Collection = "memories"
	}

	var db *chromem.DB
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, fmt.Errorf("open persistent db: %w", err)
		}
	}

	// No embedding func and no distance func: embeddings are always
	// supplied by the caller and the default distance is cosine.
	col, err := db.GetOrCreateCollection(cfg.Collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get or create collection: %w", err)
	}

	return &Store{
		db:         db,
		col:        col,
		dimensions: cfg.Dimensions,
	}, nil
}

// Add inserts a fragment with its embedding.
func (s *Store) Add(ctx context.Context, rec memory.Record) error {
	log.Printf("[CHROMEM] Adding fragment %s", rec.ID)
	if err := s.col.AddDocument(ctx, toDocument(rec)); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Update overwrites an existing entry in full. chromem has no update
// primitive, so the entry is replaced.
func (s *Store) Update(ctx context.Context, rec memory.Record) error {
	log.Printf("[CHROMEM] Updating fragment %s", rec.ID)
	if err := s.col.Delete(ctx, nil, nil, rec.ID); err != nil {
		return fmt.Errorf("delete before update: %w", err)
	}
	if err := s.col.AddDocument(ctx, toDocument(rec)); err != nil {
		return fmt.Errorf("re-add document: %w", err)
	}
	return nil
}

// Query returns up to k stored fragments by descending cosine
// similarity. chromem rejects result counts above the collection size,
// so k is clamped first.
func (s *Store) Query(ctx context.Context, embedding []float32, k int) ([]memory.RawMatch, error) {
	count := s.col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.col.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	matches := make([]memory.RawMatch, 0, len(results))
	for _, res := range results {
		frag, err := parseFragment(res.ID, res.Content, res.Metadata)
		if err != nil {
			return nil, fmt.Errorf("result %s: %w", res.ID, err)
		}
		matches = append(matches, memory.RawMatch{
			ID:         frag.ID,
			Content:    frag.Content,
			Similarity: float64(res.Similarity),
			Importance: frag.Importance,
			SessionIDs: frag.SessionIDs,
			CreatedAt:  frag.CreatedAt,
			Sequence:   frag.Sequence,
			Embedding:  res.Embedding,
		})
	}

	log.Printf("[CHROMEM] Query returned %d match(es)", len(matches))
	return matches, nil
}

// Delete removes a fragment. chromem deletes by ID without reporting
// whether anything matched, so existence is checked through the count.
func (s *Store) Delete(ctx context.Context, id string) error {
	before := s.col.Count()
	if before == 0 {
		return memory.ErrNotFound
	}
	if err := s.col.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if s.col.Count() == before {
		return memory.ErrNotFound
	}
	log.Printf("[CHROMEM] Deleted fragment %s", id)
	return nil
}

// GetAll returns stored fragments ordered by creation time. chromem
// has no enumeration API, so the collection is queried with a unit
// probe vector and k equal to the collection size.
func (s *Store) GetAll(ctx context.Context, limit int) ([]memory.Fragment, error) {
	count := s.col.Count()
	if count == 0 {
		return nil, nil
	}

	probe := make([]float32, s.dimensions)
	probe[0] = 1

	results, err := s.col.QueryEmbedding(ctx, probe, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("enumerate collection: %w", err)
	}

	frags := make([]memory.Fragment, 0, len(results))
	for _, res := range results {
		frag, err := parseFragment(res.ID, res.Content, res.Metadata)
		if err != nil {
			return nil, fmt.Errorf("result %s: %w", res.ID, err)
		}
		frags = append(frags, frag)
	}

	sort.Slice(frags, func(i, j int) bool {
		if !frags[i].CreatedAt.Equal(frags[j].CreatedAt) {
			return frags[i].CreatedAt.Before(frags[j].CreatedAt)
		}
		return frags[i].ID < frags[j].ID
	})

	if limit > 0 && len(frags) > limit {
		frags = frags[:limit]
	}
	return frags, nil
}

// Count returns the number of stored fragments.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.col.Count(), nil
}

func toDocument(rec memory.Record) chromem.Document {
	return chromem.Document{
		ID:        rec.ID,
		Content:   rec.Content,
		Embedding: rec.Embedding,
		Metadata: map[string]string{
			metaImportance: strconv.FormatFloat(rec.Importance, 'f', -1, 64),
			metaSessionIDs: strings.Join(rec.SessionIDs, sessionSeparator),
			metaCreatedAt:  rec.CreatedAt.Format(time.RFC3339Nano),
			metaSequence:   strconv.Itoa(rec.Sequence),
		},
	}
}

func parseFragment(id, content string, metadata map[string]string) (memory.Fragment, error) {
	importance, err := strconv.ParseFloat(metadata[metaImportance], 64)
	if err != nil {
		return memory.Fragment{}, fmt.Errorf("parse importance %q: %w", metadata[metaImportance], err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, metadata[metaCreatedAt])
	if err != nil {
		return memory.Fragment{}, fmt.Errorf("parse created_at %q: %w", metadata[metaCreatedAt], err)
	}

	sequence, err := strconv.Atoi(metadata[metaSequence])
	if err != nil {
		return memory.Fragment{}, fmt.Errorf("parse sequence %q: %w", metadata[metaSequence], err)
	}

	var sessions []string
	if metadata[metaSessionIDs] != "" {
		sessions = strings.Split(metadata[metaSessionIDs], sessionSeparator)
	}

	return memory.Fragment{
		ID:         id,
		Content:    content,
		SessionIDs: sessions,
		Importance: importance,
		CreatedAt:  createdAt,
		Sequence:   sequence,
	}, nil
}
