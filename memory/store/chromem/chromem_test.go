package chromem_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armcknight/cache-for-clankers/memory"
	"github.com/armcknight/cache-for-clankers/memory/store/chromem"
)

func newTestStore(t *testing.T) *chromem.Store {
	t.Helper()
	s, err := chromem.New(chromem.Config{Dimensions: 3})
	require.NoError(t, err)
	return s
}

func record(id, content string, embedding []float32, createdAt time.Time) memory.Record {
	return memory.Record{
		Fragment: memory.Fragment{
			ID:         id,
			Content:    content,
			SessionIDs: []string{"s1", "s2"},
			Importance: 0.42,
			CreatedAt:  createdAt,
			Sequence:   1,
		},
		Embedding: embedding,
	}
}

func TestNewRequiresDimensions(t *testing.T) {
	_, err := chromem.New(chromem.Config{})
	assert.Error(t, err)
}

func TestAddAndQueryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Add(ctx, record("f1", "apples and orchards", []float32{1, 0, 0}, createdAt)))
	require.NoError(t, s.Add(ctx, record("f2", "sailing boats", []float32{0, 1, 0}, createdAt)))

	matches, err := s.Query(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "f1", m.ID)
	assert.Equal(t, "apples and orchards", m.Content)
	assert.InDelta(t, 1.0, m.Similarity, 1e-4)
	assert.InDelta(t, 0.42, m.Importance, 1e-9)
	assert.Equal(t, []string{"s1", "s2"}, m.SessionIDs)
	assert.True(t, createdAt.Equal(m.CreatedAt))
	assert.Equal(t, 1, m.Sequence)
	assert.Len(t, m.Embedding, 3)
}

func TestQueryClampsK(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	matches, err := s.Query(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches, "empty collection yields no matches")

	require.NoError(t, s.Add(ctx, record("f1", "only entry", []float32{1, 0, 0}, time.Now().UTC())))

	matches, err = s.Query(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, matches, 1, "k above the collection size is clamped")
}

func TestUpdateReplacesEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createdAt := time.Now().UTC()

	require.NoError(t, s.Add(ctx, record("f1", "first draft", []float32{1, 0, 0}, createdAt)))

	updated := record("f1", "first draft, now with more detail", []float32{0.6, 0.8, 0}, createdAt)
	updated.Importance = 0.9
	require.NoError(t, s.Update(ctx, updated))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "update must not grow the collection")

	matches, err := s.Query(ctx, []float32{0.6, 0.8, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "first draft, now with more detail", matches[0].Content)
	assert.InDelta(t, 0.9, matches[0].Importance, 1e-9)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Delete(ctx, "missing"), memory.ErrNotFound)

	require.NoError(t, s.Add(ctx, record("f1", "to be removed", []float32{1, 0, 0}, time.Now().UTC())))
	require.NoError(t, s.Delete(ctx, "f1"))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, s.Delete(ctx, "f1"), memory.ErrNotFound)
}

func TestGetAllOrdersByCreation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Add(ctx, record("newest", "c", []float32{0, 0, 1}, base.Add(2*time.Hour))))
	require.NoError(t, s.Add(ctx, record("oldest", "a", []float32{1, 0, 0}, base)))
	require.NoError(t, s.Add(ctx, record("middle", "b", []float32{0, 1, 0}, base.Add(time.Hour))))

	frags, err := s.GetAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, frags, 3)
	assert.Equal(t, "oldest", frags[0].ID)
	assert.Equal(t, "middle", frags[1].ID)
	assert.Equal(t, "newest", frags[2].ID)

	frags, err = s.GetAll(ctx, 2)
	require.NoError(t, err)
	require.Len(t, frags, 2)
	assert.Equal(t, "oldest", frags[0].ID)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := chromem.New(chromem.Config{Path: dir, Dimensions: 3})
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, record("f1", "survives restarts", []float32{1, 0, 0}, time.Now().UTC())))

	reopened, err := chromem.New(chromem.Config{Path: dir, Dimensions: 3})
	require.NoError(t, err)

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	frags, err := reopened.GetAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, frags, 1)
	assert.Equal(t, "survives restarts", frags[0].Content)
}
