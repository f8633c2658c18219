package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armcknight/cache-for-clankers/memory"
)

// stubService records calls and returns canned results.
type stubService struct {
	storeIDs  []string
	retrieved []memory.RankedResult
	fragments []memory.Fragment
	count     int
	err       error

	lastStoreText    string
	lastStoreSession string
	lastQuery        string
	lastN            int
	lastMinImp       float64
	lastLimit        int
	lastDeletedID    string
}

func (s *stubService) Store(_ context.Context, text, sessionID string) ([]string, error) {
	s.lastStoreText, s.lastStoreSession = text, sessionID
	return s.storeIDs, s.err
}

func (s *stubService) Retrieve(_ context.Context, query string, n int, minImportance float64) ([]memory.RankedResult, error) {
	s.lastQuery, s.lastN, s.lastMinImp = query, n, minImportance
	return s.retrieved, s.err
}

func (s *stubService) Delete(_ context.Context, id string) error {
	s.lastDeletedID = id
	return s.err
}

func (s *stubService) ListAll(_ context.Context, limit int) ([]memory.Fragment, error) {
	s.lastLimit = limit
	return s.fragments, s.err
}

func (s *stubService) Count(_ context.Context) (int, error) {
	return s.count, s.err
}

func newTestServer(t *testing.T, svc MemoryService) *Server {
	t.Helper()
	s, err := NewServer(svc)
	require.NoError(t, err)
	return s
}

func TestNewServerRequiresService(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestHandleStore(t *testing.T) {
	svc := &stubService{storeIDs: []string{"id-1", "id-2"}}
	s := newTestServer(t, svc)

	_, out, err := s.handleStore(context.Background(), nil, StoreInput{
		Content:   "Alice prefers tabs.",
		SessionID: "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "id-2"}, out.IDs)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "Alice prefers tabs.", svc.lastStoreText)
	assert.Equal(t, "s1", svc.lastStoreSession)
}

func TestHandleStoreError(t *testing.T) {
	svc := &stubService{err: errors.New("boom")}
	s := newTestServer(t, svc)

	_, _, err := s.handleStore(context.Background(), nil, StoreInput{Content: "x"})
	assert.Error(t, err)
}

func TestHandleRetrieve(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubService{retrieved: []memory.RankedResult{{
		RawMatch: memory.RawMatch{
			ID:         "id-1",
			Content:    "Alice prefers tabs.",
			Similarity: 0.91,
			Importance: 0.6,
			SessionIDs: []string{"s1"},
			CreatedAt:  createdAt,
		},
		Combined: 0.817,
	}}}
	s := newTestServer(t, svc)

	_, out, err := s.handleRetrieve(context.Background(), nil, RetrieveInput{
		Query:         "editor preferences",
		NResults:      3,
		MinImportance: 0.2,
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)

	r := out.Results[0]
	assert.Equal(t, "id-1", r.ID)
	assert.Equal(t, "Alice prefers tabs.", r.Content)
	assert.Equal(t, 0.91, r.Similarity)
	assert.Equal(t, 0.817, r.Combined)
	assert.Equal(t, []string{"s1"}, r.SessionIDs)
	assert.Equal(t, "2025-06-01T12:00:00Z", r.Timestamp)

	assert.Equal(t, "editor preferences", svc.lastQuery)
	assert.Equal(t, 3, svc.lastN)
	assert.Equal(t, 0.2, svc.lastMinImp)
}

func TestHandleRetrieveDefaultsN(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(t, svc)

	_, out, err := s.handleRetrieve(context.Background(), nil, RetrieveInput{Query: "anything"})
	require.NoError(t, err)
	assert.Zero(t, out.Count)
	assert.Equal(t, defaultRetrieveResults, svc.lastN)
}

func TestHandleList(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubService{fragments: []memory.Fragment{{
		ID:         "id-1",
		Content:    "Alice prefers tabs.",
		Importance: 0.6,
		SessionIDs: []string{"s1"},
		CreatedAt:  createdAt,
	}}}
	s := newTestServer(t, svc)

	_, out, err := s.handleList(context.Background(), nil, ListInput{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "id-1", out.Memories[0].ID)
	assert.Equal(t, "2025-06-01T12:00:00Z", out.Memories[0].Timestamp)
	assert.Equal(t, 10, svc.lastLimit)
}

func TestHandleListDefaultsLimit(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(t, svc)

	_, _, err := s.handleList(context.Background(), nil, ListInput{})
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, svc.lastLimit)
}

func TestHandleDelete(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(t, svc)

	_, out, err := s.handleDelete(context.Background(), nil, DeleteInput{MemoryID: "id-1"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", out.Deleted)
	assert.Equal(t, "id-1", svc.lastDeletedID)

	svc.err = memory.ErrNotFound
	_, _, err = s.handleDelete(context.Background(), nil, DeleteInput{MemoryID: "missing"})
	assert.ErrorIs(t, err, memory.ErrNotFound)
}

func TestHandleCount(t *testing.T) {
	svc := &stubService{count: 7}
	s := newTestServer(t, svc)

	_, out, err := s.handleCount(context.Background(), nil, CountInput{})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Count)
}
