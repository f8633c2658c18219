package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armcknight/cache-for-clankers/memory"
)

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "exactlyten", clip("exactlyten", 10))
	assert.Equal(t, "truncated ...", clip("truncated well past the limit", 10))
}

func TestResultsForJSON(t *testing.T) {
	results := []memory.RankedResult{{
		RawMatch: memory.RawMatch{
			ID:         "id-1",
			Content:    "Alice prefers tabs.",
			Similarity: 0.91,
			Importance: 0.6,
			SessionIDs: []string{"s1"},
		},
		Combined: 0.817,
	}}

	out := resultsForJSON(results)
	require.Len(t, out, 1)
	assert.Equal(t, "id-1", out[0].ID)
	assert.Equal(t, 0.91, out[0].Similarity)
	assert.Equal(t, 0.817, out[0].Combined)
	assert.Equal(t, []string{"s1"}, out[0].SessionIDs)
}

func TestFragmentsForJSON(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	frags := []memory.Fragment{{
		ID:         "id-1",
		Content:    "Alice prefers tabs.",
		Importance: 0.6,
		CreatedAt:  createdAt,
		Sequence:   2,
	}}

	out := fragmentsForJSON(frags)
	require.Len(t, out, 1)
	assert.Equal(t, "2025-06-01T12:00:00Z", out[0].CreatedAt)
	assert.Equal(t, 2, out[0].Sequence)
	assert.Empty(t, out[0].SessionIDs)
}
