package mock_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armcknight/cache-for-clankers/memory/embedder/mock"
)

func TestEmbedIsDeterministic(t *testing.T) {
	e := mock.New()
	ctx := context.Background()

	a, err := e.Embed(ctx, "Alice is a senior Python developer.")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "Alice is a senior Python developer.")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEmbedNormalizesWhitespace(t *testing.T) {
	e := mock.New()
	ctx := context.Background()

	a, err := e.Embed(ctx, "hello   world")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "hello\n\tworld ")
	require.NoError(t, err)
	assert.Equal(t, a, b, "reformatted text maps to the same vector")
}

func TestEmbedDistinguishesText(t *testing.T) {
	e := mock.New()
	ctx := context.Background()

	a, err := e.Embed(ctx, "apples and orchards")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "sailing boats")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEmbedReturnsUnitVector(t *testing.T) {
	e := mock.New()
	vec, err := e.Embed(context.Background(), "some text to embed")
	require.NoError(t, err)
	require.Len(t, vec, e.Dimensions())

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-4)
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	e := mock.New()
	_, err := e.Embed(context.Background(), "")
	assert.Error(t, err)
	_, err = e.Embed(context.Background(), "   \n\t ")
	assert.Error(t, err)
}

func TestDimensions(t *testing.T) {
	assert.Equal(t, 384, mock.New().Dimensions())
}
