package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedDeterministic(t *testing.T) {
	ctx := context.Background()
	e := New()

	first, err := e.Embed(ctx, "the same text")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "the same text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEmbedDimensions(t *testing.T) {
	ctx := context.Background()

	vec, err := New().Embed(ctx, "hello")
	require.NoError(t, err)
	assert.Len(t, vec, DefaultDimensions)
	assert.Equal(t, DefaultDimensions, New().Dimensions())

	small := NewWithDimensions(8)
	vec, err = small.Embed(ctx, "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 8)
	assert.Equal(t, 8, small.Dimensions())
}

func TestEmbedUnitNorm(t *testing.T) {
	ctx := context.Background()

	vec, err := New().Embed(ctx, "normalize me")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1, math.Sqrt(norm), 1e-5)
}

func TestEmbedDistinctTexts(t *testing.T) {
	ctx := context.Background()
	e := New()

	a, err := e.Embed(ctx, "first text")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "second text")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
