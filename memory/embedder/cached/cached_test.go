package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder counts how often the inner embedder runs.
type countingEmbedder struct {
	calls int
	fail  bool
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.fail {
		return nil, errors.New("embedder down")
	}
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = float32(len(text) + i)
	}
	return vec, nil
}

func (e *countingEmbedder) Dimensions() int { return 4 }

func TestEmbedSingleCall(t *testing.T) {
	// The cache key must be a type ristretto can hash; a bad key type
	// panics inside Get before the inner embedder ever runs.
	ctx := context.Background()
	e, err := New(&countingEmbedder{}, 64)
	require.NoError(t, err)
	defer e.Close()

	vec, err := e.Embed(ctx, "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 4)
}

func TestEmbedCachesByText(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{}
	e, err := New(inner, 64)
	require.NoError(t, err)
	defer e.Close()

	first, err := e.Embed(ctx, "repeated text")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "repeated text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "the second call must be a cache hit")
}

func TestEmbedDistinctTextsMiss(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{}
	e, err := New(inner, 64)
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Embed(ctx, "one")
	require.NoError(t, err)
	_, err = e.Embed(ctx, "two")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestEmbedErrorNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{fail: true}
	e, err := New(inner, 64)
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Embed(ctx, "text")
	assert.Error(t, err)

	inner.fail = false
	vec, err := e.Embed(ctx, "text")
	require.NoError(t, err)
	assert.Len(t, vec, 4)
	assert.Equal(t, 2, inner.calls, "failures must not poison the cache")
}

func TestDimensionsDelegates(t *testing.T) {
	e, err := New(&countingEmbedder{}, 64)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, 4, e.Dimensions())
}

func TestNewDefaultsMaxEntries(t *testing.T) {
	e, err := New(&countingEmbedder{}, 0)
	require.NoError(t, err)
	e.Close()
}
