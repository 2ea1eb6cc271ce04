package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/picset/internal/cache"
)

// countingStore counts Open calls on the wrapped store.
type countingStore struct {
	BlobStore
	opens int
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	s.opens++
	return s.BlobStore.Open(ctx, name)
}

func TestCachingStore(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{BlobStore: NewLocalStore(t.TempDir())}
	lru := cache.NewLRU(1<<20, nil)
	s := NewCachingStore(inner, lru)

	require.NoError(t, s.Put(ctx, "a.ppm", []byte("first")))

	for i := 0; i < 3; i++ {
		b, err := s.Open(ctx, "a.ppm")
		require.NoError(t, err)
		data, err := ReadAll(ctx, b)
		require.NoError(t, err)
		require.NoError(t, b.Close())
		assert.Equal(t, "first", string(data))
	}
	assert.Equal(t, 1, inner.opens)

	w, err := s.Create(ctx, "a.ppm")
	require.NoError(t, err)
	_, err = w.Write([]byte("second"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	b, err := s.Open(ctx, "a.ppm")
	require.NoError(t, err)
	data, err := ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, 2, inner.opens)

	require.NoError(t, s.Delete(ctx, "a.ppm"))
	_, err = s.Open(ctx, "a.ppm")
	require.ErrorIs(t, err, ErrNotFound)

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
