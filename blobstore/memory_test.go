package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	src := []byte("hello")
	require.NoError(t, store.Put(ctx, "a/1", src))
	src[0] = 'j'

	blob, err := store.Open(ctx, "a/1")
	require.NoError(t, err)
	data, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data), "Put copies its input")

	w, err := store.Create(ctx, "a/2")
	require.NoError(t, err)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)
	_, err = store.Open(ctx, "a/2")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("!"))
	require.ErrorIs(t, err, io.ErrClosedPipe)

	w, err = store.Create(ctx, "b/3")
	require.NoError(t, err)
	_, _ = w.Write([]byte("dropped"))
	require.NoError(t, w.Abort())

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2"}, names)

	require.NoError(t, store.Delete(ctx, "a/1"))
	_, err = store.Open(ctx, "a/1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewReader(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "r", []byte("sequential")))

	blob, err := store.Open(ctx, "r")
	require.NoError(t, err)

	r, err := NewReader(ctx, blob)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "sequential", string(data))

	// A blob without Mappable goes through ReadAt.
	r, err = NewReader(ctx, readAtOnly{blob})
	require.NoError(t, err)
	data, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "sequential", string(data))
}

type readAtOnly struct {
	Blob
}
