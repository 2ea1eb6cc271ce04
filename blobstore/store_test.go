package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/x-portable-pixmap", ContentType("a/xmas.ppm"))
	assert.Equal(t, "application/zstd", ContentType("xmas.ppm.zst"))
	assert.Equal(t, "application/x-lz4", ContentType("xmas.ppm.lz4"))
	assert.Equal(t, "application/octet-stream", ContentType("notes"))
}

func TestReadAll_RangeFallback(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "x", []byte("pixels")))

	blob, err := store.Open(ctx, "x")
	require.NoError(t, err)
	defer blob.Close()

	// Hide Mappable so ReadAll takes the ranged read path.
	data, err := ReadAll(ctx, struct{ Blob }{blob})
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}
