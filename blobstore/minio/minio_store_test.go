package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/picset/blobstore"
)

// TestStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("PICSET_MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	bucket := "test-picset"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "it/")
	data := []byte("P6 1 1 255\n\x01\x02\x03")

	require.NoError(t, store.Put(ctx, "xmas.ppm", data))

	blob, err := store.Open(ctx, "xmas.ppm")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())
	got, err := blobstore.ReadAll(ctx, blob)
	require.NoError(t, err)
	require.Equal(t, data, got)

	buf := make([]byte, 2)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "P6", string(buf))

	rc, err := blob.ReadRange(ctx, int64(len(data))-3, 10)
	require.NoError(t, err)
	tail, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, tail)
	require.NoError(t, rc.Close())

	w, err := store.Create(ctx, "out.ppm")
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "xmas.ppm")
	assert.Contains(t, names, "out.ppm")

	require.NoError(t, store.Delete(ctx, "xmas.ppm"))
	require.NoError(t, store.Delete(ctx, "out.ppm"))
	_, err = store.Open(ctx, "xmas.ppm")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
