package imageio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/picset/blobstore"
	"github.com/hupe1980/picset/photo"
	"github.com/hupe1980/picset/ppm"
	"github.com/hupe1980/picset/resource"
	"github.com/hupe1980/picset/testutil"
)

func TestLoader_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewCompressedStore(blobstore.NewLocalStore(t.TempDir()))
	rng := testutil.NewRNG(3)
	orig := testutil.RandomPhoto[uint8](rng, "xmas.ppm", 12, 9)

	w := NewWriter[uint8](store)
	l := NewLoader[uint8](store)

	for _, dest := range []string{"out.ppm", "out.ppm.zst", "nested/out.ppm.lz4"} {
		require.NoError(t, w.Write(ctx, orig, dest))

		got, err := l.Load(ctx, dest)
		require.NoError(t, err, dest)
		assert.True(t, orig.Equal(got), dest)
		assert.Equal(t, dest, got.ID())
	}
}

func TestLoader_Throttled(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	orig := testutil.UniformPhoto[uint16]("deep.ppm", 4, 4, 300)
	require.NoError(t, NewWriter[uint16](store).Write(ctx, orig, "deep.ppm"))

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	got, err := NewLoader[uint16](store, WithThrottle(rc)).Load(ctx, "deep.ppm")
	require.NoError(t, err)
	assert.True(t, orig.Equal(got))
}

func TestLoader_Errors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "bad.ppm", []byte("GIF89a")))
	require.NoError(t, store.Put(ctx, "short.ppm", []byte("P6 2 2 255\n\x00\x00\x00")))
	require.NoError(t, store.Put(ctx, "huge.ppm", []byte("P6\n1000000 1000000\n255\n")))

	l := NewLoader[uint8](store)

	tests := []struct {
		id   string
		op   string
		want error
	}{
		{"missing.ppm", "open", blobstore.ErrNotFound},
		{"bad.ppm", "decode", ppm.ErrBadMagic},
		{"short.ppm", "decode", ppm.ErrTruncated},
		{"huge.ppm", "decode", ppm.ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, err := l.Load(ctx, tt.id)
			assert.Nil(t, p)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.id, le.ID)
			assert.Equal(t, tt.op, le.Op)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader[uint8](blobstore.NewMemoryStore()).Load(ctx, "x.ppm")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriter_NilPhotoIsNoop(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, NewWriter[uint8](store).Write(ctx, nil, "nothing.ppm"))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestWriter_Errors(t *testing.T) {
	ctx := context.Background()

	err := NewWriter[uint8](failingStore{}).Write(ctx, testutil.UniformPhoto[uint8]("u", 2, 2, 1), "dest.ppm")
	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "dest.ppm", we.Dest)
	assert.ErrorIs(t, err, errDenied)

	store := blobstore.NewMemoryStore()
	neg, _ := photo.New("neg", 1, 1, []int16{-1, 0, 0})
	err = NewWriter[int16](store).Write(ctx, neg, "neg.ppm")
	require.ErrorAs(t, err, &we)
	assert.ErrorIs(t, err, ppm.ErrSampleRange)

	names, _ := store.List(ctx, "")
	assert.Empty(t, names, "failed encodes are aborted")
}

var errDenied = errors.New("permission denied")

type failingStore struct {
	blobstore.BlobStore
}

func (failingStore) Create(context.Context, string) (blobstore.WritableBlob, error) {
	return nil, errDenied
}
