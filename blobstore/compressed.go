package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the codec chosen for a blob name.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd             // ".zst"
	CompressionLZ4              // ".lz4"
)

// CompressionFor returns the compression implied by the name's extension.
func CompressionFor(name string) Compression {
	switch path.Ext(name) {
	case ".zst":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

// CompressedStore wraps a BlobStore and transparently (de)compresses blobs
// whose names end in ".zst" or ".lz4". Other names pass through unchanged.
//
// Decompressed blobs are held in memory while open.
type CompressedStore struct {
	inner BlobStore
	level zstd.EncoderLevel
}

// NewCompressedStore wraps inner.
func NewCompressedStore(inner BlobStore) *CompressedStore {
	return &CompressedStore{inner: inner, level: zstd.SpeedDefault}
}

// Open opens and, if needed, decompresses a blob.
func (s *CompressedStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	c := CompressionFor(name)
	if c == CompressionNone {
		return b, nil
	}
	defer b.Close()

	r, err := NewReader(ctx, b)
	if err != nil {
		return nil, err
	}
	data, err := decompress(c, r)
	if err != nil {
		return nil, fmt.Errorf("blobstore: %s %s: %w", c, name, err)
	}
	return &memoryBlob{data: data}, nil
}

// Create returns a blob that compresses on the fly.
func (s *CompressedStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	switch CompressionFor(name) {
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(s.level))
		if err != nil {
			_ = w.Abort()
			return nil, err
		}
		return &compressedWritableBlob{enc: enc, inner: w}, nil
	case CompressionLZ4:
		return &compressedWritableBlob{enc: lz4.NewWriter(w), inner: w}, nil
	default:
		return w, nil
	}
}

// Put compresses data and writes it atomically.
func (s *CompressedStore) Put(ctx context.Context, name string, data []byte) error {
	c := CompressionFor(name)
	if c == CompressionNone {
		return s.inner.Put(ctx, name, data)
	}

	var buf bytes.Buffer
	var enc io.WriteCloser
	if c == CompressionZstd {
		zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(s.level))
		if err != nil {
			return err
		}
		enc = zw
	} else {
		enc = lz4.NewWriter(&buf)
	}
	if _, err := enc.Write(data); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, buf.Bytes())
}

// Delete removes a blob.
func (s *CompressedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List lists the inner store.
func (s *CompressedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func decompress(c Compression, r io.Reader) ([]byte, error) {
	switch c {
	case CompressionZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		if err := dec.Reset(r); err != nil {
			return nil, err
		}
		return io.ReadAll(dec)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(r))
	default:
		return io.ReadAll(r)
	}
}

type compressedWritableBlob struct {
	enc   io.WriteCloser
	inner WritableBlob
	done  bool
}

func (w *compressedWritableBlob) Write(p []byte) (int, error) {
	return w.enc.Write(p)
}

func (w *compressedWritableBlob) Close() error {
	if w.done {
		return io.ErrClosedPipe
	}
	w.done = true
	if err := w.enc.Close(); err != nil {
		_ = w.inner.Abort()
		return err
	}
	return w.inner.Close()
}

func (w *compressedWritableBlob) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	return w.inner.Abort()
}
