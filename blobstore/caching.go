package blobstore

import (
	"bytes"
	"context"

	"github.com/hupe1980/picset/internal/cache"
)

// CachingStore keeps recently read blobs in memory. It is meant for remote
// backends where repeated names in one batch would otherwise be fetched
// again. Writes go straight to the inner store and invalidate the name.
type CachingStore struct {
	inner BlobStore
	cache *cache.LRU
}

// NewCachingStore wraps inner with c.
func NewCachingStore(inner BlobStore, c *cache.LRU) *CachingStore {
	return &CachingStore{inner: inner, cache: c}
}

// Open serves name from the cache, reading and caching it on a miss.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.Get(name); ok {
		return &memoryBlob{data: data}, nil
	}

	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	data, err := ReadAll(ctx, b)
	if err != nil {
		return nil, err
	}
	// Mapped bytes die with the blob.
	data = bytes.Clone(data)
	s.cache.Set(name, data)
	return &memoryBlob{data: data}, nil
}

// Create invalidates name once the new blob is committed.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &invalidatingBlob{WritableBlob: w, onClose: func() { s.cache.Remove(name) }}, nil
}

// Put writes through and invalidates name.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes name from both the cache and the inner store.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

// List passes through to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type invalidatingBlob struct {
	WritableBlob
	onClose func()
}

func (b *invalidatingBlob) Close() error {
	err := b.WritableBlob.Close()
	b.onClose()
	return err
}
