// Package bucket indexes arena handles by fingerprint digest.
//
// Each digest maps to a roaring bitmap of handles. Handles are issued in
// insertion order, so iterating a bucket in ascending order visits its
// members oldest first.
package bucket

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/picset/internal/arena"
)

// Index maps digests to handle sets. It is not synchronized.
type Index struct {
	buckets map[uint64]*roaring.Bitmap
	handles uint64
}

// New returns an empty index.
func New() *Index {
	return &Index{buckets: make(map[uint64]*roaring.Bitmap)}
}

// Insert adds h to the bucket for digest, creating the bucket if needed.
// It reports whether h was newly added.
func (x *Index) Insert(digest uint64, h arena.Handle) bool {
	b, ok := x.buckets[digest]
	if !ok {
		b = roaring.New()
		x.buckets[digest] = b
	}
	if !b.CheckedAdd(uint32(h)) {
		return false
	}
	x.handles++
	return true
}

// Contains reports whether h is in the bucket for digest.
func (x *Index) Contains(digest uint64, h arena.Handle) bool {
	b, ok := x.buckets[digest]
	return ok && b.Contains(uint32(h))
}

// Size returns the number of handles in the bucket for digest.
func (x *Index) Size(digest uint64) int {
	if b, ok := x.buckets[digest]; ok {
		return int(b.GetCardinality())
	}
	return 0
}

// Handles iterates over the bucket for digest in insertion order.
func (x *Index) Handles(digest uint64) iter.Seq[arena.Handle] {
	return func(yield func(arena.Handle) bool) {
		b, ok := x.buckets[digest]
		if !ok {
			return
		}
		it := b.Iterator()
		for it.HasNext() {
			if !yield(arena.Handle(it.Next())) {
				return
			}
		}
	}
}

// Buckets returns the number of distinct digests.
func (x *Index) Buckets() int { return len(x.buckets) }

// Len returns the number of handles across all buckets.
func (x *Index) Len() int { return int(x.handles) }

// Digests iterates over every digest with its bucket size, in no particular order.
func (x *Index) Digests() iter.Seq2[uint64, int] {
	return func(yield func(uint64, int) bool) {
		for d, b := range x.buckets {
			if !yield(d, int(b.GetCardinality())) {
				return
			}
		}
	}
}

// SizeInBytes estimates the serialized size of all bitmaps.
func (x *Index) SizeInBytes() uint64 {
	var n uint64
	for _, b := range x.buckets {
		n += b.GetSizeInBytes()
	}
	return n
}
