package bucket

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/picset/internal/arena"
)

func TestIndex_InsertAndIterate(t *testing.T) {
	x := New()

	assert.True(t, x.Insert(7, 5))
	assert.True(t, x.Insert(7, 1))
	assert.True(t, x.Insert(7, 9))
	assert.True(t, x.Insert(3, 2))
	assert.False(t, x.Insert(7, 1), "duplicate handle")

	assert.Equal(t, []arena.Handle{1, 5, 9}, slices.Collect(x.Handles(7)))
	assert.Equal(t, 3, x.Size(7))
	assert.Equal(t, 2, x.Buckets())
	assert.Equal(t, 4, x.Len())
	assert.True(t, x.Contains(3, 2))
	assert.False(t, x.Contains(3, 5))
	assert.Positive(t, x.SizeInBytes())
}

func TestIndex_MissingBucket(t *testing.T) {
	x := New()

	assert.Zero(t, x.Size(42))
	assert.Empty(t, slices.Collect(x.Handles(42)))
	assert.False(t, x.Contains(42, 0))
}

func TestIndex_Digests(t *testing.T) {
	x := New()
	x.Insert(0, 0)
	x.Insert(0, 1)
	x.Insert(^uint64(0), 2)

	got := map[uint64]int{}
	for d, n := range x.Digests() {
		got[d] = n
	}
	assert.Equal(t, map[uint64]int{0: 2, ^uint64(0): 1}, got)
}

func TestIndex_HandlesStopsEarly(t *testing.T) {
	x := New()
	for h := arena.Handle(0); h < 10; h++ {
		x.Insert(1, h)
	}

	var seen []arena.Handle
	for h := range x.Handles(1) {
		seen = append(seen, h)
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, []arena.Handle{0, 1, 2}, seen)
}
