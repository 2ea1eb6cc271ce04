package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AppendGet(t *testing.T) {
	a := New[string](4)

	for i, s := range []string{"a", "b", "c", "d", "e", "f"} {
		h, err := a.Append(s)
		require.NoError(t, err)
		assert.Equal(t, Handle(i), h)
	}

	assert.Equal(t, 6, a.Len())
	assert.Equal(t, "e", *a.Get(4))
	assert.Nil(t, a.Get(6))
	assert.Equal(t, Stats{Entries: 6, Chunks: 2, Capacity: 8}, a.Stats())
}

func TestArena_PointersStayValid(t *testing.T) {
	a := New[int](2)

	h, err := a.Append(42)
	require.NoError(t, err)
	p := a.Get(h)

	for i := 0; i < 1000; i++ {
		_, err := a.Append(i)
		require.NoError(t, err)
	}

	assert.Same(t, p, a.Get(h), "growth must not move existing entries")
	assert.Equal(t, 42, *p)
}

func TestArena_MaxChunks(t *testing.T) {
	a := New[int](2, WithMaxChunks(2))

	for i := 0; i < 4; i++ {
		_, err := a.Append(i)
		require.NoError(t, err)
	}
	assert.True(t, a.Full())

	_, err := a.Append(4)
	require.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 4, a.Len(), "failed append leaves the arena unchanged")
	assert.Nil(t, a.Get(4))
}

func TestArena_MaxEntries(t *testing.T) {
	a := New[int](0, WithMaxEntries(3))

	for i := 0; i < 3; i++ {
		assert.False(t, a.Full())
		_, err := a.Append(i)
		require.NoError(t, err)
	}
	assert.True(t, a.Full())

	_, err := a.Append(3)
	require.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 1, a.Stats().Chunks)
}

func TestArena_All(t *testing.T) {
	a := New[int](0)
	for i := 0; i < 3; i++ {
		_, _ = a.Append(i * 10)
	}

	var got []int
	for h, v := range a.All {
		assert.Equal(t, int(h)*10, *v)
		got = append(got, *v)
		if h == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 10}, got)
}
