package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomPhoto_Reproducible(t *testing.T) {
	rng := NewRNG(4711)
	a := RandomPhoto[uint8](rng, "a", 16, 8)

	rng.Reset()
	b := RandomPhoto[uint8](rng, "b", 16, 8)

	assert.Equal(t, 16*8*3, a.Len())
	assert.True(t, a.Equal(b))
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestCellPhoto(t *testing.T) {
	p := CellPhoto("c", 6, []uint16{1, 2})

	assert.Equal(t, 4, p.Width())
	assert.Equal(t, 1, p.Height())
	assert.Equal(t, []uint16{1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2}, p.Samples())
}

func TestWithSample(t *testing.T) {
	u := UniformPhoto[int16]("u", 2, 2, 3)
	v := WithSample(u, "v", 5, 4)

	assert.False(t, u.Equal(v))
	assert.Equal(t, int16(3), u.Samples()[5])
	assert.Equal(t, int16(4), v.Samples()[5])
}
