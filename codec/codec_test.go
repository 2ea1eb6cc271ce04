package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Added   int      `json:"added" toml:"added"`
	Digests []string `json:"digests" toml:"digests"`
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("yaml")
	assert.False(t, ok)
}

func TestCodecs(t *testing.T) {
	in := report{Added: 2, Digests: []string{"00000000ffffffff", "0000000000000000"}}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, _ := ByName(name)

			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out report
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestJSONFlavoursAgree(t *testing.T) {
	in := map[string]int{"b": 2, "a": 1}
	assert.JSONEq(t, string(MustMarshal(JSON{}, in)), string(MustMarshal(nil, in)))
}
