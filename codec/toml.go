package codec

import toml "github.com/pelletier/go-toml/v2"

// TOML encodes with github.com/pelletier/go-toml/v2. Only maps and structs
// can be top-level values.
type TOML struct{}

// Marshal encodes the value to TOML.
func (TOML) Marshal(v any) ([]byte, error) { return toml.Marshal(v) }

// Unmarshal decodes the TOML data into v.
func (TOML) Unmarshal(data []byte, v any) error { return toml.Unmarshal(data, v) }

// Name returns the unique name of the codec ("toml").
func (TOML) Name() string { return "toml" }
