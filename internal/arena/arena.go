package arena

import (
	"errors"
	"fmt"
	"math"
)

// ErrFull is returned by Append once the entry or chunk limit is reached.
var ErrFull = errors.New("arena: full")

const (
	// DefaultChunkSize is the number of entries per chunk.
	DefaultChunkSize = 1024
	// DefaultMaxChunks bounds the arena so handles fit in 32 bits with the default chunk size.
	DefaultMaxChunks = 1 << 20
)

// Handle addresses an entry. Handles are issued in insertion order starting at 0.
type Handle uint32

// Stats reports arena usage.
type Stats struct {
	Entries  int // entries appended
	Chunks   int // chunks allocated
	Capacity int // entries the allocated chunks can hold
}

// Arena is an append-only store of E.
type Arena[E any] struct {
	chunkSize  int
	maxChunks  int
	maxEntries int // 0 means chunk-bounded only
	chunks     [][]E
	n          int
}

// Option configures an Arena.
type Option func(*config)

type config struct {
	maxChunks  int
	maxEntries int
}

// WithMaxChunks caps the number of chunks. Values <= 0 keep the default.
func WithMaxChunks(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxChunks = n
		}
	}
}

// WithMaxEntries caps the number of entries exactly, independent of the
// chunk size. Values <= 0 disable the cap.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// New creates an arena with chunkSize entries per chunk.
// chunkSize <= 0 selects DefaultChunkSize.
func New[E any](chunkSize int, opts ...Option) *Arena[E] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	cfg := config{maxChunks: DefaultMaxChunks}
	for _, opt := range opts {
		opt(&cfg)
	}
	// Handles are uint32; never issue more than fit.
	if limit := (math.MaxUint32 + 1) / chunkSize; cfg.maxChunks > limit {
		cfg.maxChunks = limit
	}
	return &Arena[E]{chunkSize: chunkSize, maxChunks: cfg.maxChunks, maxEntries: cfg.maxEntries}
}

// Len returns the number of entries.
func (a *Arena[E]) Len() int { return a.n }

// Full reports whether the next Append would fail.
func (a *Arena[E]) Full() bool {
	if a.maxEntries > 0 && a.n >= a.maxEntries {
		return true
	}
	return a.n == len(a.chunks)*a.chunkSize && len(a.chunks) >= a.maxChunks
}

// Append stores e and returns its handle. On error the arena is unchanged.
func (a *Arena[E]) Append(e E) (Handle, error) {
	if a.Full() {
		return 0, fmt.Errorf("%w: %d entries", ErrFull, a.n)
	}
	if a.n == len(a.chunks)*a.chunkSize {
		a.chunks = append(a.chunks, make([]E, 0, a.chunkSize))
	}
	c := len(a.chunks) - 1
	// Appending within capacity never moves the chunk's backing array.
	a.chunks[c] = append(a.chunks[c], e)
	h := Handle(a.n)
	a.n++
	return h, nil
}

// Get returns a pointer to the entry for h, or nil if h was never issued.
// The pointer stays valid for the lifetime of the arena.
func (a *Arena[E]) Get(h Handle) *E {
	i := int(h)
	if i >= a.n {
		return nil
	}
	return &a.chunks[i/a.chunkSize][i%a.chunkSize]
}

// All iterates over entries in handle order.
func (a *Arena[E]) All(yield func(Handle, *E) bool) {
	for i := 0; i < a.n; i++ {
		if !yield(Handle(i), &a.chunks[i/a.chunkSize][i%a.chunkSize]) {
			return
		}
	}
}

// Stats returns usage counters.
func (a *Arena[E]) Stats() Stats {
	return Stats{
		Entries:  a.n,
		Chunks:   len(a.chunks),
		Capacity: len(a.chunks) * a.chunkSize,
	}
}
