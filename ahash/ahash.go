// Package ahash implements the average-hash fingerprint used to bucket photos.
//
// The digest is locality-sensitive, not cryptographic: near-identical photos
// are likely to collide, unrelated photos are unlikely to. Collisions are
// expected and resolved by the collection with an exact comparison.
//
// # Algorithm
//
// With a grid of Gw x Gh cells (G = Gw*Gh, at most 64), each cell covers
// L = ChannelWidth*Gw*Gh consecutive samples of the flat sample buffer:
// cell i spans samples [i*L, (i+1)*L). This is a positional partition of
// the buffer, not a geometric downscale, and only the first G*L samples
// take part.
//
//	cell[i] = sum(samples[i*L : (i+1)*L]) / L   (int64, truncating)
//	mean    = sum(cell) / G                      (int64, truncating)
//	bit i   = cell[i] > mean                     (bit 0 is the LSB)
package ahash

import (
	"errors"
	"fmt"

	"github.com/hupe1980/picset/photo"
)

// Strategy reduces a photo to a 64-bit digest.
type Strategy[T photo.Sample] interface {
	Digest(p *photo.Photo[T]) (uint64, error)
}

var (
	// ErrImageTooSmall is returned when a photo has fewer samples than the grid covers.
	ErrImageTooSmall = errors.New("ahash: image too small for grid")
	// ErrInvalidGrid is returned when a grid has no cells or more than 64.
	ErrInvalidGrid = errors.New("ahash: invalid grid")
)

// FingerprintError reports a photo that cannot fill the grid.
type FingerprintError struct {
	ID   string
	Need int // samples required by the grid
	Have int // samples in the photo
}

func (e *FingerprintError) Error() string {
	return fmt.Sprintf("ahash: %q has %d samples, grid needs %d", e.ID, e.Have, e.Need)
}

func (e *FingerprintError) Unwrap() error { return ErrImageTooSmall }

// Grid is the cell layout of the hash. Its cell count is the digest width.
type Grid struct {
	Width  int
	Height int
}

// DefaultGrid is the 8x8 grid producing a full 64-bit digest.
var DefaultGrid = Grid{Width: 8, Height: 8}

// Bits returns the number of digest bits (one per cell).
func (g Grid) Bits() int { return g.Width * g.Height }

// SegmentLen returns the number of samples folded into each cell.
func (g Grid) SegmentLen() int { return photo.ChannelWidth * g.Width * g.Height }

// MinSamples returns the smallest sample count the grid can hash.
func (g Grid) MinSamples() int { return g.Bits() * g.SegmentLen() }

// Validate checks that the grid yields between 1 and 64 bits.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 || g.Bits() > 64 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, g.Width, g.Height)
	}
	return nil
}

// AverageHash is the average-hash Strategy.
type AverageHash[T photo.Sample] struct {
	grid Grid
}

// New returns an AverageHash over the given grid.
func New[T photo.Sample](grid Grid) (*AverageHash[T], error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	return &AverageHash[T]{grid: grid}, nil
}

// Default returns an AverageHash over DefaultGrid.
func Default[T photo.Sample]() *AverageHash[T] {
	return &AverageHash[T]{grid: DefaultGrid}
}

// Grid returns the configured grid.
func (a *AverageHash[T]) Grid() Grid { return a.grid }

// Digest computes the average hash of p.
//
// A nil photo yields digest 0 and no error. Zero is a placeholder for
// "no input", not the hash of a real photo; callers must not treat it as one.
func (a *AverageHash[T]) Digest(p *photo.Photo[T]) (uint64, error) {
	if p == nil {
		return 0, nil
	}

	g := a.grid
	cells := g.Bits()
	segLen := g.SegmentLen()
	if p.Len() < g.MinSamples() {
		return 0, &FingerprintError{ID: p.ID(), Need: g.MinSamples(), Have: p.Len()}
	}

	samples := p.Samples()
	var values [64]int64
	var total int64
	for i := 0; i < cells; i++ {
		var sum int64
		for _, s := range samples[i*segLen : (i+1)*segLen] {
			sum += int64(s)
		}
		values[i] = sum / int64(segLen)
		total += values[i]
	}
	mean := total / int64(cells)

	var digest uint64
	for i := 0; i < cells; i++ {
		if values[i] > mean {
			digest |= 1 << uint(i)
		}
	}
	return digest, nil
}
