// Package photo provides the in-memory raster held by a picset collection.
//
// A Photo owns a contiguous, channel-interleaved, row-major sample buffer
// of exactly Width*Height*ChannelWidth samples. Photos are immutable once
// constructed: New copies the caller's samples and no method mutates them.
package photo

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"unsafe"

	"github.com/hupe1980/picset/internal/hash"
)

// ChannelWidth is the number of samples per pixel (R, G, B).
const ChannelWidth = 3

// Sample is the set of pixel value types a Photo can hold.
//
// All of them sum into an int64 accumulator without overflow for any
// image that fits in memory.
type Sample interface {
	~uint8 | ~uint16 | ~uint32 | ~int16 | ~int32
}

// ErrInvalidDimensions is returned when width or height is not positive.
var ErrInvalidDimensions = errors.New("photo: width and height must be positive")

// ErrSampleCount indicates the sample buffer does not match the dimensions.
type ErrSampleCount struct {
	Expected int
	Actual   int
}

func (e *ErrSampleCount) Error() string {
	return fmt.Sprintf("photo: sample count mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Photo is a decoded RGB raster.
type Photo[T Sample] struct {
	id      string
	width   int
	height  int
	samples []T
}

// New builds a Photo from the given samples.
// The samples are copied; the caller keeps ownership of its slice.
func New[T Sample](id string, width, height int, samples []T) (*Photo[T], error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	want := width * height * ChannelWidth
	if want/ChannelWidth/height != width {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrInvalidDimensions, width, height)
	}
	if len(samples) != want {
		return nil, &ErrSampleCount{Expected: want, Actual: len(samples)}
	}
	return &Photo[T]{
		id:      id,
		width:   width,
		height:  height,
		samples: slices.Clone(samples),
	}, nil
}

// ID returns the source identifier the photo was loaded from.
func (p *Photo[T]) ID() string { return p.id }

// Width returns the width in pixels.
func (p *Photo[T]) Width() int { return p.width }

// Height returns the height in pixels.
func (p *Photo[T]) Height() int { return p.height }

// Len returns the number of samples (Width*Height*ChannelWidth).
func (p *Photo[T]) Len() int { return len(p.samples) }

// Samples returns the backing sample buffer.
// The slice must be treated as read-only.
func (p *Photo[T]) Samples() []T { return p.samples }

// CopySamples returns a copy of the sample buffer.
func (p *Photo[T]) CopySamples() []T { return slices.Clone(p.samples) }

// At returns the three channel samples of the pixel at (x, y).
func (p *Photo[T]) At(x, y int) (r, g, b T) {
	i := (y*p.width + x) * ChannelWidth
	return p.samples[i], p.samples[i+1], p.samples[i+2]
}

// Equal reports whether p and other have identical dimensions and samples.
// Two nil photos are equal; a nil and a non-nil photo are not.
func (p *Photo[T]) Equal(other *Photo[T]) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.width != other.width || p.height != other.height {
		return false
	}
	return slices.Equal(p.samples, other.samples)
}

// ByteSize returns the memory held by the sample buffer.
func (p *Photo[T]) ByteSize() int {
	var zero T
	return len(p.samples) * int(unsafe.Sizeof(zero))
}

// Checksum returns the CRC32C of the raw sample bytes.
// Equal photos always have equal checksums; the converse does not hold.
func (p *Photo[T]) Checksum() uint32 {
	if len(p.samples) == 0 {
		return 0
	}
	return hash.CRC32C(unsafe.Slice((*byte)(unsafe.Pointer(&p.samples[0])), p.ByteSize()))
}

// ToNRGBA converts the photo into an opaque *image.NRGBA.
// Samples outside 0..255 are clamped.
func (p *Photo[T]) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			r, g, b := p.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: 0xff})
		}
	}
	return img
}

func clamp8[T Sample](v T) uint8 {
	switch {
	case int64(v) < 0:
		return 0
	case int64(v) > 0xff:
		return 0xff
	default:
		return uint8(v)
	}
}

func (p *Photo[T]) String() string {
	return fmt.Sprintf("photo(%q %dx%d)", p.id, p.width, p.height)
}
