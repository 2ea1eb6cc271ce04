package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/picset/photo"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// FillBytes fills dst with random bytes.
// Locks only once per call.
func (r *RNG) FillBytes(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = byte(r.rand.Intn(256))
	}
}

// RandomSamples returns n random samples in range [0, 256).
func RandomSamples[T photo.Sample](r *RNG, n int) []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, n)
	for i := range out {
		out[i] = T(r.rand.Intn(256))
	}
	return out
}

// RandomPhoto returns a width x height photo of random 8-bit range samples.
func RandomPhoto[T photo.Sample](r *RNG, id string, width, height int) *photo.Photo[T] {
	return mustPhoto(id, width, height, RandomSamples[T](r, width*height*photo.ChannelWidth))
}

// UniformPhoto returns a photo whose samples all equal v.
func UniformPhoto[T photo.Sample](id string, width, height int, v T) *photo.Photo[T] {
	samples := make([]T, width*height*photo.ChannelWidth)
	for i := range samples {
		samples[i] = v
	}
	return mustPhoto(id, width, height, samples)
}

// CellPhoto returns a single-row photo made of len(cells) runs of segLen
// samples, run i holding cells[i]. With segLen equal to a hash grid's segment
// length, every hash cell averages exactly to its value.
//
// segLen*len(cells) must be a multiple of photo.ChannelWidth.
func CellPhoto[T photo.Sample](id string, segLen int, cells []T) *photo.Photo[T] {
	samples := make([]T, 0, segLen*len(cells))
	for _, c := range cells {
		for range segLen {
			samples = append(samples, c)
		}
	}
	return mustPhoto(id, len(samples)/photo.ChannelWidth, 1, samples)
}

// WithSample returns a copy of p whose sample at index i is replaced by v.
func WithSample[T photo.Sample](p *photo.Photo[T], id string, i int, v T) *photo.Photo[T] {
	samples := p.CopySamples()
	samples[i] = v
	return mustPhoto(id, p.Width(), p.Height(), samples)
}

func mustPhoto[T photo.Sample](id string, width, height int, samples []T) *photo.Photo[T] {
	p, err := photo.New(id, width, height, samples)
	if err != nil {
		panic(err)
	}
	return p
}
