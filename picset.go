package picset

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/hupe1980/picset/ahash"
	"github.com/hupe1980/picset/imageio"
	"github.com/hupe1980/picset/internal/arena"
	"github.com/hupe1980/picset/internal/bucket"
	"github.com/hupe1980/picset/photo"
	"github.com/hupe1980/picset/resource"
)

// entry is one owned photo with the values derived from it at insert time.
type entry[T photo.Sample] struct {
	photo    *photo.Photo[T]
	digest   uint64
	checksum uint32
	bytes    int64 // reserved against the resource controller
}

// Collection is a deduplicated set of photos indexed by digest.
type Collection[T photo.Sample] struct {
	mu    sync.RWMutex
	store *arena.Arena[entry[T]]
	index *bucket.Index

	strategy ahash.Strategy[T]
	loader   imageio.Source[T]
	writer   imageio.Sink[T]

	rc      *resource.Controller
	logger  *Logger
	metrics MetricsCollector
}

// Stats summarizes a collection.
type Stats struct {
	Photos        int    // stored photos
	Buckets       int    // distinct digests
	LargestBucket int    // photos in the most crowded bucket
	Collisions    int    // photos sharing a digest with an earlier photo
	Chunks        int    // arena chunks allocated
	SampleBytes   int64  // bytes of sample data owned
	IndexBytes    uint64 // approximate bitmap footprint
}

// New creates an empty collection.
func New[T photo.Sample](optFns ...Option) (*Collection[T], error) {
	o := applyOptions(optFns)
	want := fmt.Sprintf("%T", *new(T))

	c := &Collection[T]{
		index:   bucket.New(),
		rc:      o.rc,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}

	var arenaOpts []arena.Option
	if o.maxPhotos > 0 {
		arenaOpts = append(arenaOpts, arena.WithMaxEntries(o.maxPhotos))
	}
	c.store = arena.New[entry[T]](o.chunkSize, arenaOpts...)

	if o.strategy == nil {
		c.strategy = ahash.Default[T]()
	} else if s, ok := o.strategy.(ahash.Strategy[T]); ok {
		c.strategy = s
	} else {
		return nil, &ErrOptionType{Option: "WithStrategy", Want: want}
	}

	if o.loader != nil {
		l, ok := o.loader.(imageio.Source[T])
		if !ok {
			return nil, &ErrOptionType{Option: "WithLoader", Want: want}
		}
		c.loader = l
	}

	if o.writer != nil {
		w, ok := o.writer.(imageio.Sink[T])
		if !ok {
			return nil, &ErrOptionType{Option: "WithWriter", Want: want}
		}
		c.writer = w
	}

	return c, nil
}

// Len returns the number of stored photos.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Len()
}

// Get returns the photo at position i, in insertion order.
func (c *Collection[T]) Get(i int) (*photo.Photo[T], error) {
	c.mu.RLock()
	e, err := c.entryAt(i)
	c.mu.RUnlock()

	c.metrics.RecordGet(err)
	if err != nil {
		return nil, err
	}
	return e.photo, nil
}

// Digest returns the digest stored for position i.
func (c *Collection[T]) Digest(i int) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, err := c.entryAt(i)
	if err != nil {
		return 0, err
	}
	return e.digest, nil
}

// entryAt must be called with c.mu held.
func (c *Collection[T]) entryAt(i int) (*entry[T], error) {
	n := c.store.Len()
	if i < 0 || i >= n {
		return nil, &ErrIndexOutOfRange{Index: i, Len: n}
	}
	e := c.store.Get(arena.Handle(i))
	if e == nil || e.photo == nil {
		panic(fmt.Sprintf("picset: slot %d of %d is empty", i, n))
	}
	return e, nil
}

// Add loads id, and stores the photo unless an equal one is already present.
// It reports whether the photo was stored. Load and fingerprint errors are
// returned unchanged and leave the collection untouched.
func (c *Collection[T]) Add(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	if c.loader == nil {
		c.finish(ctx, id, start, -1, OutcomeFailed, ErrNoLoader)
		return false, ErrNoLoader
	}

	p, err := c.loader.Load(ctx, id)
	if err != nil {
		c.finish(ctx, id, start, -1, OutcomeFailed, err)
		return false, err
	}

	idx, outcome, err := c.add(ctx, p)
	c.finish(ctx, id, start, idx, outcome, err)
	return outcome == OutcomeAdded, err
}

// AddPhoto is Add for a photo that is already decoded. The collection keeps p.
func (c *Collection[T]) AddPhoto(ctx context.Context, p *photo.Photo[T]) (bool, error) {
	start := time.Now()
	if p == nil {
		c.finish(ctx, "", start, -1, OutcomeFailed, ErrNilPhoto)
		return false, ErrNilPhoto
	}

	idx, outcome, err := c.add(ctx, p)
	c.finish(ctx, p.ID(), start, idx, outcome, err)
	return outcome == OutcomeAdded, err
}

func (c *Collection[T]) add(ctx context.Context, p *photo.Photo[T]) (int, Outcome, error) {
	e, err := c.prepare(p)
	if err != nil {
		return -1, OutcomeFailed, err
	}
	if err := ctx.Err(); err != nil {
		return -1, OutcomeFailed, err
	}
	return c.insert(e, false)
}

// prepare derives everything insert needs without touching shared state.
func (c *Collection[T]) prepare(p *photo.Photo[T]) (entry[T], error) {
	d, err := c.strategy.Digest(p)
	if err != nil {
		return entry[T]{}, err
	}
	return entry[T]{
		photo:    p,
		digest:   d,
		checksum: p.Checksum(),
		bytes:    int64(p.ByteSize()),
	}, nil
}

// insert runs the duplicate check and the store under one write lock.
// It returns the position of the stored or matching photo. When reserved is
// set, e.bytes is already charged to the controller and insert takes over the
// reservation: it is kept for a stored photo and released otherwise.
func (c *Collection[T]) insert(e entry[T], reserved bool) (int, Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	release := func() {
		if reserved {
			c.rc.ReleaseMemory(e.bytes)
		}
	}

	if h, ok := c.findLocked(&e); ok {
		release()
		return int(h), OutcomeDuplicate, nil
	}
	if c.store.Full() {
		release()
		return -1, OutcomeFailed, fmt.Errorf("store %q: %w: %d photos", e.photo.ID(), ErrFull, c.store.Len())
	}

	if !reserved {
		if err := c.rc.AcquireMemory(e.bytes); err != nil {
			return -1, OutcomeFailed, fmt.Errorf("store %q: %w", e.photo.ID(), err)
		}
	}
	h, err := c.store.Append(e)
	if err != nil {
		c.rc.ReleaseMemory(e.bytes)
		return -1, OutcomeFailed, fmt.Errorf("store %q: %w", e.photo.ID(), err)
	}
	c.index.Insert(e.digest, h)
	return int(h), OutcomeAdded, nil
}

// findLocked scans e's bucket oldest first for an equal photo.
func (c *Collection[T]) findLocked(e *entry[T]) (arena.Handle, bool) {
	for h := range c.index.Handles(e.digest) {
		stored := c.store.Get(h)
		if stored.checksum != e.checksum {
			continue
		}
		if stored.photo.Equal(e.photo) {
			return h, true
		}
	}
	return 0, false
}

func (c *Collection[T]) finish(ctx context.Context, id string, start time.Time, idx int, outcome Outcome, err error) {
	c.metrics.RecordAdd(time.Since(start), outcome, err)
	c.logger.LogAdd(ctx, id, idx, outcome, err)
}

// Bucket returns the photos sharing digest, oldest first.
func (c *Collection[T]) Bucket(digest uint64) []*photo.Photo[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*photo.Photo[T], 0, c.index.Size(digest))
	for h := range c.index.Handles(digest) {
		out = append(out, c.store.Get(h).photo)
	}
	return out
}

// Buckets returns the number of distinct digests.
func (c *Collection[T]) Buckets() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.Buckets()
}

// All iterates over the photos stored when iteration starts, in insertion order.
func (c *Collection[T]) All() iter.Seq2[int, *photo.Photo[T]] {
	return func(yield func(int, *photo.Photo[T]) bool) {
		n := c.Len()
		for i := 0; i < n; i++ {
			c.mu.RLock()
			e := c.store.Get(arena.Handle(i))
			c.mu.RUnlock()
			if !yield(i, e.photo) {
				return
			}
		}
	}
}

// Save writes the photo at position i to dest through the configured writer.
func (c *Collection[T]) Save(ctx context.Context, i int, dest string) error {
	if c.writer == nil {
		return ErrNoWriter
	}
	p, err := c.Get(i)
	if err != nil {
		return err
	}
	return c.writer.Write(ctx, p, dest)
}

// Stats returns a snapshot of collection statistics.
func (c *Collection[T]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Photos:     c.store.Len(),
		Buckets:    c.index.Buckets(),
		Chunks:     c.store.Stats().Chunks,
		IndexBytes: c.index.SizeInBytes(),
	}
	for _, n := range c.index.Digests() {
		s.LargestBucket = max(s.LargestBucket, n)
		s.Collisions += n - 1
	}
	for _, e := range c.store.All {
		s.SampleBytes += e.bytes
	}
	return s
}
