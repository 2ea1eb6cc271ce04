package picset

import (
	"log/slog"

	"github.com/hupe1980/picset/ahash"
	"github.com/hupe1980/picset/imageio"
	"github.com/hupe1980/picset/internal/arena"
	"github.com/hupe1980/picset/photo"
	"github.com/hupe1980/picset/resource"
)

type options struct {
	// Typed values are checked against the collection's sample type in New.
	loader   any
	writer   any
	strategy any

	logger           *Logger
	metricsCollector MetricsCollector
	chunkSize        int
	maxPhotos        int
	rc               *resource.Controller
}

// Option configures a Collection.
type Option func(*options)

// WithLoader sets the source Add and AddBatch read from.
func WithLoader[T photo.Sample](src imageio.Source[T]) Option {
	return func(o *options) {
		o.loader = src
	}
}

// WithWriter sets the sink Save writes to.
func WithWriter[T photo.Sample](sink imageio.Sink[T]) Option {
	return func(o *options) {
		o.writer = sink
	}
}

// WithStrategy replaces the default 8x8 average hash.
//
// Changing the strategy changes which photos share a bucket, never which
// photos are considered duplicates.
func WithStrategy[T photo.Sample](s ahash.Strategy[T]) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &picset.BasicMetricsCollector{}
//	c, _ := picset.New[uint8](picset.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
//	fmt.Printf("Adds: %d, duplicates: %d\n", stats.AddCount, stats.DuplicateCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithChunkSize sets how many photos share one arena chunk.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithMaxPhotos caps the collection. Adds beyond the cap fail with ErrFull.
// The cap is rounded up to whole chunks.
func WithMaxPhotos(n int) Option {
	return func(o *options) {
		o.maxPhotos = n
	}
}

// WithResourceController bounds batch concurrency, storage throughput and
// the sample bytes the collection may own.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		chunkSize:        arena.DefaultChunkSize,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.chunkSize <= 0 {
		o.chunkSize = arena.DefaultChunkSize
	}
	return o
}
