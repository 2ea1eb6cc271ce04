// Package imageio loads photos from, and writes photos to, a blob store.
//
// Sources and destinations are P6 pixmaps. Wrapping the store in a
// blobstore.CompressedStore makes "*.ppm.zst" and "*.ppm.lz4" work too.
package imageio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/picset/blobstore"
	"github.com/hupe1980/picset/photo"
	"github.com/hupe1980/picset/ppm"
	"github.com/hupe1980/picset/resource"
)

// LoadError reports a source that could not be turned into a photo.
type LoadError struct {
	ID  string
	Op  string // "open", "decode"
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %s: %v", e.ID, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// WriteError reports a destination that could not be written.
type WriteError struct {
	Dest string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %q: %v", e.Dest, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Source produces photos from identifiers.
type Source[T photo.Sample] interface {
	Load(ctx context.Context, id string) (*photo.Photo[T], error)
}

// Sink writes photos to destinations.
type Sink[T photo.Sample] interface {
	Write(ctx context.Context, p *photo.Photo[T], dest string) error
}

// Loader reads P6 photos from a BlobStore.
type Loader[T photo.Sample] struct {
	store    blobstore.BlobStore
	throttle *resource.Controller
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	throttle *resource.Controller
}

// WithThrottle charges every byte read against rc's IO limit.
func WithThrottle(rc *resource.Controller) LoaderOption {
	return func(o *loaderOptions) {
		o.throttle = rc
	}
}

// NewLoader returns a Loader reading from store.
func NewLoader[T photo.Sample](store blobstore.BlobStore, opts ...LoaderOption) *Loader[T] {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader[T]{store: store, throttle: o.throttle}
}

// Load opens id and decodes it. Either a complete photo or a *LoadError is returned.
func (l *Loader[T]) Load(ctx context.Context, id string) (*photo.Photo[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{ID: id, Op: "open", Err: err}
	}
	blob, err := l.store.Open(ctx, id)
	if err != nil {
		return nil, &LoadError{ID: id, Op: "open", Err: err}
	}
	defer blob.Close()

	r, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, &LoadError{ID: id, Op: "open", Err: err}
	}
	var src io.Reader = r
	if l.throttle != nil {
		src = resource.NewReader(ctx, r, l.throttle)
	}
	p, err := ppm.DecodeSized[T](src, id, blob.Size())
	if err != nil {
		return nil, &LoadError{ID: id, Op: "decode", Err: err}
	}
	return p, nil
}

// Writer writes P6 photos to a BlobStore.
type Writer[T photo.Sample] struct {
	store blobstore.BlobStore
}

// NewWriter returns a Writer targeting store.
func NewWriter[T photo.Sample](store blobstore.BlobStore) *Writer[T] {
	return &Writer[T]{store: store}
}

// Write encodes p into dest. A nil or zero-sized photo is a no-op and
// creates nothing.
func (w *Writer[T]) Write(ctx context.Context, p *photo.Photo[T], dest string) error {
	if p == nil || p.Width() == 0 || p.Height() == 0 {
		return nil
	}
	blob, err := w.store.Create(ctx, dest)
	if err != nil {
		return &WriteError{Dest: dest, Err: err}
	}
	if err := ppm.Encode(blob, p); err != nil {
		return &WriteError{Dest: dest, Err: errors.Join(err, blob.Abort())}
	}
	if err := blob.Close(); err != nil {
		return &WriteError{Dest: dest, Err: err}
	}
	return nil
}
