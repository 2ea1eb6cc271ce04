package picset

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Verify recomputes every stored photo's digest and checks it against the
// index: each photo must sit in exactly the bucket of its digest, and no
// bucket may hold two equal photos. All violations are joined into the
// returned error, each wrapping ErrInconsistent.
func (c *Collection[T]) Verify(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := c.store.Len()
	var errs []error
	inconsistent := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInconsistent}, args...)...))
	}

	for h, e := range c.store.All {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, err := c.strategy.Digest(e.photo)
		switch {
		case err != nil:
			inconsistent("photo %d: %v", h, err)
		case d != e.digest:
			inconsistent("photo %d: digest %#016x, stored %#016x", h, d, e.digest)
		}
		if !c.index.Contains(e.digest, h) {
			inconsistent("photo %d: missing from bucket %#016x", h, e.digest)
		}
	}

	if got := c.index.Len(); got != n {
		inconsistent("index holds %d handles for %d photos", got, n)
	}

	for d := range c.index.Digests() {
		members := slices.Collect(c.index.Handles(d))
		for i, a := range members {
			pa := c.store.Get(a)
			if pa == nil {
				inconsistent("bucket %#016x references unknown photo %d", d, a)
				continue
			}
			for _, b := range members[i+1:] {
				if pb := c.store.Get(b); pb != nil && pa.photo.Equal(pb.photo) {
					inconsistent("photos %d and %d in bucket %#016x are equal", a, b, d)
				}
			}
		}
	}

	err := errors.Join(errs...)
	c.logger.LogVerify(ctx, n, err)
	return err
}
