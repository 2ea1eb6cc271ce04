package picset

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one item of AddBatch.
type Result struct {
	ID      string
	Index   int // position of the stored or matching photo, -1 on failure
	Outcome Outcome
	Err     error
}

// Added reports whether the item was stored as a new photo.
func (r Result) Added() bool { return r.Outcome == OutcomeAdded }

// AddBatch adds every id and returns one Result per id, in input order.
//
// Loading and fingerprinting run concurrently, limited by the resource
// controller's worker count (GOMAXPROCS without one). Inserts then run
// sequentially in input order, so a later copy of an earlier item is always
// the duplicate. Each decoded photo is charged to the resource controller's
// memory budget while it waits for its insert; an item that does not fit
// fails with resource.ErrMemoryLimitExceeded. Per-item failures are reported in Result.Err; the returned
// error is non-nil only when ctx ends before the loads complete, in which
// case nothing is inserted.
func (c *Collection[T]) AddBatch(ctx context.Context, ids []string) ([]Result, error) {
	if c.loader == nil {
		return nil, ErrNoLoader
	}
	start := time.Now()

	results := make([]Result, len(ids))
	prepared := make([]entry[T], len(ids))
	reserved := make([]bool, len(ids))
	elapsed := make([]time.Duration, len(ids))

	workers := runtime.GOMAXPROCS(0)
	if c.rc != nil {
		workers = c.rc.Workers()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		results[i] = Result{ID: id, Index: -1}
		g.Go(func() error {
			// The controller may be shared with other batches.
			if c.rc != nil {
				if err := c.rc.AcquireWorker(gctx); err != nil {
					return err
				}
				defer c.rc.ReleaseWorker()
			}

			t := time.Now()
			p, err := c.loader.Load(gctx, id)
			if err == nil {
				prepared[i], err = c.prepare(p)
			}
			if err == nil {
				if err = c.rc.AcquireMemory(prepared[i].bytes); err != nil {
					err = fmt.Errorf("hold %q: %w", id, err)
					prepared[i] = entry[T]{}
				} else {
					reserved[i] = true
				}
			}
			results[i].Err = err
			elapsed[i] = time.Since(t)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		for i, ok := range reserved {
			if ok {
				c.rc.ReleaseMemory(prepared[i].bytes)
			}
		}
		return nil, err
	}

	var added, duplicates, failed int
	for i := range results {
		r := &results[i]
		if r.Err == nil {
			t := time.Now()
			r.Index, r.Outcome, r.Err = c.insert(prepared[i], reserved[i])
			elapsed[i] += time.Since(t)
		}

		switch {
		case r.Err != nil:
			r.Index, r.Outcome = -1, OutcomeFailed
			failed++
		case r.Outcome == OutcomeDuplicate:
			duplicates++
		default:
			added++
		}
		c.metrics.RecordAdd(elapsed[i], r.Outcome, r.Err)
		c.logger.LogAdd(ctx, r.ID, r.Index, r.Outcome, r.Err)
	}

	c.metrics.RecordBatch(len(ids), failed, time.Since(start))
	c.logger.LogBatch(ctx, len(ids), added, duplicates, failed)
	return results, nil
}
