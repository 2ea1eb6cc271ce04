package picset

import (
	"sync/atomic"
	"time"
)

// Outcome classifies a single add.
type Outcome int

const (
	// OutcomeFailed means the photo could not be loaded, fingerprinted or stored.
	OutcomeFailed Outcome = iota
	// OutcomeAdded means the photo was new and is now stored.
	OutcomeAdded
	// OutcomeDuplicate means an equal photo was already stored.
	OutcomeDuplicate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return "failed"
	}
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with a monitoring system.
type MetricsCollector interface {
	// RecordAdd is called after each Add or AddPhoto, and once per item of
	// a batch. duration covers load, fingerprint and insert.
	RecordAdd(duration time.Duration, outcome Outcome, err error)

	// RecordBatch is called after each AddBatch call.
	// count is the number of items attempted, failed is the number that failed.
	RecordBatch(count, failed int, duration time.Duration)

	// RecordGet is called after each Get. err is non-nil for out-of-range positions.
	RecordGet(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, Outcome, error) {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration)     {}
func (NoopMetricsCollector) RecordGet(error)                         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount       atomic.Int64
	AddErrors      atomic.Int64
	DuplicateCount atomic.Int64
	AddTotalNanos  atomic.Int64
	BatchCount     atomic.Int64
	BatchItems     atomic.Int64
	BatchFailed    atomic.Int64
	BatchNanos     atomic.Int64
	GetCount       atomic.Int64
	GetErrors      atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, outcome Outcome, err error) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AddErrors.Add(1)
	}
	if outcome == OutcomeDuplicate {
		b.DuplicateCount.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(count, failed int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	b.BatchFailed.Add(int64(failed))
	b.BatchNanos.Add(duration.Nanoseconds())
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(err error) {
	b.GetCount.Add(1)
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:       b.AddCount.Load(),
		AddErrors:      b.AddErrors.Load(),
		DuplicateCount: b.DuplicateCount.Load(),
		AddAvgNanos:    avg(b.AddTotalNanos.Load(), b.AddCount.Load()),
		BatchCount:     b.BatchCount.Load(),
		BatchItems:     b.BatchItems.Load(),
		BatchFailed:    b.BatchFailed.Load(),
		BatchAvgNanos:  avg(b.BatchNanos.Load(), b.BatchCount.Load()),
		GetCount:       b.GetCount.Load(),
		GetErrors:      b.GetErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount       int64
	AddErrors      int64
	DuplicateCount int64
	AddAvgNanos    int64
	BatchCount     int64
	BatchItems     int64
	BatchFailed    int64
	BatchAvgNanos  int64
	GetCount       int64
	GetErrors      int64
}
