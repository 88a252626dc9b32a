// Package metrics implements the lock-free counters and fixed-bucket
// latency histogram of spec §4.7.
package metrics

import (
	"sync/atomic"
	"time"
)

// DefaultBucketsMicros are the histogram's upper-bound microsecond
// thresholds when none are supplied to New.
var DefaultBucketsMicros = []int64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}

// Registry holds the three atomic counters and the latency histogram.
// All operations use relaxed atomic ordering; no cross-field ordering is
// promised, so Snapshot may observe a slightly skewed combination of values.
type Registry struct {
	requests atomic.Uint64
	errors   atomic.Uint64
	inflight atomic.Int64

	bucketBoundsMicros []int64
	buckets            []atomic.Uint64 // len == len(bucketBoundsMicros)+1, last is overflow
	sampleCount        atomic.Uint64
	sumMicros          atomic.Uint64
}

// New constructs a Registry. A nil or empty bucketBoundsMicros uses
// DefaultBucketsMicros; the slice must be ascending (not validated at
// runtime — callers own that invariant, matching spec §4.7's "parameterized
// by an ascending vector").
func New(bucketBoundsMicros []int64) *Registry {
	if len(bucketBoundsMicros) == 0 {
		bucketBoundsMicros = DefaultBucketsMicros
	}
	bounds := make([]int64, len(bucketBoundsMicros))
	copy(bounds, bucketBoundsMicros)
	return &Registry{
		bucketBoundsMicros: bounds,
		buckets:            make([]atomic.Uint64, len(bounds)+1),
	}
}

// IncRequests increments the total request counter.
func (r *Registry) IncRequests() { r.requests.Add(1) }

// IncErrors increments the total error counter.
func (r *Registry) IncErrors() { r.errors.Add(1) }

// IncInflight increments the current in-flight counter; pair with DecInflight.
func (r *Registry) IncInflight() { r.inflight.Add(1) }

// DecInflight decrements the current in-flight counter.
func (r *Registry) DecInflight() { r.inflight.Add(-1) }

// Record converts latency to microseconds, increments the sample count and
// microsecond sum, and increments the first bucket whose bound is >= the
// sample (or the overflow bucket past the last threshold).
func (r *Registry) Record(latency time.Duration) {
	micros := latency.Microseconds()
	if micros < 0 {
		micros = 0
	}
	r.sampleCount.Add(1)
	r.sumMicros.Add(uint64(micros))

	idx := len(r.buckets) - 1 // overflow by default
	for i, bound := range r.bucketBoundsMicros {
		if micros <= bound {
			idx = i
			break
		}
	}
	r.buckets[idx].Add(1)
}

// HistogramSnapshot is a point-in-time copy of the latency histogram.
type HistogramSnapshot struct {
	BucketBoundsMicros []int64
	// Counts has len(BucketBoundsMicros)+1 entries; the last is the
	// overflow bucket for samples past the final bound.
	Counts      []uint64
	SampleCount uint64
	SumMicros   uint64
}

// Snapshot is a point-in-time copy of every counter and the histogram.
type Snapshot struct {
	Requests  uint64
	Errors    uint64
	Inflight  int64
	Histogram HistogramSnapshot
}

// Snapshot loads every counter and bucket into a plain value object.
func (r *Registry) Snapshot() Snapshot {
	counts := make([]uint64, len(r.buckets))
	for i := range r.buckets {
		counts[i] = r.buckets[i].Load()
	}
	bounds := make([]int64, len(r.bucketBoundsMicros))
	copy(bounds, r.bucketBoundsMicros)

	return Snapshot{
		Requests: r.requests.Load(),
		Errors:   r.errors.Load(),
		Inflight: r.inflight.Load(),
		Histogram: HistogramSnapshot{
			BucketBoundsMicros: bounds,
			Counts:             counts,
			SampleCount:        r.sampleCount.Load(),
			SumMicros:          r.sumMicros.Load(),
		},
	}
}
