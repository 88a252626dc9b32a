// Package promexport adapts a metrics.Registry snapshot into a
// prometheus.Collector, in the style of shardcache's metrics/prom adapter:
// the hot path (metrics.Registry) never touches a Prometheus type, and
// Prometheus only sees values at scrape time via Collect.
package promexport

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hybridkv/hybridkv/metrics"
)

// Collector implements prometheus.Collector over a *metrics.Registry.
type Collector struct {
	reg *metrics.Registry

	requestsDesc *prometheus.Desc
	errorsDesc   *prometheus.Desc
	inflightDesc *prometheus.Desc
	latencyDesc  *prometheus.Desc
}

// New constructs a Collector over reg. Register it with a
// prometheus.Registerer to expose hybridkv_requests_total,
// hybridkv_errors_total, hybridkv_inflight, and hybridkv_latency_seconds.
func New(reg *metrics.Registry) *Collector {
	return &Collector{
		reg:          reg,
		requestsDesc: prometheus.NewDesc("hybridkv_requests_total", "Total requests served.", nil, nil),
		errorsDesc:   prometheus.NewDesc("hybridkv_errors_total", "Total requests that resulted in an error reply.", nil, nil),
		inflightDesc: prometheus.NewDesc("hybridkv_inflight", "Requests currently being handled.", nil, nil),
		latencyDesc:  prometheus.NewDesc("hybridkv_latency_seconds", "Request latency distribution.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requestsDesc
	ch <- c.errorsDesc
	ch <- c.inflightDesc
	ch <- c.latencyDesc
}

// Collect implements prometheus.Collector, snapshotting the registry once
// per call and converting its microsecond buckets to the seconds convention
// Prometheus expects for histograms.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.reg.Snapshot()

	ch <- prometheus.MustNewConstMetric(c.requestsDesc, prometheus.CounterValue, float64(snap.Requests))
	ch <- prometheus.MustNewConstMetric(c.errorsDesc, prometheus.CounterValue, float64(snap.Errors))
	ch <- prometheus.MustNewConstMetric(c.inflightDesc, prometheus.GaugeValue, float64(snap.Inflight))

	buckets := make(map[float64]uint64, len(snap.Histogram.BucketBoundsMicros))
	var cumulative uint64
	for i, boundMicros := range snap.Histogram.BucketBoundsMicros {
		cumulative += snap.Histogram.Counts[i]
		buckets[float64(boundMicros)/1e6] = cumulative
	}
	// The implicit +Inf bucket (== total count) covers the overflow
	// bucket; it must not appear as an explicit key in buckets.

	ch <- prometheus.MustNewConstHistogram(
		c.latencyDesc,
		snap.Histogram.SampleCount,
		float64(snap.Histogram.SumMicros)/1e6,
		buckets,
	)
}

var _ prometheus.Collector = (*Collector)(nil)
