package server

import (
	"go.uber.org/zap"

	"github.com/hybridkv/hybridkv/metrics"
)

// Option configures a Server at construction time.
type Option func(*config)

type config struct {
	log            *zap.Logger
	metrics        *metrics.Registry
	maxConnections int64
	readBufferSize int
}

// WithLogger attaches a zap.Logger for lifecycle and per-connection error
// events. Default is zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics attaches a metrics.Registry that every handled command
// updates (request/error counters and latency histogram). Default is a
// private Registry with the default buckets.
func WithMetrics(r *metrics.Registry) Option {
	return func(c *config) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithMaxConnections bounds how many connections are serviced concurrently;
// connections beyond the bound are accepted and immediately closed rather
// than queued.
func WithMaxConnections(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxConnections = n
		}
	}
}

// WithReadBufferSize overrides the initial per-connection receive buffer
// size (grown as needed for oversize frames).
func WithReadBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.readBufferSize = n
		}
	}
}

const (
	defaultMaxConnections = 10000
	defaultReadBufferSize = 4096
)
