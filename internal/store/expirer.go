package store

import (
	"time"

	"go.uber.org/zap"
)

// minSweepInterval is substituted for a zero or negative interval passed to
// NewExpirer, per spec §4.3 ("zero is coerced to the smallest representable
// non-zero interval").
const minSweepInterval = time.Nanosecond

// Expirer is a background sweeper bound to one Engine by shared ownership.
// It periodically calls Engine.PurgeExpired to reclaim memory held by keys
// that expired but were never touched again (access-time removal in Get/Set/
// Delete/Expire/TTL already guarantees correctness on its own; the sweeper
// only reclaims what those paths never see).
type Expirer struct {
	engine   *Engine
	interval time.Duration
	log      *zap.Logger

	stop chan struct{}
	done chan struct{}
}

// NewExpirer constructs an Expirer for engine and starts its background
// goroutine immediately. A nil logger is treated as zap.NewNop().
func NewExpirer(engine *Engine, interval time.Duration, log *zap.Logger) *Expirer {
	if interval <= 0 {
		interval = minSweepInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	ex := &Expirer{
		engine:   engine,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go ex.run()
	return ex
}

func (ex *Expirer) run() {
	defer close(ex.done)
	ticker := time.NewTicker(ex.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ex.stop:
			return
		case <-ticker.C:
			removed := ex.engine.PurgeExpired()
			if removed > 0 {
				ex.log.Debug("expirer sweep reclaimed entries", zap.Int("removed", removed))
			}
		}
	}
}

// Stop signals the background goroutine to exit and blocks until it has.
// Calling Stop more than once panics on the second close; callers should
// call it exactly once, typically via defer. Dropping an Expirer without
// calling Stop leaks its goroutine until process exit.
func (ex *Expirer) Stop() {
	close(ex.stop)
	<-ex.done
}
