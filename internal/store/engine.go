package store

import (
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Engine is the sharded, bounded-LRU storage engine of spec §4.2. All
// methods are safe for concurrent use by many goroutines; each touches
// exactly one shard except PurgeExpired, which visits every shard in turn.
type Engine struct {
	shards []*shard
	mask   uint64
	seed   uint64

	maxBytes  int64
	unlimited bool

	usedBytes atomic.Int64
	cursor    atomic.Uint64

	log *zap.Logger
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	shardCount int
	maxBytes   int64
	unlimited  bool
	seed       uint64
	haveSeed   bool
	log        *zap.Logger
}

// WithShardCount overrides the default shard count. The value is rounded up
// to the next power of two (minimum 1) per spec §4.2.
func WithShardCount(n int) Option {
	return func(c *engineConfig) { c.shardCount = n }
}

// WithMaxBytes bounds the engine's total accounted size; once set, Set
// triggers the eviction driver whenever usedBytes exceeds n. A negative or
// never-supplied bound means unlimited (no capacity-driven eviction).
// n == 0 is a valid, meaningful bound: every insert immediately evicts
// itself, per spec §8's boundary behavior.
func WithMaxBytes(n int64) Option {
	return func(c *engineConfig) {
		c.maxBytes = n
		c.unlimited = n < 0
	}
}

// WithSeed pins the hashing seed used for shard selection, for deterministic
// tests. Engines constructed without it draw a random seed.
func WithSeed(seed uint64) Option {
	return func(c *engineConfig) { c.seed = seed; c.haveSeed = true }
}

// WithLogger attaches a zap.Logger for rare lifecycle events (currently
// unused by the engine itself; carried for symmetry with Expirer, which
// takes its own logger as a NewExpirer argument).
func WithLogger(l *zap.Logger) Option {
	return func(c *engineConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// New constructs an Engine. Default shard count is
// available-parallelism × 4 (runtime.GOMAXPROCS(0) standing in for
// "available parallelism"), rounded up to a power of two; default capacity
// is unlimited.
func New(opts ...Option) *Engine {
	cfg := engineConfig{unlimited: true, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	shardCount := cfg.shardCount
	if shardCount <= 0 {
		shardCount = runtime.GOMAXPROCS(0) * 4
	}
	shardCount = nextPow2(shardCount)

	seed := cfg.seed
	if !cfg.haveSeed {
		seed = newRandomSeed()
	}

	e := &Engine{
		shards:    make([]*shard, shardCount),
		mask:      uint64(shardCount - 1),
		seed:      seed,
		maxBytes:  cfg.maxBytes,
		unlimited: cfg.unlimited,
		log:       cfg.log,
	}
	for i := range e.shards {
		e.shards[i] = newShard()
	}
	return e
}

// ShardCount returns the engine's (power-of-two) shard count.
func (e *Engine) ShardCount() int { return len(e.shards) }

// UsedBytes returns the current approximate total byte accounting.
// Eventually consistent across shards — see spec §5.
func (e *Engine) UsedBytes() int64 { return e.usedBytes.Load() }

func (e *Engine) shardFor(key []byte) *shard {
	h := seededHash(e.seed, key)
	return e.shards[h&e.mask]
}

// Get returns the live value for key, or found == false on miss or
// TTL expiry.
func (e *Engine) Get(key []byte) (value []byte, found bool) {
	now := time.Now()
	value, found, delta := e.shardFor(key).get(key, now)
	if delta != 0 {
		e.usedBytes.Add(int64(delta))
	}
	return value, found
}

// Set inserts or overwrites key→value, clearing any existing TTL, and then
// runs the eviction driver if a finite capacity is configured.
func (e *Engine) Set(key, value []byte) {
	now := time.Now()
	delta := e.shardFor(key).set(key, value, now)
	e.usedBytes.Add(int64(delta))
	e.evictToCapacity()
}

// Delete removes key if present. It returns true iff a live (non-expired)
// key was removed.
func (e *Engine) Delete(key []byte) bool {
	now := time.Now()
	removed, delta := e.shardFor(key).delete(key, now)
	if delta != 0 {
		e.usedBytes.Add(int64(delta))
	}
	return removed
}

// Expire sets key's TTL to ttl from now. Returns ErrNotFound if key is
// missing or already expired.
func (e *Engine) Expire(key []byte, ttl time.Duration) error {
	now := time.Now()
	delta, err := e.shardFor(key).expire(key, ttl, now)
	if delta != 0 {
		e.usedBytes.Add(int64(delta))
	}
	return err
}

// TTL reports key's expiration status and remaining time, if any.
func (e *Engine) TTL(key []byte) (TTLStatus, time.Duration) {
	now := time.Now()
	status, remaining, delta := e.shardFor(key).ttl(key, now)
	if delta != 0 {
		e.usedBytes.Add(int64(delta))
	}
	return status, remaining
}

// PurgeExpired visits every shard once and reclaims expired entries,
// returning the total count removed. Called directly by tests and
// periodically by Expirer.
func (e *Engine) PurgeExpired() int {
	now := time.Now()
	total := 0
	for _, sh := range e.shards {
		removed, delta := sh.purgeExpired(now)
		total += removed
		if delta != 0 {
			e.usedBytes.Add(int64(delta))
		}
	}
	return total
}

// evictToCapacity implements the eviction driver of spec §4.2: while
// usedBytes exceeds maxBytes, pop the LRU head of shards in round-robin
// order (starting from an atomically advanced cursor) until one yields an
// entry; stop if a full pass evicts nothing.
func (e *Engine) evictToCapacity() {
	if e.unlimited {
		return
	}
	n := len(e.shards)
	for e.usedBytes.Load() > e.maxBytes {
		start := int(e.cursor.Add(1) % uint64(n))
		evictedAny := false
		for off := 0; off < n; off++ {
			idx := (start + off) % n
			if ok, delta := e.shards[idx].evictHead(); ok {
				e.usedBytes.Add(int64(delta))
				evictedAny = true
				break
			}
		}
		if !evictedAny {
			return
		}
	}
}
