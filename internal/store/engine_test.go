package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	e := New(WithSeed(1))
	e.Set([]byte("k"), []byte("v"))
	v, ok := e.Get([]byte("k"))
	require.True(t, ok)
	assert.Equal(t, "v", string(v))
}

func TestSetOverwrite(t *testing.T) {
	e := New(WithSeed(1))
	e.Set([]byte("k"), []byte("v1"))
	e.Set([]byte("k"), []byte("v2"))
	v, ok := e.Get([]byte("k"))
	require.True(t, ok)
	assert.Equal(t, "v2", string(v))
}

func TestDeleteTwice(t *testing.T) {
	e := New(WithSeed(1))
	e.Set([]byte("k"), []byte("v"))
	assert.True(t, e.Delete([]byte("k")))
	assert.False(t, e.Delete([]byte("k")))
}

func TestExpireThenGetMisses(t *testing.T) {
	e := New(WithSeed(1))
	e.Set([]byte("k"), []byte("v"))
	require.NoError(t, e.Expire([]byte("k"), 0))
	_, ok := e.Get([]byte("k"))
	assert.False(t, ok)
}

func TestTTLStates(t *testing.T) {
	e := New(WithSeed(1))
	e.Set([]byte("k"), []byte("v"))

	status, _ := e.TTL([]byte("k"))
	assert.Equal(t, TTLNoExpiry, status)

	require.NoError(t, e.Expire([]byte("k"), 50*time.Millisecond))
	status, remaining := e.TTL([]byte("k"))
	assert.Equal(t, TTLHasDeadline, status)
	assert.LessOrEqual(t, remaining, 50*time.Millisecond)

	status, _ = e.TTL([]byte("missing"))
	assert.Equal(t, TTLMissing, status)
}

func TestExpireMissingKey(t *testing.T) {
	e := New(WithSeed(1))
	err := e.Expire([]byte("nope"), time.Second)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestTTLExpiryOnAccess covers spec scenario S4.
func TestTTLExpiryOnAccess(t *testing.T) {
	e := New(WithSeed(1))
	e.Set([]byte("k"), []byte("v"))
	require.NoError(t, e.Expire([]byte("k"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok := e.Get([]byte("k"))
	assert.False(t, ok)
	status, _ := e.TTL([]byte("k"))
	assert.Equal(t, TTLMissing, status)
}

// TestLRUEviction covers spec scenario S3: one shard, max_bytes = 10.
func TestLRUEviction(t *testing.T) {
	e := New(WithShardCount(1), WithMaxBytes(10), WithSeed(1))
	e.Set([]byte("a"), []byte("1234")) // size 5
	e.Set([]byte("b"), []byte("1234")) // size 5, used=10
	_, _ = e.Get([]byte("a"))          // touch a -> a becomes MRU
	e.Set([]byte("c"), []byte("1234")) // size 5, used=15 > 10, evicts LRU head (b)

	_, ok := e.Get([]byte("b"))
	assert.False(t, ok, "b should have been evicted")

	v, ok := e.Get([]byte("a"))
	require.True(t, ok)
	assert.Equal(t, "1234", string(v))

	v, ok = e.Get([]byte("c"))
	require.True(t, ok)
	assert.Equal(t, "1234", string(v))
}

func TestMaxBytesZeroEvictsImmediately(t *testing.T) {
	e := New(WithShardCount(1), WithMaxBytes(0), WithSeed(1))
	e.Set([]byte("k"), []byte("v"))
	_, ok := e.Get([]byte("k"))
	assert.False(t, ok)
	assert.Equal(t, int64(0), e.UsedBytes())
}

func TestUsedBytesStaysWithinCapacity(t *testing.T) {
	e := New(WithShardCount(4), WithMaxBytes(100), WithSeed(7))
	for i := 0; i < 1000; i++ {
		key := []byte{byte(i), byte(i >> 8)}
		e.Set(key, []byte("0123456789"))
	}
	assert.LessOrEqual(t, e.UsedBytes(), int64(100))
}

func TestPurgeExpired(t *testing.T) {
	e := New(WithShardCount(2), WithSeed(1))
	e.Set([]byte("a"), []byte("v"))
	e.Set([]byte("b"), []byte("v"))
	require.NoError(t, e.Expire([]byte("a"), time.Millisecond))
	require.NoError(t, e.Expire([]byte("b"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	removed := e.PurgeExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, int64(0), e.UsedBytes())
}

// TestConcurrentSetGetNeverForgesValue covers invariant 5: every get returns
// either a miss or a value that some set actually wrote.
func TestConcurrentSetGetNeverForgesValue(t *testing.T) {
	e := New(WithSeed(3))
	key := []byte("hot")
	written := map[string]bool{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val := []byte{byte(i)}
			mu.Lock()
			written[string(val)] = true
			mu.Unlock()
			e.Set(key, val)
		}(i)
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, ok := e.Get(key); ok {
				mu.Lock()
				_, known := written[string(v)]
				mu.Unlock()
				assert.True(t, known, "get returned a forged value")
			}
		}()
	}
	wg.Wait()
}

func TestShardCountRoundedToPowerOfTwo(t *testing.T) {
	e := New(WithShardCount(5))
	assert.Equal(t, 8, e.ShardCount())

	e = New(WithShardCount(0))
	assert.GreaterOrEqual(t, e.ShardCount(), 1)
}
