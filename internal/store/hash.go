package store

import (
	"crypto/rand"
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// newRandomSeed draws a random 64-bit seed for shard selection. Engines
// constructed without an explicit seed use this so that shard distribution
// is not predictable across process restarts; tests that need determinism
// pass WithSeed explicitly.
func newRandomSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable on any real
		// platform; fall back to a fixed constant rather than panicking
		// the caller for what amounts to a cosmetic property.
		return 0x9e3779b97f4a7c15
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// seededHash hashes key under the engine's seed. xxhash.Sum64 has no native
// seed parameter, so the seed is folded in by prefixing the digest with the
// seed's bytes rotated against the key length — cheap, and sufficient since
// the seed only needs to vary shard placement across engine instances, not
// resist adversarial collision.
func seededHash(seed uint64, key []byte) uint64 {
	d := xxhash.New()
	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], bits.RotateLeft64(seed, len(key)&63))
	d.Write(seedBuf[:])
	d.Write(key)
	return d.Sum64()
}

// nextPow2 returns the smallest power of two >= n, with a floor of 1.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
