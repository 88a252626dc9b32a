package abi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestFrozenLayoutSizes(t *testing.T) {
	assert.EqualValues(t, 4, unsafe.Sizeof(IoctlHeader{}))
	assert.EqualValues(t, 258, unsafe.Sizeof(Key{}))
	assert.EqualValues(t, 1026, unsafe.Sizeof(Value{}))
	assert.EqualValues(t, 8, unsafe.Sizeof(Version(0)))
	assert.EqualValues(t, 8, unsafe.Sizeof(Ttl(0)))
	assert.EqualValues(t, 1, unsafe.Sizeof(EntryFlags(0)))
	assert.EqualValues(t, 40, unsafe.Sizeof(EntryMetadata{}))
	assert.EqualValues(t, 1328, unsafe.Sizeof(Entry{}))
	assert.EqualValues(t, 104, unsafe.Sizeof(CacheStats{}))
	assert.EqualValues(t, 262, unsafe.Sizeof(ReadRequest{}))
	assert.EqualValues(t, 1032, unsafe.Sizeof(ReadResponse{}))
	assert.EqualValues(t, 1304, unsafe.Sizeof(PromoteRequest{}))
	assert.EqualValues(t, 1304008, unsafe.Sizeof(BatchPromoteRequest{}))
	assert.EqualValues(t, 134, unsafe.Sizeof(BatchPromoteResponse{}))
}

func TestTtlInfiniteIsMaxUint64(t *testing.T) {
	assert.EqualValues(t, ^uint64(0), uint64(TtlInfinite))
}

func TestBatchPromoteResponseBitmap(t *testing.T) {
	var r BatchPromoteResponse
	r.SetBit(0)
	r.SetBit(999)
	assert.True(t, r.BitSet(0))
	assert.True(t, r.BitSet(999))
	assert.False(t, r.BitSet(500))
}
