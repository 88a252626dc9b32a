// Package abi mirrors the frozen C-layout wire structures of the
// kernel-sidecar ioctl protocol (spec §6). It has no runtime behavior
// beyond the size/layout guarantees asserted in abi_test.go: no ioctl
// syscalls are issued here, and no unsafe struct-punning is used — every
// field is ordered and typed so Go's own alignment rules reproduce the
// documented C sizes without `//go:build` packing pragmas or unsafe.Pointer
// tricks.
package abi

// Magic is the ioctl magic byte identifying the hybridkv device.
const Magic = 'H'

// DevicePath and DeviceName are the kernel sidecar's interface constants.
const (
	DevicePath = "/dev/hybridkv"
	DeviceName = "hybridkv"
)

// IoctlHeader prefixes every ioctl request (4 B).
type IoctlHeader struct {
	Magic    uint8
	Version  uint8
	Command  uint8
	Reserved uint8
}

// Key is a length-prefixed key buffer (258 B): a 2-byte length followed by
// a 256-byte buffer of which only the first Len bytes are defined.
type Key struct {
	Len uint16
	Buf [256]byte
}

// Bytes returns the defined portion of the key buffer.
func (k *Key) Bytes() []byte { return k.Buf[:k.Len] }

// Value is a length-prefixed value buffer (1026 B): a 2-byte length
// followed by a 1024-byte buffer.
type Value struct {
	Len uint16
	Buf [1024]byte
}

// Bytes returns the defined portion of the value buffer.
func (v *Value) Bytes() []byte { return v.Buf[:v.Len] }

// Version is a monotonic counter (8 B).
type Version uint64

// Ttl is a nanosecond duration (8 B); TtlInfinite marks "never expires".
type Ttl uint64

// TtlInfinite is the sentinel Ttl value meaning no expiration.
const TtlInfinite Ttl = ^Ttl(0)

// EntryFlags is a 1-byte bitfield describing an entry's lifecycle state.
type EntryFlags uint8

const (
	// FlagValid marks a slot as holding a live entry.
	FlagValid EntryFlags = 1 << iota
	// FlagEvicting marks a slot mid-eviction.
	FlagEvicting
	// FlagInvalidated marks a slot explicitly invalidated ahead of reclaim.
	FlagInvalidated
)

// EntryMetadata is the 40-byte, 8-byte-aligned metadata block attached to
// every Entry.
type EntryMetadata struct {
	EntryVersion  Version
	Ttl           Ttl
	CreatedAtNs   uint64
	AccessedAtNs  uint64
	Flags         EntryFlags
	_             uint8 // padding
	KeyLen        uint16
	ValueLen      uint16
	_             uint16 // padding
}

// Entry is the on-wire composition Key+Value+EntryMetadata (1328 B). Go's
// natural alignment inserts exactly 4 bytes of padding between Value and
// Metadata (Metadata requires 8-byte alignment; Key+Value end on a
// 2-byte-aligned but not 8-byte-aligned offset), matching spec §6's "1328 B
// including 4 B padding between value and metadata" without an explicit
// padding field.
type Entry struct {
	Key      Key
	Value    Value
	Metadata EntryMetadata
}

// CacheStats is the 104-byte block of thirteen u64 statistics, in the order
// spec §6 fixes. Most are event counters; UsedBytes, MaxBytes and
// EntryCount are current levels rather than running totals.
type CacheStats struct {
	Lookups         uint64
	Hits            uint64
	Misses          uint64
	StaleHits       uint64
	Promotions      uint64
	Demotions       uint64
	Evictions       uint64
	Invalidations   uint64
	UsedBytes       uint64
	MaxBytes        uint64
	EntryCount      uint64
	LockContentions uint64
	RCUGracePeriods uint64
}
