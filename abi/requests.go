package abi

// MaxBatchSize bounds BatchPromoteRequest's fixed entry array.
const MaxBatchSize = 1000

// ReadRequest is Header+Key (262 B).
type ReadRequest struct {
	Header IoctlHeader
	Key    Key
}

// ReadResponse is Status+Value. Go pads the 4+1026=1030-byte body up to the
// struct's 4-byte alignment (Status is uint32), landing on exactly the
// spec's 1032 B with no explicit padding field required.
type ReadResponse struct {
	Status uint32
	Value  Value
}

// PromoteRequest is Header+Key+Ttl+Value. This field order is what makes
// Go's natural alignment land on the spec's 1304 B: Ttl (uint64, 8-byte
// aligned) forces 2 bytes of padding after Key (Header+Key ends at offset
// 262), and the struct's own 8-byte alignment adds 6 trailing bytes after
// Value (the body through Value ends at offset 1298).
type PromoteRequest struct {
	Header IoctlHeader
	Key    Key
	Ttl    Ttl
	Value  Value
}

// BatchPromoteRequest is a count-prefixed fixed array of PromoteRequest
// entries: 8 + MaxBatchSize*1304 = 1,304,008 B.
type BatchPromoteRequest struct {
	Count   uint64
	Entries [MaxBatchSize]PromoteRequest
}

// successBitmapBytes holds one bit per batch entry, LSB-first, per spec §6;
// 1000 entries need 125 bytes (1000/8).
const successBitmapBytes = MaxBatchSize / 8

// BatchPromoteResponse is Header+a 125-byte LSB-first success bitmap,
// padded to the spec's 134 B.
type BatchPromoteResponse struct {
	Header        IoctlHeader
	SuccessBitmap [successBitmapBytes]byte
	_             [5]byte // explicit padding to reach the documented 134 B
}

// BitSet reports whether bit i is set in the success bitmap (LSB-first
// within each byte).
func (r *BatchPromoteResponse) BitSet(i int) bool {
	return r.SuccessBitmap[i/8]&(1<<(uint(i)%8)) != 0
}

// SetBit sets bit i in the success bitmap.
func (r *BatchPromoteResponse) SetBit(i int) {
	r.SuccessBitmap[i/8] |= 1 << (uint(i) % 8)
}
