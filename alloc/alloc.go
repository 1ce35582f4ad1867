// Package alloc defines the storage allocator contract consumed by the
// list core, together with heap, off-heap and budget-limited
// implementations.
//
// # Contract
//
// An Allocator hands out Blocks: contiguous raw byte regions identified by
// a base pointer and a byte length. The core holds exactly one active
// Block per list handle, never inspects allocator internals, and routes
// every allocate/free/copy through the collaborator so the backing
// memory's lifetime class (GC-backed vs. off-heap) stays the allocator's
// decision alone.
package alloc

import (
	"errors"
	"unsafe"
)

// ErrAllocationFailed is returned when an allocation cannot be satisfied.
// Concrete causes are wrapped and reachable via errors.Is/As.
var ErrAllocationFailed = errors.New("alloc: allocation failed")

// Block is a contiguous raw memory region obtained from an Allocator.
//
// The zero Block is the nil block: no memory, size 0. Blocks are plain
// values; only the Allocator that produced a Block may free it.
type Block struct {
	ptr  unsafe.Pointer
	size int64
	// owner pins GC-backed memory and carries the unmap handle for
	// off-heap blocks. Opaque to everyone but the producing allocator.
	owner any
}

// NewBlock assembles a Block from raw parts. Intended for Allocator
// implementations; the core never builds Blocks itself.
func NewBlock(ptr unsafe.Pointer, size int64, owner any) Block {
	return Block{ptr: ptr, size: size, owner: owner}
}

// Ptr returns the base pointer of the region.
func (b Block) Ptr() unsafe.Pointer { return b.ptr }

// Size returns the region length in bytes.
func (b Block) Size() int64 { return b.size }

// IsNil reports whether the block holds no memory.
func (b Block) IsNil() bool { return b.ptr == nil }

// Bytes returns the region as a byte slice sharing the block's memory.
// The slice is valid until the block is freed.
func (b Block) Bytes() []byte {
	if b.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.size) //nolint:gosec // unsafe is required for raw block access
}

// Allocator is the storage collaborator contract.
//
// Allocate returns a zero-filled Block of at least size bytes whose base
// pointer is aligned to align (a power of two). Free releases a Block
// obtained from the same allocator; freeing the nil Block is a no-op.
// Copy and Move transfer raw bytes: Copy requires non-overlapping
// regions, Move tolerates overlap.
type Allocator interface {
	Allocate(size, align int64) (Block, error)
	Free(b Block) error
	Copy(dst, src unsafe.Pointer, n int64)
	Move(dst, src unsafe.Pointer, n int64)
}

// byteMover provides the Copy/Move half of the Allocator contract.
// Go's copy builtin has memmove semantics, so one implementation serves
// both directions.
type byteMover struct{}

func (byteMover) Copy(dst, src unsafe.Pointer, n int64) {
	moveBytes(dst, src, n)
}

func (byteMover) Move(dst, src unsafe.Pointer, n int64) {
	moveBytes(dst, src, n)
}

func moveBytes(dst, src unsafe.Pointer, n int64) {
	if n <= 0 || dst == nil || src == nil {
		return
	}
	d := unsafe.Slice((*byte)(dst), n) //nolint:gosec // unsafe is required for raw block access
	s := unsafe.Slice((*byte)(src), n) //nolint:gosec // unsafe is required for raw block access
	copy(d, s)
}
