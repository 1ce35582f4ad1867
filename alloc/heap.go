package alloc

import (
	"fmt"
	"unsafe"

	"github.com/unsafemem/biglist/internal/conv"
	"github.com/unsafemem/biglist/internal/mem"
)

// Heap allocates GC-backed, 64-byte-aligned storage blocks.
//
// Free is a logical release: the block's memory is reclaimed by the
// garbage collector once the last Block value referencing it is dropped.
// This makes Heap the safe default for callers that do not need off-heap
// behavior.
type Heap struct {
	byteMover
}

// NewHeap creates a heap allocator.
func NewHeap() *Heap {
	return &Heap{}
}

// Allocate returns a zero-filled block of size bytes aligned to align.
func (h *Heap) Allocate(size, align int64) (Block, error) {
	if err := checkRequest(size, align); err != nil {
		return Block{}, err
	}
	if size == 0 {
		return Block{}, nil
	}

	intSize, err := conv.Int64ToInt(size)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	intAlign, err := conv.Int64ToInt(align)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	buf := mem.AllocAligned(intSize, intAlign)
	// The buf reference in owner keeps the backing array reachable for
	// exactly as long as the Block is held somewhere.
	return NewBlock(unsafe.Pointer(&buf[0]), size, buf), nil //nolint:gosec // unsafe is required for raw block access
}

// Free releases the block. For heap blocks this is a no-op: dropping the
// Block value is what makes the memory collectable.
func (h *Heap) Free(b Block) error {
	return nil
}

func checkRequest(size, align int64) error {
	if size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrAllocationFailed, size)
	}
	if align <= 0 || align&(align-1) != 0 {
		return fmt.Errorf("%w: alignment %d is not a power of two", ErrAllocationFailed, align)
	}
	return nil
}
