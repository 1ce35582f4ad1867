package alloc

import (
	"fmt"
	"unsafe"

	"github.com/unsafemem/biglist/internal/conv"
	"github.com/unsafemem/biglist/internal/mmap"
)

// pageSize is the weakest alignment an anonymous mapping guarantees.
const pageSize = 4096

// OffHeap allocates storage blocks from anonymous memory mappings outside
// the Go heap.
//
// Off-heap blocks put no pressure on the garbage collector, which matters
// once lists pin gigabytes of element data. Free unmaps the block
// immediately; any pointer into it becomes invalid at that moment.
type OffHeap struct {
	byteMover
}

// NewOffHeap creates an off-heap allocator.
func NewOffHeap() *OffHeap {
	return &OffHeap{}
}

// Allocate returns a zero-filled page-aligned block of size bytes.
func (o *OffHeap) Allocate(size, align int64) (Block, error) {
	if err := checkRequest(size, align); err != nil {
		return Block{}, err
	}
	if align > pageSize {
		return Block{}, fmt.Errorf("%w: alignment %d exceeds page alignment %d", ErrAllocationFailed, align, pageSize)
	}
	if size == 0 {
		return Block{}, nil
	}

	intSize, err := conv.Int64ToInt(size)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	m, err := mmap.MapAnon(intSize)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	data := m.Bytes()
	return NewBlock(unsafe.Pointer(&data[0]), size, m), nil //nolint:gosec // unsafe is required for raw block access
}

// Free unmaps the block. Freeing the nil block is a no-op.
func (o *OffHeap) Free(b Block) error {
	if b.IsNil() {
		return nil
	}
	m, ok := b.owner.(*mmap.Mapping)
	if !ok {
		return fmt.Errorf("alloc: block was not allocated by OffHeap")
	}
	return m.Close()
}
