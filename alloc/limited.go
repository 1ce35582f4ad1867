package alloc

import (
	"fmt"
	"unsafe"

	"github.com/unsafemem/biglist/resource"
)

// Limited decorates an Allocator with a resource.Controller memory
// budget. An allocation that would push the budget past its limit fails
// with a wrapped ErrAllocationFailed instead of succeeding silently.
//
// Several lists may share one Limited allocator (or one Controller across
// several Limited allocators) to cap their combined footprint.
type Limited struct {
	inner Allocator
	rc    *resource.Controller
}

// NewLimited wraps inner with the given controller.
func NewLimited(inner Allocator, rc *resource.Controller) *Limited {
	return &Limited{inner: inner, rc: rc}
}

// Allocate reserves size bytes from the budget, then delegates to the
// inner allocator. The reservation is rolled back if the inner allocation
// fails.
func (l *Limited) Allocate(size, align int64) (Block, error) {
	if err := l.rc.AcquireMemory(size); err != nil {
		return Block{}, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	b, err := l.inner.Allocate(size, align)
	if err != nil {
		l.rc.ReleaseMemory(size)
		return Block{}, err
	}
	return b, nil
}

// Free releases the block through the inner allocator and returns its
// bytes to the budget.
func (l *Limited) Free(b Block) error {
	size := b.Size()
	err := l.inner.Free(b)
	l.rc.ReleaseMemory(size)
	return err
}

// Copy delegates to the inner allocator.
func (l *Limited) Copy(dst, src unsafe.Pointer, n int64) {
	l.inner.Copy(dst, src, n)
}

// Move delegates to the inner allocator.
func (l *Limited) Move(dst, src unsafe.Pointer, n int64) {
	l.inner.Move(dst, src, n)
}
