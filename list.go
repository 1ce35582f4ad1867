package biglist

import (
	"fmt"
	"unsafe"

	"github.com/unsafemem/biglist/alloc"
)

// List is a growable contiguous-memory list of plain-data elements,
// addressed by a 64-bit index.
//
// The zero List is not usable; construct with New or NewWithCapacity and
// release with Dispose. A List exclusively owns its storage block: no
// other party may free or reallocate it.
//
// Unless stated otherwise, index arguments are preconditions, not checked
// inputs: passing an index outside [0, Len()) or operating on a disposed
// list is undefined behavior. Use Checked for enforced variants.
type List[T any] struct {
	block   alloc.Block
	count   int64
	cap     int64
	alloc   alloc.Allocator
	created bool
}

// New creates a list with the default initial capacity of 64 elements.
func New[T any](a alloc.Allocator) (*List[T], error) {
	return NewWithCapacity[T](DefaultCapacity, a)
}

// NewWithCapacity creates a list with room for capacity elements before
// the first growth. capacity must be >= 0; zero defers the first
// allocation to the first insertion.
func NewWithCapacity[T any](capacity int64, a alloc.Allocator) (*List[T], error) {
	if a == nil {
		return nil, fmt.Errorf("biglist: nil allocator")
	}
	if capacity < 0 {
		return nil, fmt.Errorf("biglist: negative capacity %d", capacity)
	}

	var z T
	es := int64(unsafe.Sizeof(z))
	if es == 0 {
		return nil, fmt.Errorf("biglist: zero-size element type %T", z)
	}

	block, err := a.Allocate(capacity*es, int64(unsafe.Alignof(z)))
	if err != nil {
		return nil, err
	}

	return &List[T]{
		block:   block,
		cap:     capacity,
		alloc:   a,
		created: true,
	}, nil
}

func (l *List[T]) elemSize() int64 {
	var z T
	return int64(unsafe.Sizeof(z))
}

func (l *List[T]) elemAlign() int64 {
	var z T
	return int64(unsafe.Alignof(z))
}

// at returns a pointer to the element at index i without bounds checks.
func (l *List[T]) at(i int64) *T {
	return (*T)(unsafe.Add(l.block.Ptr(), uintptr(i)*uintptr(l.elemSize()))) //nolint:gosec // unsafe is required for raw block access
}

// Len returns the number of elements currently in the list.
func (l *List[T]) Len() int64 { return l.count }

// Cap returns the number of elements the current storage block can hold
// without growing.
func (l *List[T]) Cap() int64 { return l.cap }

// IsCreated reports whether the list holds a live storage block, i.e.
// has been constructed and not yet disposed.
func (l *List[T]) IsCreated() bool { return l.created }

// Get returns the element at index i.
//
// Precondition: 0 <= i < Len().
func (l *List[T]) Get(i int64) T {
	assertCreated(l.created, "Get")
	assertBounds("Get", i, l.count)
	return *l.at(i)
}

// Set replaces the element at index i.
//
// Precondition: 0 <= i < Len().
func (l *List[T]) Set(i int64, v T) {
	assertCreated(l.created, "Set")
	assertBounds("Set", i, l.count)
	*l.at(i) = v
}

// At returns a pointer to the element at index i. The pointer is
// invalidated by any mutating call that may reallocate (Add, AddRange,
// TrimExcess) and by Dispose.
//
// Precondition: 0 <= i < Len().
func (l *List[T]) At(i int64) *T {
	assertCreated(l.created, "At")
	assertBounds("At", i, l.count)
	return l.at(i)
}

// View returns the live elements as a slice sharing the list's storage.
// The slice is invalidated by the same calls that invalidate At.
func (l *List[T]) View() []T {
	if l.count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(l.block.Ptr()), l.count) //nolint:gosec // unsafe is required for raw block access
}

// Add appends v, growing the storage block if needed.
func (l *List[T]) Add(v T) error {
	assertCreated(l.created, "Add")
	if growthNeeded(l.count, l.cap, 1) {
		if err := l.grow(1); err != nil {
			return err
		}
	}
	*l.at(l.count) = v
	l.count++
	return nil
}

// AddRange appends n elements read from src, which must reference n
// contiguous elements not overlapping this list's own storage block.
// Equivalent to n sequential Add calls with the same values.
func (l *List[T]) AddRange(src unsafe.Pointer, n int64) error {
	assertCreated(l.created, "AddRange")
	if n <= 0 {
		return nil
	}
	if growthNeeded(l.count, l.cap, n) {
		if err := l.grow(n); err != nil {
			return err
		}
	}
	l.alloc.Copy(unsafe.Pointer(l.at(l.count)), src, n*l.elemSize())
	l.count += n
	return nil
}

// AppendSlice appends all elements of vals. The slice must not alias the
// list's own storage block.
func (l *List[T]) AppendSlice(vals []T) error {
	if len(vals) == 0 {
		return nil
	}
	return l.AddRange(unsafe.Pointer(&vals[0]), int64(len(vals))) //nolint:gosec // unsafe is required for raw block access
}

// RemoveAt removes the element at index i, shifting all later elements
// left by one slot. Removing the last element shifts nothing.
//
// Precondition: 0 <= i < Len().
func (l *List[T]) RemoveAt(i int64) {
	assertCreated(l.created, "RemoveAt")
	assertBounds("RemoveAt", i, l.count)
	if tail := l.count - i - 1; tail > 0 {
		es := l.elemSize()
		l.alloc.Move(unsafe.Pointer(l.at(i)), unsafe.Pointer(l.at(i+1)), tail*es)
	}
	l.count--
}

// RemoveRange removes n elements starting at index i, shifting all later
// elements left. Order of the remaining elements is preserved.
//
// Precondition: 0 <= i, 0 <= n, i+n <= Len().
func (l *List[T]) RemoveRange(i, n int64) {
	assertCreated(l.created, "RemoveRange")
	if n <= 0 {
		return
	}
	assertBounds("RemoveRange", i, l.count)
	assertBounds("RemoveRange", i+n-1, l.count)
	if tail := l.count - i - n; tail > 0 {
		es := l.elemSize()
		l.alloc.Move(unsafe.Pointer(l.at(i)), unsafe.Pointer(l.at(i+n)), tail*es)
	}
	l.count -= n
}

// Clear resets the count to zero. The storage block and capacity are
// retained.
func (l *List[T]) Clear() {
	assertCreated(l.created, "Clear")
	l.count = 0
}

// TrimExcess shrinks the storage block to exactly fit the current
// elements, or to ~10% above them when keepSlack is set. A block that is
// not larger than the target is left alone.
func (l *List[T]) TrimExcess(keepSlack bool) error {
	assertCreated(l.created, "TrimExcess")
	target := l.count
	if keepSlack {
		target += l.count / 10
	}

	es := l.elemSize()
	targetBytes := target * es
	if l.block.Size() <= targetBytes {
		return nil
	}

	if targetBytes == 0 {
		if err := l.alloc.Free(l.block); err != nil {
			return err
		}
		l.block = alloc.Block{}
		l.cap = 0
		return nil
	}

	nb, err := l.alloc.Allocate(targetBytes, l.elemAlign())
	if err != nil {
		return err
	}
	if l.count > 0 {
		l.alloc.Copy(nb.Ptr(), l.block.Ptr(), l.count*es)
	}
	if err := l.alloc.Free(l.block); err != nil {
		_ = l.alloc.Free(nb)
		return err
	}
	l.block = nb
	l.cap = target
	return nil
}

// Dispose frees the storage block and clears the handle. It is
// idempotent: calling it again is a no-op. Any other operation on a
// disposed list is a precondition violation.
func (l *List[T]) Dispose() error {
	if !l.created {
		return nil
	}
	err := l.alloc.Free(l.block)
	l.block = alloc.Block{}
	l.count = 0
	l.cap = 0
	l.created = false
	return err
}

// grow replaces the storage block with one sized for count+n elements,
// copies the live elements across and frees the old block. Metadata is
// updated only after both the allocation and the free succeed, so a
// failed grow leaves the list untouched.
func (l *List[T]) grow(n int64) error {
	es := l.elemSize()
	newLen := nextBlockSize(l.block.Size(), l.count, n, es)

	nb, err := l.alloc.Allocate(newLen, l.elemAlign())
	if err != nil {
		return err
	}
	if l.count > 0 {
		l.alloc.Copy(nb.Ptr(), l.block.Ptr(), l.count*es)
	}
	if err := l.alloc.Free(l.block); err != nil {
		_ = l.alloc.Free(nb)
		return err
	}

	l.block = nb
	l.cap = newLen / es
	return nil
}
