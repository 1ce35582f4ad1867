package biglist

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/unsafemem/biglist/alloc"
)

// Checked wraps a List with bounds checks, dispose checks and a
// lightweight concurrent-access guard. It is a decorator around the
// unchecked core, not part of it: the guard detects conflicting access
// and reports ErrConcurrentAccess instead of corrupting memory, but it
// does not serialize anything.
//
// The guard is a single atomic counter: readers increment it, a writer
// swaps it to a sentinel. A writer that finds readers active, or a reader
// that finds a writer active, reports a violation. False negatives are
// possible (it is a detector, not a lock); false positives are not.
type Checked[T any] struct {
	l      *List[T]
	access atomic.Int64
}

const checkedWriter = int64(-1)

// NewChecked creates a checked list. Beyond NewWithCapacity it validates
// at construction that T is plain data, rejecting element types the raw
// byte-copying core cannot safely hold.
func NewChecked[T any](capacity int64, a alloc.Allocator) (*Checked[T], error) {
	if err := validateElementType(reflect.TypeFor[T]()); err != nil {
		return nil, err
	}
	l, err := NewWithCapacity[T](capacity, a)
	if err != nil {
		return nil, err
	}
	return &Checked[T]{l: l}, nil
}

// Unwrap returns the underlying unchecked list.
func (c *Checked[T]) Unwrap() *List[T] { return c.l }

func (c *Checked[T]) beginRead() error {
	if c.access.Add(1) <= 0 {
		c.access.Add(-1)
		return ErrConcurrentAccess
	}
	return nil
}

func (c *Checked[T]) endRead() {
	c.access.Add(-1)
}

func (c *Checked[T]) beginWrite() error {
	if !c.access.CompareAndSwap(0, checkedWriter) {
		return ErrConcurrentAccess
	}
	return nil
}

func (c *Checked[T]) endWrite() {
	c.access.Store(0)
}

func (c *Checked[T]) checkIndex(op string, i int64) error {
	if i < 0 || i >= c.l.count {
		return &IndexError{Op: op, Index: i, Length: c.l.count}
	}
	return nil
}

// Len returns the number of elements currently in the list.
func (c *Checked[T]) Len() int64 { return c.l.Len() }

// Cap returns the element capacity of the current storage block.
func (c *Checked[T]) Cap() int64 { return c.l.Cap() }

// IsCreated reports whether the list has been constructed and not yet
// disposed.
func (c *Checked[T]) IsCreated() bool { return c.l.IsCreated() }

// Get returns the element at index i.
func (c *Checked[T]) Get(i int64) (T, error) {
	var zero T
	if err := c.beginRead(); err != nil {
		return zero, err
	}
	defer c.endRead()
	if !c.l.created {
		return zero, ErrDisposed
	}
	if err := c.checkIndex("Get", i); err != nil {
		return zero, err
	}
	return *c.l.at(i), nil
}

// Set replaces the element at index i.
func (c *Checked[T]) Set(i int64, v T) error {
	if err := c.beginWrite(); err != nil {
		return err
	}
	defer c.endWrite()
	if !c.l.created {
		return ErrDisposed
	}
	if err := c.checkIndex("Set", i); err != nil {
		return err
	}
	*c.l.at(i) = v
	return nil
}

// Add appends v, growing the storage block if needed.
func (c *Checked[T]) Add(v T) error {
	if err := c.beginWrite(); err != nil {
		return err
	}
	defer c.endWrite()
	if !c.l.created {
		return ErrDisposed
	}
	return c.l.Add(v)
}

// AppendSlice appends all elements of vals.
func (c *Checked[T]) AppendSlice(vals []T) error {
	if err := c.beginWrite(); err != nil {
		return err
	}
	defer c.endWrite()
	if !c.l.created {
		return ErrDisposed
	}
	return c.l.AppendSlice(vals)
}

// RemoveAt removes the element at index i, preserving the order of the
// remaining elements.
func (c *Checked[T]) RemoveAt(i int64) error {
	if err := c.beginWrite(); err != nil {
		return err
	}
	defer c.endWrite()
	if !c.l.created {
		return ErrDisposed
	}
	if err := c.checkIndex("RemoveAt", i); err != nil {
		return err
	}
	c.l.RemoveAt(i)
	return nil
}

// Clear resets the count to zero, retaining the storage block.
func (c *Checked[T]) Clear() error {
	if err := c.beginWrite(); err != nil {
		return err
	}
	defer c.endWrite()
	if !c.l.created {
		return ErrDisposed
	}
	c.l.Clear()
	return nil
}

// TrimExcess shrinks the storage block to fit the current elements.
func (c *Checked[T]) TrimExcess(keepSlack bool) error {
	if err := c.beginWrite(); err != nil {
		return err
	}
	defer c.endWrite()
	if !c.l.created {
		return ErrDisposed
	}
	return c.l.TrimExcess(keepSlack)
}

// Dispose releases the list. Like the core it is idempotent; unlike the
// core it still guards against a concurrently running operation.
func (c *Checked[T]) Dispose() error {
	if err := c.beginWrite(); err != nil {
		return err
	}
	defer c.endWrite()
	return c.l.Dispose()
}

// validateElementType rejects types the raw byte-copying storage cannot
// hold: anything carrying a pointer the garbage collector would need to
// see.
func validateElementType(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return validateElementType(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := validateElementType(t.Field(i).Type); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s (kind %s)", ErrElementNotPlain, t, t.Kind())
	}
}
