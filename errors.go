package biglist

import (
	"errors"
	"fmt"
)

var (
	// ErrDisposed is returned by the checked decorator when an operation
	// is invoked on a disposed list.
	ErrDisposed = errors.New("biglist: list is disposed")

	// ErrConcurrentAccess is returned by the checked decorator when it
	// detects a conflicting concurrent operation on the same list.
	ErrConcurrentAccess = errors.New("biglist: concurrent access detected")

	// ErrElementNotPlain is returned by the checked decorator when the
	// element type contains pointers, maps, slices, strings, channels,
	// funcs or interfaces.
	ErrElementNotPlain = errors.New("biglist: element type is not plain data")
)

// IndexError indicates an out-of-range index, surfaced by the checked
// decorator only; the unchecked core documents the same condition as a
// precondition violation.
type IndexError struct {
	Op     string
	Index  int64
	Length int64
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("biglist: %s: index %d out of range [0, %d)", e.Op, e.Index, e.Length)
}
