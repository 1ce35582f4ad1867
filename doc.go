// Package biglist provides a growable, contiguous-memory list addressed
// by a 64-bit index, for element counts and byte sizes beyond what a
// 32-bit-indexed container can hold.
//
// # Overview
//
// A List[T] stores fixed-size plain-data elements in a single storage
// block obtained from an alloc.Allocator collaborator. All growth goes
// through allocate-copy-free, never in-place resize, so a mutating call
// that grows the list invalidates every raw pointer previously obtained
// into it.
//
//	a := alloc.NewHeap()
//	l, err := biglist.New[int64](a)
//	if err != nil { ... }
//	defer l.Dispose()
//
//	_ = l.Add(42)
//	v := l.Get(0)
//
// # Element Types
//
// Elements must be plain data: fixed size, fixed alignment, no internal
// pointers, maps, slices, strings, channels, funcs or interfaces. The
// list copies elements by raw byte copy and the garbage collector never
// scans its storage blocks, so a pointer smuggled into an element would
// not keep its referent alive. The unchecked core trusts the caller;
// NewChecked validates the element type at construction.
//
// # Checked And Unchecked Access
//
// The core List[T] performs no bounds or lifecycle enforcement: an
// out-of-range index or a use after Dispose is a precondition violation
// with undefined behavior. The Checked[T] decorator layers bounds checks,
// dispose checks and a lightweight concurrent-access guard on top of the
// same core, returning errors where the core would corrupt memory.
// Building with the biglist_checks tag additionally turns core
// precondition violations into panics.
//
// # Concurrency
//
// A list is a single-writer structure. It performs no internal locking;
// concurrent mutation is a data race. Concurrent read-only access is safe
// only while no writer is active, because growth replaces the storage
// block out from under readers.
package biglist
