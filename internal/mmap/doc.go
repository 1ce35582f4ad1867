// Package mmap provides anonymous memory mappings for off-heap storage.
//
// # Overview
//
// Storage blocks that live outside the Go heap put no pressure on the
// garbage collector and are never moved by it. A list holding billions of
// elements would otherwise force the GC to scan (or at least account for)
// gigabytes of pointer-free bytes.
//
// # Usage
//
//	m, err := mmap.MapAnon(size)
//	if err != nil { ... }
//	defer m.Close()
//
//	// Zero-copy read-write access to the mapping
//	data := m.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT
//
// # Thread Safety
//
// Close() is idempotent and protected by atomic operations. Callers must
// ensure no goroutines access Bytes() after Close() returns.
package mmap
