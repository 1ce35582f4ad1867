// Package mem provides memory allocation utilities.
package mem

import (
	"unsafe"
)

// DefaultAlignment is the byte alignment used when the caller does not
// require anything stronger (cache line / AVX-512 friendly).
const DefaultAlignment = 64

// AllocAligned allocates a byte slice of the given size whose first byte
// sits at an address divisible by align. align must be a power of two;
// values below DefaultAlignment are rounded up to it, so the result
// satisfies every plain-data element alignment up to 64 bytes.
//
// Note: This function allocates slightly more memory than requested to ensure
// alignment. The underlying array is kept alive by the returned slice.
func AllocAligned(size int, align int) []byte {
	if size == 0 {
		return nil
	}
	if align < DefaultAlignment {
		align = DefaultAlignment
	}

	// Allocate size + align so an aligned offset always exists within the
	// buffer, whatever address the runtime hands back.
	totalSize := size + align
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	a := uintptr(align)
	offset := (a - (addr & (a - 1))) & (a - 1)

	return buf[offset : offset+uintptr(size)]
}

// IsAligned reports whether p is aligned to align bytes.
func IsAligned(p unsafe.Pointer, align int) bool {
	return uintptr(p)&(uintptr(align)-1) == 0
}
