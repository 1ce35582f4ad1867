// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides over-allocate-and-offset aligned allocation for storage blocks
// whose elements require a stronger alignment than Go's allocator
// guarantees for byte slices.
package mem
