// Package conv provides checked integer conversions.
//
// The list core is int64-addressed while several stdlib surfaces (slice
// lengths, io counts) and wire fields (uint64 element counts) are not;
// these helpers make each narrowing explicit and overflow-safe.
package conv
