//go:build biglist_checks

package biglist

import "fmt"

// assertBounds panics on an out-of-range index. It is compiled in only
// under the biglist_checks build tag; release builds get a no-op.
func assertBounds(op string, index, length int64) {
	if index < 0 || index >= length {
		panic(fmt.Sprintf("biglist: %s: index %d out of range [0, %d)", op, index, length))
	}
}

func assertCreated(created bool, op string) {
	if !created {
		panic("biglist: " + op + " called on a disposed list")
	}
}
