package biglist

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// RemoveSet removes every element whose index is present in set, in one
// order-preserving compaction pass, and returns the number of elements
// removed. Indices in set at or beyond Len() are ignored.
//
// Equivalent to calling RemoveAt for each set index from highest to
// lowest, but costs a single pass over the list.
func (l *List[T]) RemoveSet(set *roaring64.Bitmap) int64 {
	assertCreated(l.created, "RemoveSet")
	if set == nil || set.IsEmpty() || l.count == 0 {
		return 0
	}

	var w int64
	var removed int64
	for r := int64(0); r < l.count; r++ {
		if set.Contains(uint64(r)) {
			removed++
			continue
		}
		if w != r {
			*l.at(w) = *l.at(r)
		}
		w++
	}
	l.count = w
	return removed
}
