package biglist

// DefaultCapacity is the initial element capacity used when the caller
// does not specify one.
const DefaultCapacity = 64

// growthNeeded reports whether appending n more elements to a list with
// the given count and capacity requires a larger storage block.
//
// The rule is strict: the list grows unless count+n leaves at least one
// spare slot below capacity. Filling exactly to capacity therefore
// triggers growth one insertion early. This off-by-one slack is a policy
// choice kept for its measured behavior, not a load-bearing invariant.
func growthNeeded(count, capacity, n int64) bool {
	return count+n >= capacity
}

// nextBlockSize computes the byte length of the replacement storage block
// for a list that must fit count+n elements of elemSize bytes each.
//
// The candidate is double the current block. If doubling still cannot
// hold the request, the candidate is extended by exactly the shortfall,
// so one policy evaluation always suffices. An empty block grows to
// exactly the requested size.
func nextBlockSize(blockLen, count, n, elemSize int64) int64 {
	need := count + n
	newLen := blockLen * 2
	if newCap := newLen / elemSize; newCap < need {
		newLen += (need - newCap) * elemSize
	}
	return newLen
}
