// Command benchlist drives the list through large insert/read/remove
// loops and compares wall-clock timings and read-back correctness against
// a reference Go slice.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/unsafemem/biglist"
	"github.com/unsafemem/biglist/alloc"
	"github.com/unsafemem/biglist/resource"
)

func main() {
	var (
		n         = flag.Int64("n", 10_000_000, "number of elements per trial")
		trials    = flag.Int("trials", 3, "number of trials")
		allocator = flag.String("allocator", "heap", "allocator: heap, offheap or limited")
		removes   = flag.Int64("removes", 10_000, "number of RemoveAt calls per trial")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "benchlist:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is unactionable

	a, err := makeAllocator(*allocator, *n)
	if err != nil {
		logger.Fatal("invalid allocator", zap.Error(err))
	}

	logger.Info("starting",
		zap.Int64("elements", *n),
		zap.Int("trials", *trials),
		zap.String("allocator", *allocator),
	)

	for trial := 0; trial < *trials; trial++ {
		listAdd, listSum, err := runList(a, *n, *removes)
		if err != nil {
			logger.Fatal("list trial failed", zap.Int("trial", trial), zap.Error(err))
		}
		refAdd, refSum := runReference(*n, *removes)

		if listSum != refSum {
			logger.Fatal("read-back mismatch",
				zap.Int("trial", trial),
				zap.Int64("list_sum", listSum),
				zap.Int64("reference_sum", refSum),
			)
		}

		logger.Info("trial complete",
			zap.Int("trial", trial),
			zap.Duration("list_add", listAdd),
			zap.Duration("reference_add", refAdd),
			zap.Float64("ratio", float64(listAdd)/float64(refAdd)),
		)
	}
}

func makeAllocator(name string, n int64) (alloc.Allocator, error) {
	switch name {
	case "heap":
		return alloc.NewHeap(), nil
	case "offheap":
		return alloc.NewOffHeap(), nil
	case "limited":
		// Budget for the peak: the grown block plus the block it is
		// copied from.
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 4 * n * 8})
		return alloc.NewLimited(alloc.NewHeap(), rc), nil
	default:
		return nil, fmt.Errorf("unknown allocator %q", name)
	}
}

func runList(a alloc.Allocator, n, removes int64) (time.Duration, int64, error) {
	l, err := biglist.New[int64](a)
	if err != nil {
		return 0, 0, err
	}
	defer l.Dispose()

	start := time.Now()
	for i := int64(0); i < n; i++ {
		if err := l.Add(i); err != nil {
			return 0, 0, err
		}
	}
	elapsed := time.Since(start)

	for i := int64(0); i < removes && l.Len() > 0; i++ {
		l.RemoveAt(l.Len() / 2)
	}

	var sum int64
	for i := int64(0); i < l.Len(); i++ {
		sum += l.Get(i)
	}
	return elapsed, sum, nil
}

func runReference(n, removes int64) (time.Duration, int64) {
	var s []int64

	start := time.Now()
	for i := int64(0); i < n; i++ {
		s = append(s, i)
	}
	elapsed := time.Since(start)

	for i := int64(0); i < removes && len(s) > 0; i++ {
		mid := len(s) / 2
		s = append(s[:mid], s[mid+1:]...)
	}

	var sum int64
	for _, v := range s {
		sum += v
	}
	return elapsed, sum
}
