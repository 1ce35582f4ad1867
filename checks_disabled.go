//go:build !biglist_checks

package biglist

func assertBounds(op string, index, length int64) {}

func assertCreated(created bool, op string) {}
