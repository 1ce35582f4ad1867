// Package testutil provides shared helpers for tests and benchmarks.
package testutil
