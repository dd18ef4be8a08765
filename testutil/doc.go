// Package testutil provides testing utilities for colsort.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic column generators and a reference argsort to
// check engine output against.
//
// # Random Columns
//
//	rng := testutil.NewRNG(0)
//	a := testutil.Uniform[float32](rng, 257, 100) // 100*rand cast to float32
//	b := rng.ZipfInts(1000, 10, 1.5)             // tie-heavy column
//
// # Reference Ordering
//
//	want := testutil.StableArgsort(a, false)
package testutil
