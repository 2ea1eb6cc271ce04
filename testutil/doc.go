// Package testutil provides testing utilities for picset.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and builders for synthetic photos.
//
// # Synthetic Photos
//
//	rng := testutil.NewRNG(seed)
//	p := testutil.RandomPhoto[uint8](rng, "noise", 64, 64)
//	u := testutil.UniformPhoto[uint8]("gray", 64, 64, 128)
//	c := testutil.CellPhoto("ramp", 192, cells) // one constant value per hash cell
package testutil
