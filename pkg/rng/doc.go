// Package rng derives the deterministic pseudo-random streams consumed by
// every stage of the floor generation pipeline.
//
// A single master seed produces a fixed sequence of six sub-seeds, one per
// downstream stage, always drawn in this order: graph, template selection,
// spatial placement, hallway routing, secret passages, clustering. Each
// sub-seed in turn seeds an independent Stream used only by that stage.
// Two calls to NewMasterStream with the same seed draw identical sub-seeds
// and therefore produce identical downstream output.
//
// The master draw uses a 31-bit non-negative linear congruential generator
// compatible with the legacy generator existing test suites were built
// against (see the package-level compatibility note on Lcg). Streams
// handed to pipeline stages layer math/rand convenience methods on top of
// an LCG-derived int64 seed; only the master's Next() sequence is
// compatibility-critical.
package rng
