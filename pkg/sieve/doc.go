// Package sieve implements a concurrent Sieve of Eratosthenes: a
// self-replicating chain of goroutine stages, one per discovered prime,
// wired together by single-producer/single-consumer integer streams.
//
// Key constructs:
// - Run: drive one pipeline from a Config, returning a Report
// - Stage: filters multiples of its prime, founds its successor lazily
// - deliver: found a stage on its first survivor, plain ordered send after
// - WithBufferOptions/WithFactoryOptions: context-carried tuning and hooks
//
// Stages are created strictly on demand: the stage for prime p exists
// only once some candidate has survived filtering by every prime below
// p. Termination needs no polling or timeouts: end-of-stream cascades
// down the chain and every creator joins its successor before exiting,
// so Run's single wait covers however long the chain grew.
package sieve
