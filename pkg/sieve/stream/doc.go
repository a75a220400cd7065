// Package stream provides the point-to-point conduit used between sieve
// stages: a generic single-producer/single-consumer channel wrapper with
// half-close semantics.
//
// Key properties:
// - Send/Recv: FIFO delivery, blocking on full buffer / empty stream
// - CloseWrite: explicit end-of-stream, distinguishable from any value
// - CloseRead: consumer-side release that fails pending Sends fast
// - Len/Cap: buffer introspection
//
// Each half has exactly one owning goroutine; the package relies on that
// discipline instead of locks.
package stream
