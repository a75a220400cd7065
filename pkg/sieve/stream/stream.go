package stream

import (
	"errors"
	"sync"
)

var (
	// ErrReadClosed is returned by Send when the consumer has already
	// closed its end of the stream.
	ErrReadClosed = errors.New("stream: read end closed")
	// ErrWriteClosed is returned by Send after CloseWrite.
	ErrWriteClosed = errors.New("stream: write end closed")
)

// Stream is an ordered single-producer/single-consumer conduit with an
// explicit end-of-stream signal and independently closeable halves.
// The write end belongs to exactly one goroutine, which is the only
// caller of Send and CloseWrite; the read end likewise belongs to one
// goroutine, the only caller of Recv and CloseRead. Nothing here is
// safe for multiplexing two producers onto one stream.
type Stream[T any] struct {
	ch       chan T
	done     chan struct{} // closed by CloseRead
	readOnce sync.Once

	// owned by the writer goroutine
	writeClosed bool
}

// New creates a stream with the given buffer capacity. Zero means
// fully synchronous: Send blocks until the consumer receives.
func New[T any](capacity int) *Stream[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Stream[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
	}
}

// Send transmits v to the consumer, blocking while the buffer is full.
// It fails fast with ErrReadClosed if the consumer closed its end:
// a reader going away while the producer still has data is a protocol
// violation, not something to paper over.
func (s *Stream[T]) Send(v T) error {
	if s.writeClosed {
		return ErrWriteClosed
	}
	select {
	case <-s.done:
		return ErrReadClosed
	default:
	}
	select {
	case s.ch <- v:
		return nil
	case <-s.done:
		return ErrReadClosed
	}
}

// Recv returns the next value in producer order. ok is false once the
// producer has called CloseWrite and every buffered value is drained.
func (s *Stream[T]) Recv() (v T, ok bool) {
	v, ok = <-s.ch
	return v, ok
}

// CloseWrite signals end-of-stream to a pending or future Recv.
// Idempotent from the writer's point of view.
func (s *Stream[T]) CloseWrite() {
	if s.writeClosed {
		return
	}
	s.writeClosed = true
	close(s.ch)
}

// CloseRead releases the read end. An in-flight or later Send observes
// ErrReadClosed instead of blocking forever. Idempotent.
func (s *Stream[T]) CloseRead() {
	s.readOnce.Do(func() {
		close(s.done)
	})
}

// ReadClosed reports whether CloseRead has been called.
func (s *Stream[T]) ReadClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// WriteClosed reports whether CloseWrite has been called. Only
// meaningful to the writer goroutine or after it has been joined.
func (s *Stream[T]) WriteClosed() bool {
	return s.writeClosed
}

// Len is the number of values buffered and not yet received.
func (s *Stream[T]) Len() int {
	return len(s.ch)
}

// Cap is the buffer capacity the stream was created with.
func (s *Stream[T]) Cap() int {
	return cap(s.ch)
}
