// Package stream provides the sequential-access containers the edge-switching
// engine is built on: EdgeStream (the graph's edge sequence), BoolStream (a
// bit sequence with the same cycle protocol), and Async (a prefetching
// wrapper that overlaps producer reads with consumer work).
//
// # Cycle protocol
//
// EdgeStream and BoolStream share a two-phase protocol. Push appends to a
// pending buffer that readers never see; Consume promotes the pending buffer
// to the current content and rewinds the read cursor; Empty/Peek/Next stream
// the current content; Rewind restarts reading without touching pending data.
// Pushing while reading is legal and is how a consumer rewrites the sequence
// for the next cycle in a single pass.
//
// # Reader interface
//
// Every reader in this module satisfies
//
//	type Reader[T any] interface {
//	    Empty() bool
//	    Peek() T
//	    Next()
//	}
//
// Peek on an empty reader is undefined; callers check Empty first.
//
// # Async
//
// Async[T] wraps any Reader[T] with one producer goroutine filling a ring of
// N > 2 fixed-capacity buffers under a mutex and condition variable. The
// producer blocks while no buffer is free, the consumer blocks while the
// current buffer is unfilled, and Close releases the producer early. Apart
// from buffering, the wrapper is transparent.
package stream
