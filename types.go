// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

// Queue is the combined producer-consumer interface for a bounded FIFO queue.
//
// Every back-end in this package implements Queue with the same contract,
// so back-ends are interchangeable and share one test suite:
//
//   - Enqueue never blocks; it returns ErrWouldBlock when the queue is full.
//   - Dequeue never blocks; it returns ErrWouldBlock when the queue is empty.
//   - Cap is fixed at construction.
//
// Length is not provided. The lock-free back-ends cannot report one without
// cross-core synchronization, and a racy length invites check-then-act bugs.
//
// Example:
//
//	q := ringq.NewSequenced[int](1024)
//
//	val := 42
//	if err := q.Enqueue(&val); err != nil {
//	    // Full: the caller decides whether to retry or drop
//	}
//
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs. The
// queue stores a copy of the pointed-to value, so the original can be
// modified after Enqueue returns.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// Returns nil on success, ErrWouldBlock if the queue is full.
	// Safe for any number of concurrent producers.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
type Consumer[T any] interface {
	// Dequeue removes and returns the oldest available element (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	// Safe for any number of concurrent consumers.
	Dequeue() (T, error)
}

// TryPut enqueues v and reports whether it was accepted.
//
// TryPut is the boolean form of [Producer.Enqueue] for callers whose retry
// loop only needs to know full or not full.
func TryPut[T any](p Producer[T], v T) bool {
	return p.Enqueue(&v) == nil
}

// TryGet dequeues one element. The boolean is false when the queue was
// observed empty.
func TryGet[T any](c Consumer[T]) (T, bool) {
	v, err := c.Dequeue()
	return v, err == nil
}
