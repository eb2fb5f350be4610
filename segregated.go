// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "sync"

// Segregated is a mutex-protected circular buffer queue.
//
// Like Exclusive, every operation is a single critical section. Storage is
// a fixed array with separate read and write cursors and an explicit fill
// count, giving O(1) capacity enforcement with no reallocation after
// construction.
//
// Memory: n slots of T
type Segregated[T any] struct {
	mu     sync.Mutex
	buffer ring[T]
	read   uint64 // next position to dequeue
	write  uint64 // next position to enqueue
	count  uint64
}

// NewSegregated creates a new circular buffer queue.
// Capacity 0 yields a queue on which every operation would block.
func NewSegregated[T any](capacity int) *Segregated[T] {
	return &Segregated[T]{buffer: newRing[T](capacity)}
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock if the queue is full.
func (q *Segregated[T]) Enqueue(elem *T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count >= q.buffer.size() {
		return ErrWouldBlock
	}
	*q.buffer.at(q.write) = *elem
	q.write++
	q.count++
	return nil
}

// Dequeue removes and returns the oldest element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Segregated[T]) Dequeue() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.count == 0 {
		return zero, ErrWouldBlock
	}
	slot := q.buffer.at(q.read)
	elem := *slot
	*slot = zero
	q.read++
	q.count--
	return elem, nil
}

// Cap returns the queue capacity.
func (q *Segregated[T]) Cap() int {
	return int(q.buffer.size())
}
