// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"sync"

	"github.com/eapache/queue"
)

// Exclusive is a mutex-protected bounded queue.
//
// A single lock wraps the whole body of Enqueue and Dequeue, so every
// operation is one critical section and FIFO order is exact and total.
// Storage is a dynamically sized container bounded by capacity; it is the
// baseline the array-backed and lock-free back-ends are measured against.
//
// Memory: grows on demand up to capacity elements
type Exclusive[T any] struct {
	mu       sync.Mutex
	items    *queue.Queue
	capacity int
}

// NewExclusive creates a new mutex-protected queue.
// Capacity 0 yields a queue on which every operation would block.
func NewExclusive[T any](capacity int) *Exclusive[T] {
	if capacity < 0 {
		panic("ringq: capacity must be >= 0")
	}
	return &Exclusive[T]{
		items:    queue.New(),
		capacity: capacity,
	}
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock if the queue is full.
func (q *Exclusive[T]) Enqueue(elem *T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Length() >= q.capacity {
		return ErrWouldBlock
	}
	q.items.Add(*elem)
	return nil
}

// Dequeue removes and returns the front element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Exclusive[T]) Dequeue() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Length() == 0 {
		var zero T
		return zero, ErrWouldBlock
	}
	// Comma-ok keeps a stored nil interface value from panicking.
	elem, _ := q.items.Remove().(T)
	return elem, nil
}

// Cap returns the queue capacity.
func (q *Exclusive[T]) Cap() int {
	return q.capacity
}
