// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// ReaderWriter is a bounded queue with serialized producers and
// concurrent consumers.
//
// Producers take the exclusive side of a reader/writer lock, so one
// Enqueue runs at a time and the write cursor needs no atomics. Consumers
// take the shared side and run concurrently with each other, never with a
// producer. Exactly-once consumption among concurrent consumers is
// arbitrated by a CAS on the read cursor, not by the lock: each
// successful CAS owns exactly one slot.
//
// Slots are not cleared on Dequeue because other consumers may still be
// copying the same slot before their CAS fails. A slot's previous value
// stays reachable until a producer overwrites it.
//
// Memory: n slots of T
type ReaderWriter[T any] struct {
	mu     sync.RWMutex
	_      pad
	read   atomix.Uint64 // Consumer cursor (CAS)
	_      pad
	write  uint64 // Producer cursor, mutated under mu.Lock only
	buffer ring[T]
}

// NewReaderWriter creates a new reader/writer queue.
// Capacity 0 yields a queue on which every operation would block.
func NewReaderWriter[T any](capacity int) *ReaderWriter[T] {
	return &ReaderWriter[T]{buffer: newRing[T](capacity)}
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock if the queue is full.
func (q *ReaderWriter[T]) Enqueue(elem *T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	// No consumer holds the shared lock here, so read is stable.
	if q.write-q.read.LoadRelaxed() >= q.buffer.size() {
		return ErrWouldBlock
	}
	*q.buffer.at(q.write) = *elem
	q.write++
	return nil
}

// Dequeue removes and returns the oldest element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *ReaderWriter[T]) Dequeue() (T, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	// write is stable while the shared lock is held.
	write := q.write
	for {
		read := q.read.LoadAcquire()
		if read >= write {
			var zero T
			return zero, ErrWouldBlock
		}
		elem := *q.buffer.at(read)
		if q.read.CompareAndSwapAcqRel(read, read+1) {
			return elem, nil
		}
	}
}

// Cap returns the queue capacity.
func (q *ReaderWriter[T]) Cap() int {
	return int(q.buffer.size())
}
