// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Sequenced is a lock-free bounded multi-producer multi-consumer queue.
//
// Reservation and publication are separate steps. A producer reserves a
// position by CAS on the write counter, writes the value into the slot,
// then publishes it with a release store of the slot's turn. A consumer
// observes the turn with an acquire load, reserves by CAS on the read
// counter, moves the value out, then releases the slot for the next lap.
//
// Each slot's turn identifies both the position and the phase:
//
//	2p       free for the producer reserving position p
//	2p + 1   published for the consumer reading position p
//
// Doubling keeps "published for p" distinct from "free for p+capacity"
// at every capacity including 1, so a stale turn from an earlier lap can
// never be mistaken for the current one. Counters are 64-bit and do not
// wrap within any practical lifetime.
//
// Memory: n slots (cache-line padded turn + T)
type Sequenced[T any] struct {
	_        pad
	write    atomix.Uint64 // Producer reservation counter
	_        pad
	read     atomix.Uint64 // Consumer reservation counter
	_        pad
	buffer   ring[seqSlot[T]]
	capacity uint64
}

type seqSlot[T any] struct {
	turn atomix.Uint64
	data T
	_    padShort
}

// NewSequenced creates a new sequenced-slot queue.
// Capacity 0 yields a queue on which every operation would block.
func NewSequenced[T any](capacity int) *Sequenced[T] {
	q := &Sequenced[T]{
		buffer:   newRing[seqSlot[T]](capacity),
		capacity: uint64(capacity),
	}
	for i := range q.capacity {
		q.buffer.at(i).turn.StoreRelaxed(2 * i)
	}
	return q
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock if the queue is full.
func (q *Sequenced[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		// Relaxed is enough for both counters: the CAS below revalidates
		// write, and a stale read only makes the full check stricter.
		// Signed distance: read may be newer than a stale write.
		write := q.write.LoadRelaxed()
		if int64(write-q.read.LoadRelaxed()) >= int64(q.capacity) {
			return ErrWouldBlock
		}

		slot := q.buffer.at(write)
		turn := slot.turn.LoadAcquire()
		diff := int64(turn) - int64(2*write)

		if diff == 0 {
			if q.write.CompareAndSwapRelaxed(write, write+1) {
				slot.data = *elem
				slot.turn.StoreRelease(2*write + 1)
				return nil
			}
		} else if diff < 0 {
			// Previous lap's consumer has not released the slot yet.
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (zero-value, ErrWouldBlock) if no published element is visible.
func (q *Sequenced[T]) Dequeue() (T, error) {
	var zero T
	if q.capacity == 0 {
		return zero, ErrWouldBlock
	}

	sw := spin.Wait{}
	for {
		read := q.read.LoadRelaxed()
		slot := q.buffer.at(read)
		turn := slot.turn.LoadAcquire()
		diff := int64(turn) - int64(2*read+1)

		if diff == 0 {
			if q.read.CompareAndSwapRelaxed(read, read+1) {
				elem := slot.data
				slot.data = zero
				slot.turn.StoreRelease(2 * (read + q.capacity))
				return elem, nil
			}
		} else if diff < 0 {
			// Reserved but not yet published, or nothing reserved.
			return zero, ErrWouldBlock
		}
		sw.Once()
	}
}

// Cap returns the queue capacity.
func (q *Sequenced[T]) Cap() int {
	return int(q.capacity)
}
