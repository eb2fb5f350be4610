// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Slot states for Tagged. A slot cycles
// empty → writing → full → reading → empty.
const (
	tagEmpty uint64 = iota
	tagWriting
	tagFull
	tagReading
)

// Tagged is a lock-free bounded queue with per-slot state tags.
//
// Each slot carries a tag distinguishing empty from occupied. Producers
// scan forward from an advisory write hint and claim the first empty slot
// with a CAS on its tag; consumers mirror this from a read hint over full
// slots. The transient writing and reading states give the claimant
// exclusive access to the value between the claiming CAS and the
// publishing release store.
//
// Calls that do not overlap are exact FIFO. Under concurrency every value
// is delivered exactly once and the capacity bound holds, but the hints
// are advisory: an overlapping scan may observe slots out of order. A
// single call costs O(capacity) in the worst case.
//
// Memory: n slots (cache-line padded tag + T)
type Tagged[T any] struct {
	_         pad
	writeHint atomix.Uint64 // Advisory producer start position
	_         pad
	readHint  atomix.Uint64 // Advisory consumer start position
	_         pad
	buffer    ring[taggedSlot[T]]
}

type taggedSlot[T any] struct {
	tag  atomix.Uint64
	data T
	_    padShort
}

// NewTagged creates a new tagged-slot queue.
// Capacity 0 yields a queue on which every operation would block.
func NewTagged[T any](capacity int) *Tagged[T] {
	return &Tagged[T]{buffer: newRing[taggedSlot[T]](capacity)}
}

// Enqueue adds an element to the first empty slot at or after the hint.
// Returns ErrWouldBlock if no empty slot was claimed in one full scan.
func (q *Tagged[T]) Enqueue(elem *T) error {
	n := q.buffer.size()
	start := q.writeHint.LoadRelaxed()
	sw := spin.Wait{}
	for i := range n {
		pos := start + i
		slot := q.buffer.at(pos)
		if slot.tag.LoadRelaxed() != tagEmpty {
			continue
		}
		if !slot.tag.CompareAndSwapAcqRel(tagEmpty, tagWriting) {
			sw.Once()
			continue
		}
		slot.data = *elem
		slot.tag.StoreRelease(tagFull)
		q.writeHint.StoreRelaxed(pos + 1)
		return nil
	}
	return ErrWouldBlock
}

// Dequeue removes and returns the first full slot at or after the hint.
// Returns (zero-value, ErrWouldBlock) if no full slot was claimed in one
// full scan.
func (q *Tagged[T]) Dequeue() (T, error) {
	n := q.buffer.size()
	start := q.readHint.LoadRelaxed()
	sw := spin.Wait{}
	for i := range n {
		pos := start + i
		slot := q.buffer.at(pos)
		if slot.tag.LoadRelaxed() != tagFull {
			continue
		}
		if !slot.tag.CompareAndSwapAcqRel(tagFull, tagReading) {
			sw.Once()
			continue
		}
		elem := slot.data
		var zero T
		slot.data = zero
		slot.tag.StoreRelease(tagEmpty)
		q.readHint.StoreRelaxed(pos + 1)
		return elem, nil
	}
	var zero T
	return zero, ErrWouldBlock
}

// Cap returns the queue capacity.
func (q *Tagged[T]) Cap() int {
	return int(q.buffer.size())
}
