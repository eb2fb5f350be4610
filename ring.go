// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// pad is cache line padding to prevent false sharing between cursors.
type pad = cpu.CacheLinePad

// cacheLine is the padding size for the target architecture.
const cacheLine = unsafe.Sizeof(cpu.CacheLinePad{})

// padShort fills the cache line after an 8-byte slot header.
type padShort [cacheLine - 8]byte

// ring is the fixed-size slot array shared by the array-backed queues.
//
// Positions are monotonic counters; ring reduces them to an index only
// at the point of use. Power-of-2 sizes index with a mask, other sizes
// with a modulo, so the capacity a caller asks for is the capacity it gets.
type ring[S any] struct {
	slots []S
	n     uint64
	mask  uint64
	pow2  bool
}

func newRing[S any](capacity int) ring[S] {
	if capacity < 0 {
		panic("ringq: capacity must be >= 0")
	}
	n := uint64(capacity)
	return ring[S]{
		slots: make([]S, n),
		n:     n,
		mask:  n - 1,
		pow2:  n != 0 && n&(n-1) == 0,
	}
}

// index maps a monotonic position onto a slot index.
// Callers must not call index on an empty ring.
func (r *ring[S]) index(pos uint64) uint64 {
	if r.pow2 {
		return pos & r.mask
	}
	return pos % r.n
}

// at returns the slot for a monotonic position.
func (r *ring[S]) at(pos uint64) *S {
	return &r.slots[r.index(pos)]
}

// size returns the fixed slot count.
func (r *ring[S]) size() uint64 {
	return r.n
}
