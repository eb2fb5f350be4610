// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringq provides bounded, fixed-capacity FIFO queues for many
// producer and many consumer goroutines under interchangeable
// concurrency strategies.
//
// Every back-end implements the same [Queue] interface:
//
//   - Exclusive: one mutex around a dynamic container (baseline)
//   - Segregated: one mutex around a fixed circular buffer
//   - ReaderWriter: exclusive producers, shared consumers arbitrated by CAS
//   - Tagged: lock-free, per-slot empty/full tags claimed by CAS
//   - Sequenced: lock-free, counter reservation plus per-slot publication
//
// # Quick Start
//
// Direct constructors:
//
//	q := ringq.NewSequenced[Event](1024)
//	q := ringq.NewExclusive[*Request](4096)
//
// Builder API selects the back-end at run time:
//
//	q := ringq.Build[Event](ringq.New(1024))                                   // → Sequenced
//	q := ringq.Build[Event](ringq.New(1024).Strategy(ringq.StrategyTagged))    // → Tagged
//
// # Basic Usage
//
//	q := ringq.NewSequenced[int](1024)
//
//	// Enqueue (non-blocking)
//	value := 42
//	err := q.Enqueue(&value)
//	if ringq.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if ringq.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// Boolean forms are available for retry loops that only need full/empty:
//
//	for !ringq.TryPut(q, v) {
//	    runtime.Gosched()
//	}
//	v, ok := ringq.TryGet(q)
//
// # Retry Policy
//
// Queues never wait. Full and empty are reported immediately as
// [ErrWouldBlock] and the caller decides what to do:
//
//	backoff := iox.Backoff{}
//	for q.Enqueue(&item) != nil {
//	    backoff.Wait()
//	}
//	backoff.Reset()
//
// A caller imposing a deadline tracks elapsed time or a spin count itself.
//
// # Capacity
//
// Capacity is used exactly as given and never changes. Power-of-2
// capacities index with a mask, other capacities with a modulo.
// Capacity 0 is a degenerate queue on which every operation would block.
// Negative capacity panics at construction; [Builder.Validate] reports it
// as [ErrInvalidCapacity] instead.
//
// # Ordering
//
// Exclusive and Segregated preserve exact total FIFO order.
// ReaderWriter and Sequenced deliver every value exactly once and keep
// each producer's values in that producer's order; values from different
// producers interleave in reservation order, not call order.
// Tagged delivers every value exactly once; its scan hints are advisory,
// so only non-overlapping calls are guaranteed FIFO.
//
// # Race Detection
//
// Go's race detector cannot observe happens-before edges established by
// atomix acquire/release orderings on a separate variable. Concurrent tests
// of the lock-free back-ends are skipped under -race via [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomics with explicit memory ordering,
// [code.hybscloud.com/spin] for CPU pause in CAS retry loops,
// [github.com/eapache/queue] as the Exclusive container, and
// [golang.org/x/sys/cpu] for cache line padding.
package ringq
