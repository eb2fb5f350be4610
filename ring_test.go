// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "testing"

func TestRingIndex(t *testing.T) {
	tests := []struct {
		capacity int
		pow2     bool
	}{
		{1, true},
		{2, true},
		{3, false},
		{8, true},
		{2000, false},
		{4096, true},
	}
	for _, tt := range tests {
		r := newRing[int](tt.capacity)
		if r.pow2 != tt.pow2 {
			t.Fatalf("cap=%d: pow2 got %v, want %v", tt.capacity, r.pow2, tt.pow2)
		}
		if r.size() != uint64(tt.capacity) || len(r.slots) != tt.capacity {
			t.Fatalf("cap=%d: size got %d (len %d)", tt.capacity, r.size(), len(r.slots))
		}
		for _, pos := range []uint64{0, 1, 7, 1999, 2000, 4097, 1<<63 + 5} {
			if got, want := r.index(pos), pos%uint64(tt.capacity); got != want {
				t.Fatalf("cap=%d: index(%d) got %d, want %d", tt.capacity, pos, got, want)
			}
		}
	}
}

func TestRingZero(t *testing.T) {
	r := newRing[int](0)
	if r.size() != 0 || r.pow2 {
		t.Fatalf("zero ring: size=%d pow2=%v", r.size(), r.pow2)
	}
}

func TestRingNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for negative capacity")
		}
	}()
	newRing[int](-1)
}

// TestSlotCleared verifies lock-free and circular buffer slots drop their
// reference once the value has been moved out.
func TestSlotCleared(t *testing.T) {
	v := new(int)

	seg := NewSegregated[*int](2)
	seg.Enqueue(&v)
	seg.Dequeue()
	if seg.buffer.slots[0] != nil {
		t.Fatalf("Segregated: slot still references value")
	}

	tagged := NewTagged[*int](2)
	tagged.Enqueue(&v)
	tagged.Dequeue()
	if tagged.buffer.slots[0].data != nil {
		t.Fatalf("Tagged: slot still references value")
	}
	if tag := tagged.buffer.slots[0].tag.LoadAcquire(); tag != tagEmpty {
		t.Fatalf("Tagged: tag got %d, want empty", tag)
	}

	seq := NewSequenced[*int](2)
	seq.Enqueue(&v)
	seq.Dequeue()
	if seq.buffer.slots[0].data != nil {
		t.Fatalf("Sequenced: slot still references value")
	}
}

// TestSequencedTurns walks one slot through two laps and checks the
// free/published turn encoding.
func TestSequencedTurns(t *testing.T) {
	q := NewSequenced[int](2)
	turn := func(i int) uint64 { return q.buffer.slots[i].turn.LoadAcquire() }

	if turn(0) != 0 || turn(1) != 2 {
		t.Fatalf("initial turns: got %d %d, want 0 2", turn(0), turn(1))
	}
	v := 1
	q.Enqueue(&v)
	if turn(0) != 1 {
		t.Fatalf("published position 0: got %d, want 1", turn(0))
	}
	q.Dequeue()
	if turn(0) != 4 {
		t.Fatalf("released for position 2: got %d, want 4", turn(0))
	}
	q.Enqueue(&v) // position 1
	q.Enqueue(&v) // position 2, slot 0
	if turn(1) != 3 || turn(0) != 5 {
		t.Fatalf("second lap: got %d %d, want 3 5", turn(1), turn(0))
	}
}

// TestTaggedHintWraps verifies the scan starts at the hint and wraps.
func TestTaggedHintWraps(t *testing.T) {
	q := NewTagged[int](3)
	for i := range 3 {
		v := i
		q.Enqueue(&v)
	}
	q.Dequeue()
	v := 3
	if err := q.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue after wrap: %v", err)
	}
	if tag := q.buffer.slots[0].tag.LoadAcquire(); tag != tagFull {
		t.Fatalf("slot 0 tag: got %d, want full", tag)
	}
	if hint := q.writeHint.LoadRelaxed(); q.buffer.index(hint) != 1 {
		t.Fatalf("write hint: got index %d, want 1", q.buffer.index(hint))
	}
}
