// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stress_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/ringq"
	"code.hybscloud.com/ringq/internal/stress"
)

// =============================================================================
// Fakes
// =============================================================================

// blockedQueue reports would-block on every call.
type blockedQueue struct{}

func (blockedQueue) Enqueue(*int) error     { return ringq.ErrWouldBlock }
func (blockedQueue) Dequeue() (int, error) { return 0, ringq.ErrWouldBlock }
func (blockedQueue) Cap() int              { return 0 }

// faultyQueue is an unbounded FIFO that can be told to misdeliver.
type faultyQueue struct {
	mu    sync.Mutex
	items []int
	// repeat delivers every value twice.
	repeat bool
	// inject delivers bogus values first.
	inject []int
	last   *int
}

func (q *faultyQueue) Enqueue(elem *int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, *elem)
	return nil
}

func (q *faultyQueue) Dequeue() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.inject) > 0 {
		v := q.inject[0]
		q.inject = q.inject[1:]
		return v, nil
	}
	if q.repeat && q.last != nil {
		v := *q.last
		q.last = nil
		return v, nil
	}
	if len(q.items) == 0 {
		return 0, ringq.ErrWouldBlock
	}
	v := q.items[0]
	q.items = q.items[1:]
	if q.repeat {
		q.last = &v
	}
	return v, nil
}

func (q *faultyQueue) Cap() int { return -1 }

func smallConfig() stress.Config {
	return stress.Config{
		Producers:        2,
		Consumers:        2,
		ItemsPerProducer: 500,
		SpinLimit:        1_000_000,
		Deadline:         10 * time.Second,
	}
}

// =============================================================================
// Real Queues
// =============================================================================

func TestRunStrategies(t *testing.T) {
	for _, s := range ringq.Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			if ringq.RaceEnabled && s != ringq.StrategyExclusive && s != ringq.StrategySegregated {
				t.Skip("skip: atomic turn synchronization is invisible to the race detector")
			}
			q := ringq.Build[int](ringq.New(64).Strategy(s))
			cfg := smallConfig()
			cfg.Jitter = true
			rep, err := stress.Run(context.Background(), q, cfg)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if rep.Expected != 1000 || rep.Consumed != 1000 || rep.Produced != 1000 {
				t.Fatalf("counts: expected=%d produced=%d consumed=%d", rep.Expected, rep.Produced, rep.Consumed)
			}
			if rep.Duplicates != 0 || rep.Missing != 0 || rep.OutOfRange != 0 {
				t.Fatalf("report: %+v", rep)
			}
			if rep.Capacity != 64 || rep.Error != "" {
				t.Fatalf("report: %+v", rep)
			}
		})
	}
}

func TestRunSingleProducerKeepsOrder(t *testing.T) {
	cfg := smallConfig()
	cfg.Producers, cfg.Consumers = 1, 1
	rep, err := stress.Run(context.Background(), ringq.NewSegregated[int](8), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.OrderViolations != 0 {
		t.Fatalf("OrderViolations: got %d, want 0", rep.OrderViolations)
	}
}

func TestRunZeroItems(t *testing.T) {
	cfg := smallConfig()
	cfg.ItemsPerProducer = 0
	rep, err := stress.Run(context.Background(), ringq.NewSequenced[int](4), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Expected != 0 || rep.Consumed != 0 {
		t.Fatalf("report: %+v", rep)
	}
}

// =============================================================================
// Failure Detection
// =============================================================================

func TestRunInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		edit func(*stress.Config)
	}{
		{"NoProducers", func(c *stress.Config) { c.Producers = 0 }},
		{"NoConsumers", func(c *stress.Config) { c.Consumers = -1 }},
		{"NegativeItems", func(c *stress.Config) { c.ItemsPerProducer = -1 }},
		{"NegativeSpinLimit", func(c *stress.Config) { c.SpinLimit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := stress.DefaultConfig()
			tt.edit(&cfg)
			if _, err := stress.Run(context.Background(), blockedQueue{}, cfg); !errors.Is(err, stress.ErrConfig) {
				t.Fatalf("Run: got %v, want ErrConfig", err)
			}
		})
	}
}

func TestRunSpinLimit(t *testing.T) {
	cfg := smallConfig()
	cfg.SpinLimit = 100
	rep, err := stress.Run(context.Background(), blockedQueue{}, cfg)
	if !errors.Is(err, stress.ErrSpinLimit) {
		t.Fatalf("Run: got %v, want ErrSpinLimit", err)
	}
	if rep.Error == "" {
		t.Fatalf("Report.Error: want non-empty")
	}
	if rep.Missing != rep.Expected {
		t.Fatalf("Missing: got %d, want %d", rep.Missing, rep.Expected)
	}
}

func TestRunDeadline(t *testing.T) {
	cfg := smallConfig()
	cfg.SpinLimit = 0
	cfg.Deadline = 20 * time.Millisecond
	start := time.Now()
	if _, err := stress.Run(context.Background(), blockedQueue{}, cfg); !errors.Is(err, stress.ErrDeadline) {
		t.Fatalf("Run: got %v, want ErrDeadline", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Run took %v after a 20ms deadline", elapsed)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := smallConfig()
	cfg.SpinLimit = 0
	cfg.Deadline = 0
	if _, err := stress.Run(ctx, blockedQueue{}, cfg); !errors.Is(err, stress.ErrDeadline) {
		t.Fatalf("Run: got %v, want ErrDeadline", err)
	}
}

func TestRunDetectsDuplicates(t *testing.T) {
	cfg := smallConfig()
	cfg.Producers, cfg.Consumers = 1, 1
	rep, err := stress.Run(context.Background(), &faultyQueue{repeat: true}, cfg)
	if !errors.Is(err, stress.ErrDuplicate) {
		t.Fatalf("Run: got %v, want ErrDuplicate", err)
	}
	if rep.Duplicates == 0 || rep.Missing == 0 {
		t.Fatalf("report: duplicates=%d missing=%d", rep.Duplicates, rep.Missing)
	}
}

func TestRunDetectsOutOfRange(t *testing.T) {
	cfg := smallConfig()
	cfg.Producers, cfg.Consumers = 1, 1
	rep, err := stress.Run(context.Background(), &faultyQueue{inject: []int{-1, 1 << 20}}, cfg)
	if !errors.Is(err, stress.ErrOutOfRange) {
		t.Fatalf("Run: got %v, want ErrOutOfRange", err)
	}
	if rep.OutOfRange != 2 {
		t.Fatalf("OutOfRange: got %d, want 2", rep.OutOfRange)
	}
}
