// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stress drives producers and consumers against a queue and
// verifies exactly-once delivery.
//
// Producer id enqueues the values id*ItemsPerProducer through
// (id+1)*ItemsPerProducer-1. Consumers drain until every value has been
// counted. Each blocked attempt yields with runtime.Gosched; an operation
// that stays blocked longer than SpinLimit yields fails the run instead of
// hanging it, and a watchdog deadline bounds the whole run.
package stress

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/ringq"
	"github.com/valyala/fastrand"
)

var (
	// ErrConfig reports an unusable Config.
	ErrConfig = errors.New("stress: invalid config")
	// ErrSpinLimit reports an operation that stayed blocked past SpinLimit.
	ErrSpinLimit = errors.New("stress: spin limit exceeded")
	// ErrDeadline reports a run cancelled by its context or Deadline.
	ErrDeadline = errors.New("stress: deadline exceeded")
	// ErrDuplicate reports a value delivered more than once.
	ErrDuplicate = errors.New("stress: duplicate value")
	// ErrMissing reports a value that was never delivered.
	ErrMissing = errors.New("stress: missing value")
	// ErrOutOfRange reports a value no producer enqueued.
	ErrOutOfRange = errors.New("stress: value out of range")
)

// Config describes one run.
type Config struct {
	Producers        int
	Consumers        int
	ItemsPerProducer int

	// SpinLimit bounds the yields one operation may spend blocked.
	// Zero disables the limit.
	SpinLimit int

	// Deadline bounds the whole run. Zero leaves only ctx in charge.
	Deadline time.Duration

	// Jitter inserts random yields before operations to vary interleavings.
	Jitter bool
}

// DefaultConfig returns 4 producers × 5000 values and 4 consumers with a
// 1,000,000 yield spin limit and a 10 second watchdog.
func DefaultConfig() Config {
	return Config{
		Producers:        4,
		Consumers:        4,
		ItemsPerProducer: 5000,
		SpinLimit:        1_000_000,
		Deadline:         10 * time.Second,
	}
}

func (c Config) validate() error {
	switch {
	case c.Producers <= 0:
		return fmt.Errorf("%w: producers=%d", ErrConfig, c.Producers)
	case c.Consumers <= 0:
		return fmt.Errorf("%w: consumers=%d", ErrConfig, c.Consumers)
	case c.ItemsPerProducer < 0:
		return fmt.Errorf("%w: items=%d", ErrConfig, c.ItemsPerProducer)
	case c.SpinLimit < 0:
		return fmt.Errorf("%w: spin limit=%d", ErrConfig, c.SpinLimit)
	}
	return nil
}

// Report summarizes one run.
type Report struct {
	Strategy  string `json:"strategy,omitempty"`
	Capacity  int    `json:"capacity"`
	Producers int    `json:"producers"`
	Consumers int    `json:"consumers"`
	Expected  int    `json:"expected"`
	Produced  int64  `json:"produced"`
	Consumed  int64  `json:"consumed"`

	Duplicates int `json:"duplicates"`
	Missing    int `json:"missing"`
	OutOfRange int `json:"out_of_range"`

	// OrderViolations counts values a consumer received before an
	// earlier value of the same producer it had already received.
	OrderViolations int64 `json:"order_violations"`

	Elapsed time.Duration `json:"elapsed_ns"`
	Error   string        `json:"error,omitempty"`
}

// Run executes cfg against q and verifies the result.
//
// The returned Report is filled in even when err is non-nil. Order
// violations are reported but are not an error: only some strategies
// promise per-producer order.
func Run(ctx context.Context, q ringq.Queue[int], cfg Config) (Report, error) {
	if err := cfg.validate(); err != nil {
		return Report{}, err
	}
	if cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	total := cfg.Producers * cfg.ItemsPerProducer
	r := &run{
		cfg:    cfg,
		q:      q,
		ctx:    ctx,
		cancel: cancel,
		total:  total,
		seen:   make([]atomix.Int32, total),
		start:  make(chan struct{}),
	}

	began := time.Now()
	var wg sync.WaitGroup
	for id := range cfg.Producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.produce(id)
		}()
	}
	for id := range cfg.Consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.consume(id)
		}()
	}
	close(r.start)
	wg.Wait()

	rep := Report{
		Capacity:        q.Cap(),
		Producers:       cfg.Producers,
		Consumers:       cfg.Consumers,
		Expected:        total,
		Produced:        r.produced.Load(),
		Consumed:        r.consumed.Load(),
		OutOfRange:      int(r.outOfRange.Load()),
		OrderViolations: r.orderViolations.Load(),
		Elapsed:         time.Since(began),
	}
	for i := range r.seen {
		switch n := r.seen[i].Load(); {
		case n == 0:
			rep.Missing++
		case n > 1:
			rep.Duplicates++
		}
	}

	err := r.firstErr()
	if err == nil {
		switch {
		case rep.Duplicates > 0:
			err = fmt.Errorf("%w: %d values", ErrDuplicate, rep.Duplicates)
		case rep.OutOfRange > 0:
			err = fmt.Errorf("%w: %d values", ErrOutOfRange, rep.OutOfRange)
		case rep.Missing > 0:
			err = fmt.Errorf("%w: %d values", ErrMissing, rep.Missing)
		}
	}
	if err != nil {
		rep.Error = err.Error()
	}
	return rep, err
}

type run struct {
	cfg    Config
	q      ringq.Queue[int]
	ctx    context.Context
	cancel context.CancelFunc
	total  int
	seen   []atomix.Int32
	start  chan struct{}

	produced        atomix.Int64
	consumed        atomix.Int64
	outOfRange      atomix.Int64
	orderViolations atomix.Int64

	errOnce sync.Once
	errMu   sync.Mutex
	err     error
}

// fail records the first error and stops every worker.
func (r *run) fail(err error) {
	r.errOnce.Do(func() {
		r.errMu.Lock()
		r.err = err
		r.errMu.Unlock()
		r.cancel()
	})
}

func (r *run) firstErr() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

// wait yields once for a blocked operation. It returns false when the
// worker must stop.
func (r *run) wait(spins *int, who string, id int) bool {
	if err := r.ctx.Err(); err != nil {
		r.fail(fmt.Errorf("%w: %s %d: %v", ErrDeadline, who, id, err))
		return false
	}
	*spins++
	if r.cfg.SpinLimit > 0 && *spins > r.cfg.SpinLimit {
		r.fail(fmt.Errorf("%w: %s %d after %d yields", ErrSpinLimit, who, id, *spins-1))
		return false
	}
	runtime.Gosched()
	return true
}

func (r *run) jitter() {
	if r.cfg.Jitter && fastrand.Uint32n(8) == 0 {
		runtime.Gosched()
	}
}

func (r *run) produce(id int) {
	<-r.start
	base := id * r.cfg.ItemsPerProducer
	for i := range r.cfg.ItemsPerProducer {
		v := base + i
		r.jitter()
		spins := 0
		for r.q.Enqueue(&v) != nil {
			if !r.wait(&spins, "producer", id) {
				return
			}
		}
		r.produced.Add(1)
	}
}

func (r *run) consume(id int) {
	<-r.start
	items := r.cfg.ItemsPerProducer
	last := make([]int, r.cfg.Producers)
	for i := range last {
		last[i] = -1
	}
	spins := 0
	for r.consumed.Load() < int64(r.total) {
		r.jitter()
		v, err := r.q.Dequeue()
		if err != nil {
			if !r.wait(&spins, "consumer", id) {
				return
			}
			continue
		}
		spins = 0
		r.consumed.Add(1)
		if v < 0 || v >= r.total {
			r.outOfRange.Add(1)
			continue
		}
		r.seen[v].Add(1)
		p, seq := v/items, v%items
		if seq < last[p] {
			r.orderViolations.Add(1)
		} else {
			last[p] = seq
		}
	}
}
