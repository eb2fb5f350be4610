// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"fmt"
	"strings"
)

// DefaultCapacity is the capacity used when none is configured.
const DefaultCapacity = 100000

// Strategy names a concurrency discipline. Exactly one governs each queue.
type Strategy uint8

const (
	// StrategySequenced is the lock-free reservation/publication ring (default).
	StrategySequenced Strategy = iota
	// StrategyExclusive serializes every operation behind one mutex.
	StrategyExclusive
	// StrategySegregated is a mutex-protected circular buffer.
	StrategySegregated
	// StrategyReaderWriter serializes producers and lets consumers share.
	StrategyReaderWriter
	// StrategyTagged is the lock-free tagged-slot scanning ring.
	StrategyTagged
)

var strategyNames = [...]string{
	StrategySequenced:    "sequenced",
	StrategyExclusive:    "exclusive",
	StrategySegregated:   "segregated",
	StrategyReaderWriter: "readerwriter",
	StrategyTagged:       "tagged",
}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{StrategySequenced, StrategyExclusive, StrategySegregated, StrategyReaderWriter, StrategyTagged}
}

// String returns the lower-case strategy name.
func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// ParseStrategy returns the strategy with the given name.
// Matching is case-insensitive; "rw" is accepted for ReaderWriter.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "rw" {
		return StrategyReaderWriter, nil
	}
	for s, n := range strategyNames {
		if n == name {
			return Strategy(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Options configures queue creation.
type Options struct {
	strategy Strategy
	capacity int
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// Lock-free default
//	q := ringq.Build[Event](ringq.New(4096))
//
//	// Mutex baseline for comparison
//	q := ringq.Build[Event](ringq.New(4096).Strategy(ringq.StrategyExclusive))
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// Capacity is used exactly as given; no rounding is applied.
// Capacity 0 builds a degenerate queue on which every operation would
// block. Build panics on negative capacity; use Validate to check a
// configured capacity first.
func New(capacity int) *Builder {
	return &Builder{opts: Options{capacity: capacity}}
}

// Strategy selects the concurrency discipline. The default is Sequenced.
func (b *Builder) Strategy(s Strategy) *Builder {
	b.opts.strategy = s
	return b
}

// Validate reports configuration errors Build would panic on.
func (b *Builder) Validate() error {
	if b.opts.capacity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, b.opts.capacity)
	}
	if int(b.opts.strategy) >= len(strategyNames) {
		return fmt.Errorf("%w: %v", ErrUnknownStrategy, b.opts.strategy)
	}
	return nil
}

// Build creates a Queue[T] using the configured strategy.
func Build[T any](b *Builder) Queue[T] {
	if err := b.Validate(); err != nil {
		panic(err.Error())
	}
	switch b.opts.strategy {
	case StrategyExclusive:
		return NewExclusive[T](b.opts.capacity)
	case StrategySegregated:
		return NewSegregated[T](b.opts.capacity)
	case StrategyReaderWriter:
		return NewReaderWriter[T](b.opts.capacity)
	case StrategyTagged:
		return NewTagged[T](b.opts.capacity)
	default:
		return NewSequenced[T](b.opts.capacity)
	}
}
