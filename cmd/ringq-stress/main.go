// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ringq-stress runs the exactly-once stress scenario against one
// or every queue strategy and reports the result.
//
// Usage:
//
//	ringq-stress -strategy all -producers 4 -consumers 4 -items 5000
//	ringq-stress -strategy tagged -capacity 2000 -json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.hybscloud.com/ringq"
	"code.hybscloud.com/ringq/internal/stress"
	"github.com/sugawarayuuta/sonnet"
)

type options struct {
	strategies []ringq.Strategy
	capacity   int
	cfg        stress.Config
	json       bool
}

func parseFlags(args []string) (options, error) {
	def := stress.DefaultConfig()
	fs := flag.NewFlagSet("ringq-stress", flag.ContinueOnError)
	strategy := fs.String("strategy", "all", "queue strategy (exclusive|segregated|readerwriter|tagged|sequenced|all)")
	capacity := fs.Int("capacity", ringq.DefaultCapacity, "queue capacity")
	producers := fs.Int("producers", def.Producers, "producer goroutines")
	consumers := fs.Int("consumers", def.Consumers, "consumer goroutines")
	items := fs.Int("items", def.ItemsPerProducer, "values per producer")
	spinLimit := fs.Int("spin-limit", def.SpinLimit, "yields one operation may spend blocked (0 = unlimited)")
	timeout := fs.Duration("timeout", def.Deadline, "watchdog deadline per strategy (0 = none)")
	jitter := fs.Bool("jitter", false, "insert random yields to vary interleavings")
	asJSON := fs.Bool("json", false, "emit one JSON report per line")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{
		capacity: *capacity,
		json:     *asJSON,
		cfg: stress.Config{
			Producers:        *producers,
			Consumers:        *consumers,
			ItemsPerProducer: *items,
			SpinLimit:        *spinLimit,
			Deadline:         *timeout,
			Jitter:           *jitter,
		},
	}
	if *strategy == "all" {
		opts.strategies = ringq.Strategies()
	} else {
		s, err := ringq.ParseStrategy(*strategy)
		if err != nil {
			return options{}, err
		}
		opts.strategies = []ringq.Strategy{s}
	}
	if err := ringq.New(opts.capacity).Validate(); err != nil {
		return options{}, err
	}
	return opts, nil
}

// runAll runs every selected strategy and writes one report each.
// It returns the number of failed strategies.
func runAll(ctx context.Context, opts options, out io.Writer, logger *log.Logger) int {
	failed := 0
	for _, s := range opts.strategies {
		if ctx.Err() != nil {
			logger.Printf("interrupted before %s", s)
			failed++
			continue
		}
		q := ringq.Build[int](ringq.New(opts.capacity).Strategy(s))
		rep, err := stress.Run(ctx, q, opts.cfg)
		rep.Strategy = s.String()
		if err != nil {
			failed++
		}

		if opts.json {
			b, merr := sonnet.Marshal(rep)
			if merr != nil {
				logger.Printf("%s: encode report: %v", s, merr)
				failed++
				continue
			}
			fmt.Fprintf(out, "%s\n", b)
			continue
		}
		status := "ok"
		if err != nil {
			status = "FAIL: " + err.Error()
		}
		logger.Printf("%-12s cap=%d consumed=%d/%d dup=%d missing=%d order=%d elapsed=%v %s",
			rep.Strategy, rep.Capacity, rep.Consumed, rep.Expected,
			rep.Duplicates, rep.Missing, rep.OrderViolations,
			rep.Elapsed.Round(time.Microsecond), status)
	}
	return failed
}

func main() {
	logger := log.New(os.Stderr, "ringq-stress: ", log.LstdFlags)

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Printf("%v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if failed := runAll(ctx, opts, os.Stdout, logger); failed > 0 {
		logger.Printf("%d of %d strategies failed", failed, len(opts.strategies))
		stop()
		os.Exit(1)
	}
}
