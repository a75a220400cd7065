package sieve

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ib-77/sieve3/pkg/sieve/stream"
)

const (
	// DefaultFirst is the prime the driver announces unconditionally.
	DefaultFirst = 2
	// DefaultMax is the reference upper bound for candidates.
	DefaultMax = 35
	// DefaultBuffer is the per-stream buffer capacity when the context
	// carries no BufferOptions.
	DefaultBuffer = 8
)

// Config describes one pipeline invocation.
type Config struct {
	// First is the first prime, announced without filtering. Defaults
	// to DefaultFirst when zero.
	First int
	// Max is the inclusive upper bound on candidates. Defaults to
	// DefaultMax when zero.
	Max int
	// Out receives one "prime <N>" line per discovery when OnPrime is
	// nil. Defaults to os.Stdout.
	Out io.Writer
	// OnPrime, when set, replaces line printing. It is called once per
	// prime, in ascending order, from the goroutine of the stage that
	// discovered it.
	OnPrime func(p int)
	// Log receives stage lifecycle events at debug level. Defaults to
	// the logrus standard logger.
	Log logrus.FieldLogger
}

// Report is what a finished run looks like from the outside: the primes
// in announcement order and the number of stages the chain grew to.
type Report struct {
	Primes []int
	Stages int
}

// pipeline carries the pieces every stage of one run shares: the sink,
// the logger and the stream/goroutine constructors.
type pipeline struct {
	buffer    int
	newStream func(capacity int) (*stream.Stream[int], error)
	spawn     func(run func()) error
	sink      func(p int)
	log       logrus.FieldLogger
}

// announce reports a discovered prime. Announcements are causally
// chained: the driver announces before founding the first stage, and a
// stage announces before it can found its successor, so the sink is
// never entered concurrently even though stages run in parallel.
func (pl *pipeline) announce(p int) {
	pl.sink(p)
}

// Run drives one sieve pipeline to completion: announce cfg.First,
// pre-filter its multiples out of (First, Max], feed the rest into the
// lazily-grown stage chain, signal end-of-stream and join the chain.
// When Run returns, every stage goroutine has exited and both halves of
// every stream are closed.
func Run(ctx context.Context, cfg Config) (Report, error) {
	first := cfg.First
	if first == 0 {
		first = DefaultFirst
	}
	max := cfg.Max
	if max == 0 {
		max = DefaultMax
	}
	if first < 2 {
		return Report{}, fmt.Errorf("sieve: first prime %d out of range", first)
	}
	if max < first {
		return Report{}, fmt.Errorf("sieve: max %d below first prime %d", max, first)
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Log
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var primes []int
	sink := func(p int) {
		primes = append(primes, p)
		if cfg.OnPrime != nil {
			cfg.OnPrime(p)
			return
		}
		fmt.Fprintf(out, "prime %d\n", p)
	}

	factories := getFactoryOptions(ctx)
	pl := &pipeline{
		buffer:    GetBufferCapacity(ctx, DefaultBuffer),
		newStream: factories.NewStream,
		spawn:     factories.Spawn,
		sink:      sink,
		log:       logger,
	}

	pl.announce(first)
	logger.WithField("prime", first).Debug("driver announced first prime")

	var entry slot
	var runErr error
	for i := first + 1; i <= max; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if i%first == 0 {
			continue
		}
		if err := pl.deliver(ctx, i, &entry); err != nil {
			runErr = err
			break
		}
	}

	if entry.established() {
		entry.out.CloseWrite()
		runErr = resolveErr(runErr, entry.next.wait())
	}

	rep := Report{Primes: primes, Stages: chainDepth(entry.next)}
	if runErr != nil {
		logger.WithError(runErr).Error("pipeline aborted")
		return rep, runErr
	}
	return rep, nil
}

// chainDepth walks the successor links of a finished chain. Safe only
// after the head stage has been joined.
func chainDepth(st *Stage) int {
	n := 0
	for ; st != nil; st = st.succ.next {
		n++
	}
	return n
}
