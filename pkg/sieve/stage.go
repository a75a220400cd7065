package sieve

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ib-77/sieve3/pkg/sieve/stream"
)

// slot is the lazily-established output side of a producer: the stream
// to the successor and the successor stage itself. Either both are set
// or neither is; only the owning producer ever touches it.
type slot struct {
	out  *stream.Stream[int]
	next *Stage
}

func (sl *slot) established() bool {
	return sl.next != nil
}

// A Stage is the concurrent unit dedicated to exactly one prime. It
// reads candidates from its input stream, drops multiples of its prime
// and forwards everything else to a successor stage it founds on demand.
type Stage struct {
	id    uuid.UUID
	prime int
	in    *stream.Stream[int]
	succ  slot

	done chan struct{}
	err  error // valid once done is closed

	pl *pipeline
}

func newStage(pl *pipeline, prime int, in *stream.Stream[int]) *Stage {
	return &Stage{
		id:    uuid.New(),
		prime: prime,
		in:    in,
		done:  make(chan struct{}),
		pl:    pl,
	}
}

// Prime returns the value this stage was founded on.
func (s *Stage) Prime() int {
	return s.prime
}

func (s *Stage) Id() uuid.UUID {
	return s.id
}

// deliver hands v to the stage behind sl, founding that stage first if
// the slot is still empty.
//
// An unestablished slot means v survived every filter before it, so v is
// the next prime: a fresh stream and a goroutine are created together
// and v becomes the new stage's permanent prime. An established slot
// means v is an ordinary candidate for the successor's filter. Creation
// failure of either resource is fatal for the whole pipeline: a stage
// that missed its founding value has no way to recover it later.
func (pl *pipeline) deliver(ctx context.Context, v int, sl *slot) error {
	if sl.established() {
		if err := sl.out.Send(v); err != nil {
			return fmt.Errorf("sieve: sending %d to stage for %d: %w", v, sl.next.prime, err)
		}
		return nil
	}

	in, err := pl.newStream(pl.buffer)
	if err != nil {
		return fmt.Errorf("sieve: creating stream for %d: %w", v, err)
	}

	st := newStage(pl, v, in)
	if err := pl.spawn(func() { st.run(ctx) }); err != nil {
		in.CloseWrite()
		in.CloseRead()
		return fmt.Errorf("sieve: starting stage for %d: %w", v, err)
	}

	sl.out = in
	sl.next = st
	return nil
}

// run is the stage body. It announces the founding prime, filters until
// end-of-stream, then drains: read end closed, successor (if any) given
// end-of-stream and joined. The join at every level is what lets the
// driver's single wait cover the whole chain.
func (s *Stage) run(ctx context.Context) {
	defer close(s.done)

	s.pl.announce(s.prime)
	s.pl.log.WithFields(logrus.Fields{"stage": s.id, "prime": s.prime}).Debug("stage founded")

	for {
		if err := ctx.Err(); err != nil {
			s.err = err
			break
		}
		v, ok := s.in.Recv()
		if !ok {
			break
		}
		if v%s.prime == 0 {
			continue
		}
		if err := s.pl.deliver(ctx, v, &s.succ); err != nil {
			s.err = err
			break
		}
	}

	s.in.CloseRead()
	if s.succ.established() {
		s.succ.out.CloseWrite()
		s.err = resolveErr(s.err, s.succ.next.wait())
	}

	s.pl.log.WithFields(logrus.Fields{"stage": s.id, "prime": s.prime}).Debug("stage drained")
}

// wait blocks until the stage goroutine has fully exited and reports
// how it ended.
func (s *Stage) wait() error {
	<-s.done
	return s.err
}

// resolveErr picks the error to report when a producer and its
// successor both failed. A send that died with ErrReadClosed is only
// the echo of the successor's own failure, so the successor's error
// wins in that case.
func resolveErr(mine, succ error) error {
	if succ == nil {
		return mine
	}
	if mine == nil || errors.Is(mine, stream.ErrReadClosed) {
		return succ
	}
	return mine
}
