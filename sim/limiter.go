package sim

import "fmt"

// Sized is implemented by payloads that have a definite size in bytes, so a
// RateLimiter can compute how many ticks are needed to "drain" them.
type Sized interface {
	TotalBytes() int64
}

// Bytes is a convenience Sized wrapper for plain byte-count payloads, handy
// in tests and simple pipelines that do not otherwise carry a richer type.
type Bytes int64

// TotalBytes implements Sized.
func (b Bytes) TotalBytes() int64 { return int64(b) }

// RateLimiter converts a byte count into a tick duration at a configured
// bits-per-tick rate, measured against a single clock.
type RateLimiter struct {
	clock       *Clock
	bitsPerTick float64
}

// NewRateLimiter creates a RateLimiter at bitsPerTick (> 0) bits per tick of
// clock.
func NewRateLimiter(clock *Clock, bitsPerTick float64) (*RateLimiter, error) {
	if bitsPerTick <= 0 {
		return nil, fmt.Errorf("RateLimiter requires bitsPerTick > 0")
	}
	return &RateLimiter{clock: clock, bitsPerTick: bitsPerTick}, nil
}

// ticksFor returns the number of ticks needed to transmit totalBytes at this
// limiter's rate, rounded up.
func (r *RateLimiter) ticksFor(totalBytes int64) int64 {
	bits := float64(totalBytes) * 8
	n := bits / r.bitsPerTick
	ticks := int64(n)
	if float64(ticks) < n {
		ticks++
	}
	return ticks
}

// Limiter forwards rx to tx, then holds the upstream producer parked (via
// StartGet/FinishGet) for as many ticks as the value's size demands at the
// configured rate, modeling a shared link that cannot accept the next item
// until the current one has finished transmitting. Before pulling from rx
// it probes tx with TryPut, so a producer is never drained to sit idle
// behind a link nobody downstream is reading yet.
type Limiter[T Sized] struct {
	entity *Entity
	rx     *InPort[T]
	tx     *OutPort[T]
	rate   *RateLimiter
}

// NewLimiter creates a Limiter named name under parent, draining at rate.
func NewLimiter[T Sized](parent *Entity, name string, rate *RateLimiter) (*Limiter[T], error) {
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	return &Limiter[T]{
		entity: e,
		rx:     NewInPort[T](e, "rx"),
		tx:     NewOutPort[T](e, "tx"),
		rate:   rate,
	}, nil
}

// Rx returns the Limiter's input port.
func (l *Limiter[T]) Rx() *InPort[T] { return l.rx }

// Tx returns the Limiter's output port.
func (l *Limiter[T]) Tx() *OutPort[T] { return l.tx }

// Run implements Component.
func (l *Limiter[T]) Run(tc *TaskCtx) error {
	for {
		if err := l.tx.TryPut(tc); err != nil {
			return err
		}
		v, err := l.rx.StartGet(tc)
		if err != nil {
			return err
		}
		n := l.rate.ticksFor(v.TotalBytes())
		if err := l.tx.Put(tc, v); err != nil {
			return err
		}
		l.rate.clock.WaitTicks(tc, n)
		l.rx.FinishGet()
	}
}
