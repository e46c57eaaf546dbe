package sim

import "fmt"

// delayItem pairs a value with the tick it is due to leave the Delay.
type delayItem[T any] struct {
	val     T
	dueTick int64
}

// Delay forwards rx to tx with a configured tick latency D. It is not a
// buffer: downstream must already be parked waiting for the value at the
// due tick, or the emit loop fails with "Delay output stalled".
type Delay[T any] struct {
	entity *Entity
	rx     *InPort[T]
	tx     *OutPort[T]
	clock  *Clock
	ticks  int64

	q          []delayItem[T]
	fillWaiter Waker
}

// NewDelay creates a Delay with latency ticks (>= 0) ticks on clock.
func NewDelay[T any](parent *Entity, name string, clock *Clock, ticks int64) (*Delay[T], error) {
	if ticks < 0 {
		return nil, fmt.Errorf("Delay requires ticks >= 0")
	}
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	return &Delay[T]{
		entity: e,
		rx:     NewInPort[T](e, "rx"),
		tx:     NewOutPort[T](e, "tx"),
		clock:  clock,
		ticks:  ticks,
	}, nil
}

// Rx returns the Delay's input port.
func (d *Delay[T]) Rx() *InPort[T] { return d.rx }

// Tx returns the Delay's output port.
func (d *Delay[T]) Tx() *OutPort[T] { return d.tx }

// Run implements Component: it spawns an intake loop that tags each value
// with its due tick, and runs the emit loop itself.
func (d *Delay[T]) Run(tc *TaskCtx) error {
	sp := NewSpawner(tc.exec)
	sp.Spawn(func(ctc *TaskCtx) error { return d.runIntake(ctc) })
	return d.runEmit(tc)
}

func (d *Delay[T]) runIntake(tc *TaskCtx) error {
	for {
		v, err := d.rx.Get(tc)
		if err != nil {
			return err
		}
		d.q = append(d.q, delayItem[T]{val: v, dueTick: d.clock.TickNow() + d.ticks})
		if d.fillWaiter != nil {
			w := d.fillWaiter
			d.fillWaiter = nil
			w.Wake()
		}
	}
}

func (d *Delay[T]) runEmit(tc *TaskCtx) error {
	for {
		for len(d.q) == 0 {
			tc.Suspend(func(w Waker) { d.fillWaiter = w })
		}
		item := d.q[0]
		d.q = d.q[1:]

		n := item.dueTick - d.clock.TickNow()
		if n < 0 {
			n = 0
		}
		d.clock.WaitTicks(tc, n)

		ready, err := d.tx.PutIfReady(tc, item.val)
		if err != nil {
			return err
		}
		if !ready {
			return fmt.Errorf("Delay output stalled")
		}
	}
}
