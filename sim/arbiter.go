package sim

import (
	"fmt"

	"github.com/graphcore-research/gwr/sim/policy"
)

// ArbiterPolicy picks which ready input an Arbiter forwards next. It is the
// same shape as policy.ArbiterPolicy; Arbiter is defined against this local
// alias so callers supplying a policy.* type satisfy it structurally without
// importing policy themselves.
type ArbiterPolicy[T any] interface {
	Select(slots []*T) (idx int, ok bool)
}

// Arbiter merges N input ports onto a single output port, one value at a
// time, choosing among currently-ready inputs according to an ArbiterPolicy.
type Arbiter[T any] struct {
	entity *Entity
	rx     []*InPort[T]
	tx     *OutPort[T]
	pol    ArbiterPolicy[T]

	slots       []*T
	done        []Waker
	selectWaker Waker
}

// NewArbiter creates an Arbiter with numInputs inputs named rx0..rx(n-1),
// selecting with pol.
func NewArbiter[T any](parent *Entity, name string, numInputs int, pol ArbiterPolicy[T]) (*Arbiter[T], error) {
	if numInputs < 1 {
		return nil, fmt.Errorf("Arbiter requires numInputs >= 1")
	}
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	a := &Arbiter[T]{
		entity: e,
		tx:     NewOutPort[T](e, "tx"),
		pol:    pol,
		slots:  make([]*T, numInputs),
		done:   make([]Waker, numInputs),
	}
	for i := 0; i < numInputs; i++ {
		a.rx = append(a.rx, NewInPort[T](e, fmt.Sprintf("rx%d", i)))
	}
	return a, nil
}

// Rx returns the i'th input port.
func (a *Arbiter[T]) Rx(i int) *InPort[T] { return a.rx[i] }

// Tx returns the Arbiter's output port.
func (a *Arbiter[T]) Tx() *OutPort[T] { return a.tx }

// NewRoundRobinArbiter is a convenience constructor wiring policy.RoundRobin.
func NewRoundRobinArbiter[T any](parent *Entity, name string, numInputs int) (*Arbiter[T], error) {
	return NewArbiter[T](parent, name, numInputs, policy.NewRoundRobin[T]())
}

// Run implements Component: it spawns one feeder task per input and runs
// the selection loop itself.
func (a *Arbiter[T]) Run(tc *TaskCtx) error {
	sp := NewSpawner(tc.exec)
	for i := range a.rx {
		i := i
		sp.Spawn(func(ctc *TaskCtx) error { return a.runFeeder(ctc, i) })
	}
	return a.runSelect(tc)
}

func (a *Arbiter[T]) runFeeder(tc *TaskCtx, i int) error {
	for {
		v, err := a.rx[i].Get(tc)
		if err != nil {
			return err
		}
		a.slots[i] = &v
		if a.selectWaker != nil {
			w := a.selectWaker
			a.selectWaker = nil
			w.Wake()
		}
		tc.Suspend(func(w Waker) { a.done[i] = w })
	}
}

func (a *Arbiter[T]) runSelect(tc *TaskCtx) error {
	for {
		idx, ok := a.pol.Select(a.slots)
		for !ok {
			tc.Suspend(func(w Waker) { a.selectWaker = w })
			idx, ok = a.pol.Select(a.slots)
		}
		v := *a.slots[idx]
		a.slots[idx] = nil
		if a.done[idx] != nil {
			w := a.done[idx]
			a.done[idx] = nil
			w.Wake()
		}
		if err := a.tx.Put(tc, v); err != nil {
			return err
		}
	}
}
