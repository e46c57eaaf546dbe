package sim

import "fmt"

// storeQueue is a plain FIFO queue: Enqueue appends, Dequeue pops the
// front.
type storeQueue[T any] struct {
	items []T
}

func (q *storeQueue[T]) Enqueue(v T) { q.items = append(q.items, v) }

func (q *storeQueue[T]) Dequeue() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

func (q *storeQueue[T]) Len() int { return len(q.items) }

// Store is a bounded FIFO with declared capacity N >= 1. In blocking mode
// (the default) the intake side withholds rx.Get until room is available,
// so an upstream producer's Put simply stays parked; in error-on-overflow
// mode intake always drains rx immediately and fails if the queue is full.
type Store[T any] struct {
	entity          *Entity
	rx              *InPort[T]
	tx              *OutPort[T]
	capacity        int
	errorOnOverflow bool

	q          storeQueue[T]
	roomWaiter Waker
	fillWaiter Waker
}

// NewStore creates a Store with the given capacity and mode. Capacity < 1
// is a configuration error.
func NewStore[T any](parent *Entity, name string, capacity int, errorOnOverflow bool) (*Store[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("Unsupported Store with 0 capacity")
	}
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	return &Store[T]{
		entity:          e,
		rx:              NewInPort[T](e, "rx"),
		tx:              NewOutPort[T](e, "tx"),
		capacity:        capacity,
		errorOnOverflow: errorOnOverflow,
	}, nil
}

// Rx returns the Store's input port.
func (s *Store[T]) Rx() *InPort[T] { return s.rx }

// Tx returns the Store's output port.
func (s *Store[T]) Tx() *OutPort[T] { return s.tx }

// FillLevel returns the number of items currently buffered.
func (s *Store[T]) FillLevel() int { return s.q.Len() }

// Run implements Component: it spawns independent intake and drain loops
// so the Store can accept and emit concurrently.
func (s *Store[T]) Run(tc *TaskCtx) error {
	sp := NewSpawner(tc.exec)
	sp.Spawn(func(ctc *TaskCtx) error { return s.runIntake(ctc) })
	return s.runDrain(tc)
}

func (s *Store[T]) runIntake(tc *TaskCtx) error {
	for {
		if !s.errorOnOverflow {
			for s.q.Len() >= s.capacity {
				tc.Suspend(func(w Waker) { s.roomWaiter = w })
			}
		}
		v, err := s.rx.Get(tc)
		if err != nil {
			return err
		}
		if s.errorOnOverflow && s.q.Len() >= s.capacity {
			return fmt.Errorf("store overflow: capacity %d exceeded", s.capacity)
		}
		s.q.Enqueue(v)
		if s.fillWaiter != nil {
			w := s.fillWaiter
			s.fillWaiter = nil
			w.Wake()
		}
	}
}

func (s *Store[T]) runDrain(tc *TaskCtx) error {
	for {
		for s.q.Len() == 0 {
			tc.Suspend(func(w Waker) { s.fillWaiter = w })
		}
		v, _ := s.q.Dequeue()
		if s.roomWaiter != nil {
			w := s.roomWaiter
			s.roomWaiter = nil
			w.Wake()
		}
		if err := s.tx.Put(tc, v); err != nil {
			return err
		}
	}
}
