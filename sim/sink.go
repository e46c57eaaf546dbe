package sim

// Sink counts every value arriving at rx; it never blocks the upstream
// producer beyond the ordinary port rendezvous and never terminates on its
// own — it is simply abandoned at quiescence once nothing else feeds it.
type Sink[T any] struct {
	entity *Entity
	rx     *InPort[T]
	count  int
}

// NewSink creates a Sink named name under parent.
func NewSink[T any](parent *Entity, name string) (*Sink[T], error) {
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	return &Sink[T]{entity: e, rx: NewInPort[T](e, "rx")}, nil
}

// Rx returns the Sink's input port.
func (s *Sink[T]) Rx() *InPort[T] { return s.rx }

// NumSunk returns the number of values received so far.
func (s *Sink[T]) NumSunk() int { return s.count }

// Run implements Component.
func (s *Sink[T]) Run(tc *TaskCtx) error {
	for {
		if _, err := s.rx.Get(tc); err != nil {
			return err
		}
		s.count++
	}
}
