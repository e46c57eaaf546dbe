package sim

// Source pulls items one at a time from an Iterator and puts them on its
// tx port, exiting cleanly once the iterator is exhausted.
type Source[T any] struct {
	entity *Entity
	tx     *OutPort[T]
	it     Iterator[T]
}

// NewSource creates a Source named name under parent, driven by it.
func NewSource[T any](parent *Entity, name string, it Iterator[T]) (*Source[T], error) {
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	return &Source[T]{entity: e, tx: NewOutPort[T](e, "tx"), it: it}, nil
}

// Tx returns the Source's output port.
func (s *Source[T]) Tx() *OutPort[T] { return s.tx }

// Run implements Component.
func (s *Source[T]) Run(tc *TaskCtx) error {
	for {
		v, ok := s.it.Next()
		if !ok {
			return nil
		}
		if err := s.tx.Put(tc, v); err != nil {
			return err
		}
	}
}
