package sim

import "fmt"

// Route decides which of a Router's output ports a value should take.
type Route[T any] interface {
	RouteFor(v T) (idx int, err error)
}

// RouteFunc adapts a plain function to the Route interface.
type RouteFunc[T any] func(v T) (int, error)

// RouteFor implements Route.
func (f RouteFunc[T]) RouteFor(v T) (int, error) { return f(v) }

// Router forwards each value arriving on rx to exactly one of numOutputs tx
// ports, chosen per-value by a Route.
type Router[T any] struct {
	entity *Entity
	rx     *InPort[T]
	tx     []*OutPort[T]
	route  Route[T]
}

// NewRouter creates a Router with numOutputs outputs named tx0..tx(n-1),
// dispatching with route.
func NewRouter[T any](parent *Entity, name string, numOutputs int, route Route[T]) (*Router[T], error) {
	if numOutputs < 1 {
		return nil, fmt.Errorf("Router requires numOutputs >= 1")
	}
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	r := &Router[T]{entity: e, rx: NewInPort[T](e, "rx"), route: route}
	for i := 0; i < numOutputs; i++ {
		r.tx = append(r.tx, NewOutPort[T](e, fmt.Sprintf("tx%d", i)))
	}
	return r, nil
}

// Rx returns the Router's input port.
func (r *Router[T]) Rx() *InPort[T] { return r.rx }

// Tx returns the i'th output port.
func (r *Router[T]) Tx(i int) *OutPort[T] { return r.tx[i] }

// Run implements Component.
func (r *Router[T]) Run(tc *TaskCtx) error {
	for {
		v, err := r.rx.Get(tc)
		if err != nil {
			return err
		}
		idx, err := r.route.RouteFor(v)
		if err != nil {
			return fmt.Errorf("router: %w", err)
		}
		if idx < 0 || idx >= len(r.tx) {
			return fmt.Errorf("router: route index %d out of range [0,%d)", idx, len(r.tx))
		}
		if err := r.tx[idx].Put(tc, v); err != nil {
			return err
		}
	}
}
