package sim

import "fmt"

// Listener is implemented by every event primitive: Once, Repeated, AllOf,
// and AnyOf. Listen awaits according to the implementation's semantics and
// returns the event's payload. All event futures are single-await: polling
// (listening) before firing parks the caller; polling after firing
// completes immediately with the stored payload (Once) or the applicable
// semantics for the other kinds.
type Listener[T any] interface {
	Listen(tc *TaskCtx) T
}

// Once is a one-shot event carrying a payload of type T. It fires at most
// once; a second Notify call fails. Listeners that arrive after firing
// complete immediately with the stored payload.
type Once[T any] struct {
	fired     bool
	val       T
	listeners []Waker
}

// NewOnce creates an unfired Once event.
func NewOnce[T any]() *Once[T] { return &Once[T]{} }

// Notify fires the event with payload v, waking every current listener.
// Returns an error if the event has already fired.
func (o *Once[T]) Notify(v T) error {
	if o.fired {
		return fmt.Errorf("once event already triggered")
	}
	o.fired = true
	o.val = v
	listeners := o.listeners
	o.listeners = nil
	for _, w := range listeners {
		w.Wake()
	}
	return nil
}

// Listen awaits this Once's payload, returning immediately if it has
// already fired.
func (o *Once[T]) Listen(tc *TaskCtx) T {
	if o.fired {
		return o.val
	}
	tc.Suspend(func(w Waker) {
		o.listeners = append(o.listeners, w)
	})
	return o.val
}

// Repeated is an edge-triggered broadcast event. Each Listen call awaits
// the next NotifyResult after the Listen was observed — not any past
// notification.
type Repeated[T any] struct {
	val       T
	listeners []Waker
}

// NewRepeated creates a Repeated event with no listeners yet registered.
func NewRepeated[T any]() *Repeated[T] { return &Repeated[T]{} }

// NotifyResult stores v and wakes every listener registered before this
// call.
func (r *Repeated[T]) NotifyResult(v T) {
	r.val = v
	listeners := r.listeners
	r.listeners = nil
	for _, w := range listeners {
		w.Wake()
	}
}

// Listen awaits the next NotifyResult call.
func (r *Repeated[T]) Listen(tc *TaskCtx) T {
	tc.Suspend(func(w Waker) {
		r.listeners = append(r.listeners, w)
	})
	return r.val
}

// AllOf is the conjunction of a fixed set of member events: it resolves
// once every member has fired. Its payload is always the zero value of T —
// member payloads are not collected. Single-use: spawns one internal
// listener task per member on its first Listen call.
type AllOf[T any] struct {
	members   []Listener[T]
	started   bool
	fired     bool
	remaining int
	waker     Waker
}

// NewAllOf creates an AllOf over members.
func NewAllOf[T any](members ...Listener[T]) *AllOf[T] {
	return &AllOf[T]{members: members}
}

// Listen awaits every member firing, returning T's zero value.
func (a *AllOf[T]) Listen(tc *TaskCtx) T {
	var zero T
	if a.fired {
		return zero
	}
	if !a.started {
		a.started = true
		a.remaining = len(a.members)
		sp := NewSpawner(tc.exec)
		for _, m := range a.members {
			m := m
			sp.Spawn(func(childTC *TaskCtx) error {
				m.Listen(childTC)
				a.remaining--
				if a.remaining == 0 {
					a.fired = true
					if w := a.waker; w != nil {
						a.waker = nil
						w.Wake()
					}
				}
				return nil
			})
		}
	}
	if a.remaining == 0 {
		return zero
	}
	tc.Suspend(func(w Waker) { a.waker = w })
	return zero
}

// AnyOf is the disjunction of a fixed set of member events: it resolves as
// soon as the first member fires, with that member's payload. The other
// members' internal listener tasks keep running to completion (they are
// not cancelled), so a member scheduled to fire later still advances
// simulated time even though AnyOf itself has already resolved.
type AnyOf[T any] struct {
	members []Listener[T]
	started bool
	fired   bool
	val     T
	waker   Waker
}

// NewAnyOf creates an AnyOf over members.
func NewAnyOf[T any](members ...Listener[T]) *AnyOf[T] {
	return &AnyOf[T]{members: members}
}

// Listen awaits the first member firing, returning its payload.
func (a *AnyOf[T]) Listen(tc *TaskCtx) T {
	if a.fired {
		return a.val
	}
	if !a.started {
		a.started = true
		sp := NewSpawner(tc.exec)
		for _, m := range a.members {
			m := m
			sp.Spawn(func(childTC *TaskCtx) error {
				v := m.Listen(childTC)
				if !a.fired {
					a.fired = true
					a.val = v
					if w := a.waker; w != nil {
						a.waker = nil
						w.Wake()
					}
				}
				return nil
			})
		}
	}
	if a.fired {
		return a.val
	}
	tc.Suspend(func(w Waker) { a.waker = w })
	return a.val
}
