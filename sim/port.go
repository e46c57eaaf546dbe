package sim

import "fmt"

// Identifiable is implemented by port payloads that carry their own Id, so
// that Port transfers can be traced keyed by the transferred object's Id.
// Payloads that do not implement it are traced with the zero Id.
type Identifiable interface {
	ObjectID() Id
}

func objectID(v any) Id {
	if ident, ok := v.(Identifiable); ok {
		return ident.ObjectID()
	}
	return Id(0)
}

// PortState is the single-slot buffer shared by exactly one OutPort and
// exactly one InPort. At most one waiting-get and one waiting-put Waker
// exist at any time.
type PortState[T any] struct {
	slot     *T
	getWaker Waker
	putWaker Waker
}

// NewPortState creates an empty PortState.
func NewPortState[T any]() *PortState[T] { return &PortState[T]{} }

// OutPort is the producer-side endpoint of a port.
type OutPort[T any] struct {
	entity *Entity
	name   string
	target *PortState[T]
}

// NewOutPort creates an unconnected OutPort named name, owned by entity
// for tracing purposes.
func NewOutPort[T any](entity *Entity, name string) *OutPort[T] {
	return &OutPort[T]{entity: entity, name: name}
}

// FullName returns "<entity>::<port name>" for diagnostics.
func (p *OutPort[T]) FullName() string { return p.entity.FullName() + "::" + p.name }

// Connect binds this OutPort to in's shared state. Fails if already
// connected.
func (p *OutPort[T]) Connect(in *InPort[T]) error {
	if p.target != nil {
		return fmt.Errorf("%s already connected", p.FullName())
	}
	p.target = in.state
	p.entity.Tracker().Connect(p.entity.ID(), in.entity.ID(), p.name)
	return nil
}

// Put transfers v to the connected InPort. It blocks until a consumer has
// taken the value. Fails if the port is not connected.
func (p *OutPort[T]) Put(tc *TaskCtx, v T) error {
	st := p.target
	if st == nil {
		return fmt.Errorf("%s not connected", p.FullName())
	}
	objID := objectID(v)
	p.entity.Tracker().Enter(p.entity.ID(), objID, p.name)

	for st.slot != nil {
		tc.Suspend(func(w Waker) { st.putWaker = w })
	}
	st.slot = &v
	if st.getWaker != nil {
		w := st.getWaker
		st.getWaker = nil
		w.Wake()
	}
	// Park until the consumer drains the slot.
	tc.Suspend(func(w Waker) { st.putWaker = w })

	p.entity.Tracker().Exit(p.entity.ID(), objID, p.name)
	return nil
}

// PutIfReady is used by components (Delay) that must not silently buffer:
// it succeeds only if a consumer is already parked waiting on Get, putting
// v and blocking until drained exactly as Put would. If no consumer is
// currently waiting, it returns (false, nil) immediately without placing
// v, so the caller can treat "nobody is listening" as a hard failure
// instead of stalling indefinitely.
func (p *OutPort[T]) PutIfReady(tc *TaskCtx, v T) (bool, error) {
	st := p.target
	if st == nil {
		return false, fmt.Errorf("%s not connected", p.FullName())
	}
	if st.slot != nil || st.getWaker == nil {
		return false, nil
	}
	return true, p.Put(tc, v)
}

// TryPut is a non-blocking "is anyone listening" probe: it completes
// immediately, without parking, if a consumer is already waiting on Get.
// Otherwise it parks as a waiting put, exactly as Put would, and completes
// the instant a consumer arrives. Either way it never places a value in the
// slot, so a real Put (or StartGet/Put) is still needed to transfer data.
func (p *OutPort[T]) TryPut(tc *TaskCtx) error {
	st := p.target
	if st == nil {
		return fmt.Errorf("%s not connected", p.FullName())
	}
	if st.getWaker != nil {
		return nil
	}
	tc.Suspend(func(w Waker) { st.putWaker = w })
	return nil
}

// InPort is the consumer-side endpoint of a port.
type InPort[T any] struct {
	entity *Entity
	name   string
	state  *PortState[T]
}

// NewInPort creates an InPort named name, owned by entity, with its own
// fresh PortState ready for an upstream OutPort to connect to.
func NewInPort[T any](entity *Entity, name string) *InPort[T] {
	return &InPort[T]{entity: entity, name: name, state: NewPortState[T]()}
}

// FullName returns "<entity>::<port name>" for diagnostics.
func (p *InPort[T]) FullName() string { return p.entity.FullName() + "::" + p.name }

// Get takes the next value, blocking until one is available.
func (p *InPort[T]) Get(tc *TaskCtx) (T, error) {
	st := p.state
	for st.slot == nil {
		if st.putWaker != nil {
			w := st.putWaker
			st.putWaker = nil
			w.Wake()
		}
		tc.Suspend(func(w Waker) { st.getWaker = w })
	}
	v := *st.slot
	st.slot = nil
	if st.putWaker != nil {
		w := st.putWaker
		st.putWaker = nil
		w.Wake()
	}
	return v, nil
}

// StartGet is like Get but does not wake the producer's Put: the value is
// taken and returned immediately, but the producer remains parked until
// FinishGet is called. Used by components (e.g. RateLimiter) that need to
// observe a value and impose an additional delay before releasing the
// producer.
func (p *InPort[T]) StartGet(tc *TaskCtx) (T, error) {
	st := p.state
	for st.slot == nil {
		if st.putWaker != nil {
			w := st.putWaker
			st.putWaker = nil
			w.Wake()
		}
		tc.Suspend(func(w Waker) { st.getWaker = w })
	}
	v := *st.slot
	st.slot = nil
	return v, nil
}

// FinishGet releases a producer parked by the Put that StartGet observed.
func (p *InPort[T]) FinishGet() {
	st := p.state
	if st.putWaker != nil {
		w := st.putWaker
		st.putWaker = nil
		w.Wake()
	}
}
