package sim

import "sync/atomic"

// Id is an opaque, process-wide unique identifier allocated by a Tracker.
// Equality and hashing are by value.
type Id uint64

// idAllocator hands out monotonically increasing Ids. It is safe to read
// concurrently but in practice is only ever touched from the executor
// thread; atomics are used so a Tracker can be shared across tests without
// any other synchronization.
type idAllocator struct {
	next uint64
}

// Alloc returns the next unique Id. Ids start at 1 so the zero value of Id
// can be used as a sentinel for "no entity".
func (a *idAllocator) Alloc() Id {
	return Id(atomic.AddUint64(&a.next, 1))
}
