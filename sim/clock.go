package sim

import "container/heap"

// wakeRecord is one scheduled wake on a Clock: fire at tick, invoke waker,
// with seq breaking ties in enrollment order and canExit marking the wait
// as non-essential (the simulation may terminate while it is still
// parked).
//
// The heap ordering (by tick, then seq) keeps wakes deterministic: ties at
// the same tick resolve in the order the waits were enrolled.
type wakeRecord struct {
	tick    int64
	seq     uint64
	waker   Waker
	canExit bool
}

type wakeHeap []wakeRecord

func (h wakeHeap) Len() int { return len(h) }
func (h wakeHeap) Less(i, j int) bool {
	if h[i].tick != h[j].tick {
		return h[i].tick < h[j].tick
	}
	return h[i].seq < h[j].seq
}
func (h wakeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *wakeHeap) Push(x any)   { *h = append(*h, x.(wakeRecord)) }
func (h *wakeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Clock is a frequency (in MHz) plus an ordered multiset of scheduled wake
// records. SimTime owns one Clock per distinct frequency requested through
// GetClock.
type Clock struct {
	freqMHz float64
	waiters wakeHeap
	simTime *SimTime
	nextSeq uint64
}

func newClock(freqMHz float64, simTime *SimTime) *Clock {
	c := &Clock{freqMHz: freqMHz, simTime: simTime}
	heap.Init(&c.waiters)
	return c
}

// FreqMHz returns the clock's frequency.
func (c *Clock) FreqMHz() float64 { return c.freqMHz }

// ns converts a tick count to nanoseconds at this clock's frequency.
func (c *Clock) ns(tick int64) float64 {
	return float64(tick) * 1000 / c.freqMHz
}

// TickNow returns the current tick of this clock, derived from SimTime's
// current_ns. Ticks on different clocks need not line up exactly, so this
// is the nearest tick to the current instant.
func (c *Clock) TickNow() int64 {
	return int64(roundHalfAwayFromZero(c.simTime.currentNs * c.freqMHz / 1000))
}

// TimeNowNs returns the simulation's current time in nanoseconds.
func (c *Clock) TimeNowNs() float64 { return c.simTime.currentNs }

func roundHalfAwayFromZero(x float64) float64 {
	if x >= 0 {
		return float64(int64(x + 0.5))
	}
	return float64(int64(x - 0.5))
}

// WaitTicks parks the calling task until current_tick + n on this clock.
// The wait is essential: it prevents quiescence until it fires.
func (c *Clock) WaitTicks(tc *TaskCtx, n int64) {
	c.wait(tc, n, false)
}

// WaitTicksOrExit is WaitTicks but marks the wait as non-essential: the
// task may be abandoned if the simulation would otherwise be quiescent.
func (c *Clock) WaitTicksOrExit(tc *TaskCtx, n int64) {
	c.wait(tc, n, true)
}

func (c *Clock) wait(tc *TaskCtx, n int64, canExit bool) {
	tick := c.TickNow() + n
	tc.Suspend(func(w Waker) {
		c.nextSeq++
		heap.Push(&c.waiters, wakeRecord{tick: tick, seq: c.nextSeq, waker: w, canExit: canExit})
	})
}

// earliestTick reports the smallest scheduled tick among ALL waiters
// (essential or not), without removing it.
func (c *Clock) earliestTick() (int64, bool) {
	if len(c.waiters) == 0 {
		return 0, false
	}
	return c.waiters[0].tick, true
}

// hasEssential reports whether any non-canExit waiter remains scheduled.
func (c *Clock) hasEssential() bool {
	for _, r := range c.waiters {
		if !r.canExit {
			return true
		}
	}
	return false
}

// popAtTick removes and returns every waiter scheduled at exactly tick
// (both essential and non-essential), in enrollment order.
func (c *Clock) popAtTick(tick int64) []Waker {
	var out []Waker
	for len(c.waiters) > 0 && c.waiters[0].tick == tick {
		r := heap.Pop(&c.waiters).(wakeRecord)
		out = append(out, r.waker)
	}
	return out
}
