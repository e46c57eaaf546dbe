package sim

import "math"

// SimTime owns the set of Clocks and the current virtual time in
// nanoseconds. current_ns is monotonically non-decreasing across a run.
type SimTime struct {
	clocks     []*Clock
	currentNs  float64
	tracker    Tracker
	timeEntity Id
}

// NewSimTime creates a SimTime that reports time trace events through
// tracker, attributed to timeEntity (typically the engine's root entity).
func NewSimTime(tracker Tracker, timeEntity Id) *SimTime {
	return &SimTime{tracker: tracker, timeEntity: timeEntity}
}

// CurrentNs returns the simulation's current virtual time.
func (s *SimTime) CurrentNs() float64 { return s.currentNs }

// GetClock returns the existing Clock at freqMHz, or creates one. Clocks
// compare equal by frequency.
func (s *SimTime) GetClock(freqMHz float64) *Clock {
	for _, c := range s.clocks {
		if c.freqMHz == freqMHz {
			return c
		}
	}
	c := newClock(freqMHz, s)
	s.clocks = append(s.clocks, c)
	return c
}

// AdvanceTime selects the earliest scheduled wake across all clocks,
// advances current_ns to that instant (emitting a time trace event only if
// it actually changes), and returns the wakers at that instant.
//
// It returns nil when the simulation has reached quiescence: no clock has
// any essential (non-canExit) waiter left anywhere, even if non-essential
// waiters remain scheduled (those are abandoned). While at least one
// essential waiter exists anywhere, AdvanceTime always advances to the
// globally earliest scheduled tick — including ticks belonging to
// non-essential waiters — so non-essential waits still fire in correct
// chronological order whenever the simulation has other reasons to keep
// running.
func (s *SimTime) AdvanceTime() []Waker {
	hasEssential := false
	var best *Clock
	var bestTick int64
	bestNs := math.Inf(1)

	for _, c := range s.clocks {
		tick, ok := c.earliestTick()
		if !ok {
			continue
		}
		if c.hasEssential() {
			hasEssential = true
		}
		ns := c.ns(tick)
		if ns < bestNs || (ns == bestNs && (best == nil || c.freqMHz < best.freqMHz)) {
			bestNs = ns
			best = c
			bestTick = tick
		}
	}

	if !hasEssential {
		return nil
	}

	wakers := best.popAtTick(bestTick)
	newNs := best.ns(bestTick)
	if newNs != s.currentNs {
		s.currentNs = newNs
		if s.tracker != nil {
			s.tracker.Time(newNs)
		}
	}
	return wakers
}
