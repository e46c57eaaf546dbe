// Package policy holds the selection strategies used by sim.Arbiter. It has
// no dependency on the sim package itself — an ArbiterPolicy only ever sees
// the slot vector it is asked to choose from — so sim can depend on policy
// without any import cycle.
package policy

import "fmt"

// ArbiterPolicy picks one ready input out of slots, where a nil entry means
// "no value currently waiting on that input." Select never mutates slots;
// the caller (sim.Arbiter) is responsible for clearing the chosen slot once
// it has taken the value.
type ArbiterPolicy[T any] interface {
	Select(slots []*T) (idx int, ok bool)
}

// RoundRobin cycles through inputs in order, remembering where it left off
// so every ready input eventually gets a turn.
type RoundRobin[T any] struct {
	next int
}

// NewRoundRobin creates a RoundRobin policy starting at input 0.
func NewRoundRobin[T any]() *RoundRobin[T] { return &RoundRobin[T]{} }

func (p *RoundRobin[T]) Select(slots []*T) (int, bool) {
	n := len(slots)
	for i := 0; i < n; i++ {
		idx := (p.next + i) % n
		if slots[idx] != nil {
			p.next = (idx + 1) % n
			return idx, true
		}
	}
	return 0, false
}

// Priority always favors the lowest-indexed ready input: input 0 is served
// whenever it has a value, regardless of how long higher-indexed inputs
// have been waiting.
type Priority[T any] struct{}

// NewPriority creates a Priority policy.
func NewPriority[T any]() *Priority[T] { return &Priority[T]{} }

func (p *Priority[T]) Select(slots []*T) (int, bool) {
	for i, s := range slots {
		if s != nil {
			return i, true
		}
	}
	return 0, false
}

// PriorityRoundRobin groups inputs by a configured priority level (lower
// value wins) and round-robins only among the ready inputs at the highest
// ready level, so lower-priority inputs never starve each other but can
// still be starved by sustained traffic at a higher level.
type PriorityRoundRobin[T any] struct {
	levels []int
	cursor map[int]int
}

// NewPriorityRoundRobin creates a PriorityRoundRobin with one priority level
// per input (lower value is served first).
func NewPriorityRoundRobin[T any](levels []int) *PriorityRoundRobin[T] {
	return &PriorityRoundRobin[T]{levels: levels, cursor: make(map[int]int)}
}

func (p *PriorityRoundRobin[T]) Select(slots []*T) (int, bool) {
	best, have := 0, false
	for i, s := range slots {
		if s == nil {
			continue
		}
		if !have || p.levels[i] < best {
			best, have = p.levels[i], true
		}
	}
	if !have {
		return 0, false
	}
	n := len(slots)
	start := p.cursor[best]
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if slots[idx] != nil && p.levels[idx] == best {
			p.cursor[best] = (idx + 1) % n
			return idx, true
		}
	}
	return 0, false
}

// WeightedRoundRobin grants each input up to its configured weight of
// consecutive selections (when it is the one chosen) before rotating on to
// the next ready input, falling back to plain round robin among the ready
// set once every ready input has exhausted its weight this round.
type WeightedRoundRobin[T any] struct {
	candidate int
	grants    []int
	weights   []int
}

// NewWeightedRoundRobin creates a WeightedRoundRobin with one weight (>= 1)
// per input. len(weights) must equal the arbiter's input count.
func NewWeightedRoundRobin[T any](weights []int) (*WeightedRoundRobin[T], error) {
	for i, w := range weights {
		if w < 1 {
			return nil, fmt.Errorf("weighted round robin: weight for input %d must be >= 1", i)
		}
	}
	return &WeightedRoundRobin[T]{
		grants:  make([]int, len(weights)),
		weights: append([]int(nil), weights...),
	}, nil
}

func (p *WeightedRoundRobin[T]) Select(slots []*T) (int, bool) {
	n := len(slots)
	if n != len(p.weights) {
		return 0, false
	}
	selected, have := -1, false
	for i := 0; i < n; i++ {
		idx := (i + p.candidate) % n
		if slots[idx] == nil {
			continue
		}
		if p.weights[idx] > p.grants[idx] {
			selected, have = idx, true
			break
		}
		if !have {
			selected, have = idx, true
		}
	}
	if !have {
		return 0, false
	}
	if p.weights[selected] == p.grants[selected] {
		p.grants[selected] = 0
	}
	p.grants[selected]++
	p.candidate = (selected + 1) % n
	return selected, true
}

// NewArbiterPolicy creates a policy by name. Valid names: "round-robin",
// "priority", "priority-round-robin", "weighted-round-robin". levels and
// weights are consulted only by the policies that need them.
func NewArbiterPolicy[T any](name string, levels []int, weights []int) (ArbiterPolicy[T], error) {
	switch name {
	case "round-robin":
		return NewRoundRobin[T](), nil
	case "priority":
		return NewPriority[T](), nil
	case "priority-round-robin":
		return NewPriorityRoundRobin[T](levels), nil
	case "weighted-round-robin":
		return NewWeightedRoundRobin[T](weights)
	default:
		return nil, fmt.Errorf("unknown arbiter policy %q; valid policies: [round-robin, priority, priority-round-robin, weighted-round-robin]", name)
	}
}
