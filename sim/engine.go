package sim

import "fmt"

// Component is the contract every block in a network satisfies: a run()
// coroutine the Engine spawns exactly once, plus whatever port_* /
// connect_port_* methods the concrete type exposes (those are
// type-specific and not part of this interface).
type Component interface {
	Run(tc *TaskCtx) error
}

// Registry is the per-Engine list of components awaiting their run()
// spawn. register appends; SpawnAll drains the list and spawns each
// component's run() exactly once, then clears it.
type Registry struct {
	components []Component
}

// Register appends c to the registry. Must be called before Engine.Run.
func (r *Registry) Register(c Component) {
	r.components = append(r.components, c)
}

// SpawnAll spawns every registered component's Run() via sp, then clears
// the registry.
func (r *Registry) SpawnAll(sp Spawner) {
	for _, c := range r.components {
		c := c
		sp.Spawn(func(tc *TaskCtx) error {
			return c.Run(tc)
		})
	}
	r.components = nil
}

// Engine is the top-level orchestrator: it owns the root Entity, the
// Executor (and through it, SimTime), the Spawner, and the Registry.
type Engine struct {
	Root     *Entity
	tracker  Tracker
	simTime  *SimTime
	exec     *Executor
	spawner  Spawner
	registry Registry
}

// NewEngine creates an Engine reporting to tracker, with a root Entity
// named "top".
func NewEngine(tracker Tracker) (*Engine, error) {
	root, err := NewEntity(nil, "top", tracker, nil)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	st := NewSimTime(tracker, root.ID())
	exec := NewExecutor(st)
	return &Engine{
		Root:    root,
		tracker: tracker,
		simTime: st,
		exec:    exec,
		spawner: NewSpawner(exec),
	}, nil
}

// Register stores c in the engine's Registry. Must be called before Run.
func (e *Engine) Register(c Component) {
	e.registry.Register(c)
}

// Spawner returns the engine's Spawner, for components that need to launch
// internal helper tasks outside of their own Run().
func (e *Engine) Spawner() Spawner { return e.spawner }

// ClockMHz returns (creating if necessary) the Clock at the given
// frequency in MHz.
func (e *Engine) ClockMHz(freqMHz float64) *Clock {
	return e.simTime.GetClock(freqMHz)
}

// ClockGHz returns (creating if necessary) the Clock at the given
// frequency in GHz.
func (e *Engine) ClockGHz(freqGHz float64) *Clock {
	return e.simTime.GetClock(freqGHz * 1000)
}

// DefaultClock returns the engine's 1 GHz clock.
func (e *Engine) DefaultClock() *Clock {
	return e.ClockGHz(1)
}

// TimeNowNs returns the simulation's current virtual time in nanoseconds.
func (e *Engine) TimeNowNs() float64 { return e.simTime.CurrentNs() }

// Run spawns all registered components' Run() and then runs the executor
// to quiescence (or until a component errors). Tracker.Shutdown is always
// invoked on return, even on error, to flush buffered output.
func (e *Engine) Run() error {
	e.registry.SpawnAll(e.spawner)
	runErr := e.exec.Run()
	if shutErr := e.tracker.Shutdown(); shutErr != nil && runErr == nil {
		return fmt.Errorf("tracker shutdown: %w", shutErr)
	}
	return runErr
}

// RunUntil spawns all registered components' Run(), plus a one-shot
// listener on event that sets the executor's finished flag, then runs the
// executor. The executor stops after the poll pass in which event fires.
func (e *Engine) RunUntil(event Listener[struct{}]) error {
	e.spawner.Spawn(func(tc *TaskCtx) error {
		event.Listen(tc)
		e.exec.Finish()
		return nil
	})
	return e.Run()
}
