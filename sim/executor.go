package sim

// Executor is the single-threaded cooperative task scheduler. There is
// exactly one Executor per Engine. It owns two FIFO queues — runnable and
// newTasks — plus the SimTime it advances when nothing is runnable.
//
// No task ever runs concurrently with another: Run resumes at most one
// task's goroutine at a time and blocks until that task either completes
// or suspends again.
type Executor struct {
	simTime  *SimTime
	runnable []*taskHandle
	newTasks []*taskHandle
	finished bool
}

// NewExecutor creates an Executor bound to simTime.
func NewExecutor(simTime *SimTime) *Executor {
	return &Executor{simTime: simTime}
}

// Spawner is a cheap handle onto an Executor that only knows how to push a
// new coroutine onto the new-tasks queue. Components receive a Spawner at
// construction time and use it to launch their run() (and any internal
// helper tasks) without needing direct access to the Executor.
type Spawner struct {
	exec *Executor
}

// NewSpawner wraps exec in a Spawner.
func NewSpawner(exec *Executor) Spawner { return Spawner{exec: exec} }

// Spawn launches fn as a new coroutine. fn receives a TaskCtx it must use
// for every suspension point. The coroutine does not begin executing until
// the Executor's run loop first polls it.
func (s Spawner) Spawn(fn func(tc *TaskCtx) error) {
	h := &taskHandle{
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	tc := &TaskCtx{exec: s.exec, handle: h}
	go func() {
		<-h.resume // wait for the first poll before running any user code
		err := fn(tc)
		h.completed = true
		h.err = err
		h.yield <- struct{}{}
	}()
	s.exec.newTasks = append(s.exec.newTasks, h)
}

// enqueueNewTask is called by a taskWaker.Wake(); it is also how the
// Executor itself re-enqueues tasks woken by SimTime.AdvanceTime.
func (e *Executor) enqueueNewTask(h *taskHandle) {
	e.newTasks = append(e.newTasks, h)
}

// Finish sets the shared "stop after this poll pass" flag used by
// Engine.RunUntil's sentinel listener.
func (e *Executor) Finish() {
	e.finished = true
}

// poll resumes h's goroutine exactly once and waits for it to either
// suspend again or complete.
func (e *Executor) poll(h *taskHandle) {
	h.resume <- struct{}{}
	<-h.yield
}

// Run executes the cooperative scheduling loop until a task fails,
// RunUntil's sentinel fires, or the simulation reaches quiescence (no
// essential waiter remains anywhere).
func (e *Executor) Run() error {
	for {
		if e.finished {
			return nil
		}

		e.runnable = append(e.runnable[:0], e.newTasks...)
		e.newTasks = e.newTasks[:0]

		for _, h := range e.runnable {
			if h.completed {
				continue
			}
			e.poll(h)
			if h.completed && h.err != nil {
				return h.err
			}
		}

		if e.finished {
			return nil
		}

		if len(e.newTasks) == 0 {
			wakers := e.simTime.AdvanceTime()
			if wakers == nil {
				return nil
			}
			for _, w := range wakers {
				w.Wake()
			}
		}
	}
}
