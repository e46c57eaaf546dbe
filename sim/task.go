package sim

// SimResult is the terminal outcome of a task's run() coroutine.
type SimResult = error

// taskHandle is the Executor's view of one spawned coroutine. The
// coroutine's actual stack lives in a goroutine that is only ever runnable
// while it holds the handle's resume token; see TaskCtx.Suspend for the
// handoff protocol. Exactly one goroutine in the whole process is ever
// unblocked at a time, which is what makes the simulation logically
// single-threaded despite using real goroutines as stack storage.
type taskHandle struct {
	resume chan struct{}
	yield  chan struct{}

	started   bool
	completed bool
	err       error
}

// TaskCtx is the capability a running task uses to suspend itself. It is
// passed to every component's run() function and to the canonical
// components' internal helper tasks.
type TaskCtx struct {
	exec   *Executor
	handle *taskHandle
}

// Suspend parks the calling task. register is called synchronously (still
// on this task's goroutine, before control is handed back to the executor)
// with a Waker that, when invoked, makes this task runnable again. Suspend
// does not return until some later poll pass resumes this task.
//
// This is the sole suspension primitive; Clock.WaitTicks, Port.{Put,Get,
// StartGet,TryPut}, Resource.{Request,Release}, and Event.Listen are all
// expressed in terms of it.
func (tc *TaskCtx) Suspend(register func(Waker)) {
	register(&taskWaker{exec: tc.exec, handle: tc.handle})
	tc.handle.yield <- struct{}{}
	<-tc.handle.resume
}

// Exec returns the Executor this task is running under, for components
// that need to reach the owning SimTime (e.g. to open additional clocks).
func (tc *TaskCtx) Exec() *Executor { return tc.exec }
