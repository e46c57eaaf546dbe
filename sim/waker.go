package sim

// Waker is the handle a parked task hands to whatever primitive it is
// suspended on (a Clock's waiter heap, a PortState slot, a Resource's FIFO
// queue, an Event's listener list). Calling Wake reinserts the owning task
// into the Executor's new-tasks queue, making it runnable again on the next
// poll pass.
type Waker interface {
	Wake()
}

// taskWaker is the only implementation of Waker; every suspension point
// constructs one bound to the task that is parking.
type taskWaker struct {
	exec   *Executor
	handle *taskHandle
}

func (w *taskWaker) Wake() {
	w.exec.enqueueNewTask(w.handle)
}
