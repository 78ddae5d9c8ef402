package workers

// Workers aggregates background workers and runs them as a group.
type Workers struct {
	workers []Worker
}

// NewWorkers builds an aggregate over the given workers. They are started in
// the order given and stopped in reverse.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop shuts down every worker that implements StoppableWorker, in reverse
// start order, blocking until each has drained.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		if stoppable, ok := w.workers[i].(StoppableWorker); ok {
			stoppable.Stop()
		}
	}
}
