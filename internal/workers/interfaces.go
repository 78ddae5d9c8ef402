// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running and stopping multiple workers in a unified way.
package workers

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Implementations are expected to return quickly from Run and do their work
// in goroutines they spawn internally.
type Worker interface {
	Run()
}

// StoppableWorker is a Worker that supports graceful shutdown. Stop must
// block until in-flight work is drained.
type StoppableWorker interface {
	Worker
	Stop()
}
