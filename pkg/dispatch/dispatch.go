// Package dispatch provides execution contexts for callback delivery.
//
// An Executor decides where a task runs. Queue runs tasks one at a time,
// in dispatch order, on a single goroutine it owns; it is the default
// delivery context for observers. Inline runs a task on the goroutine that
// dispatches it.
package dispatch

// Executor runs tasks.
type Executor interface {
	// Dispatch schedules task to run. It must not run task more than once.
	Dispatch(task func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(task func())

// Dispatch calls f(task).
func (f ExecutorFunc) Dispatch(task func()) {
	f(task)
}

// Inline runs tasks synchronously on the dispatching goroutine.
// Inline is safe for concurrent use and usable as a zero value.
type Inline struct{}

// Dispatch runs task immediately.
func (Inline) Dispatch(task func()) {
	task()
}

// Compile-time interface satisfaction checks.
var (
	_ Executor = Inline{}
	_ Executor = ExecutorFunc(nil)
)
