package dispatch

import (
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the task buffer size used when none is given.
const DefaultQueueSize = 16

// Queue is a serial executor. Tasks run one at a time, in the order they
// were dispatched, on a goroutine owned by the queue.
//
// Dispatch blocks while the buffer is full. Tasks dispatched after Stop
// are dropped. A task must not Dispatch to its own queue, directly or
// through a callback that ends up here, unless the buffer is known to have
// room: with a full buffer the queue goroutine waits on itself forever.
type Queue struct {
	name string

	mu     sync.RWMutex
	closed bool
	tasks  chan func()
	done   chan struct{}

	// quit releases dispatchers blocked on a full buffer so Stop can
	// take the lock.
	quit     chan struct{}
	quitOnce sync.Once

	running  atomic.Bool
	executed atomic.Uint64
	dropped  atomic.Uint64
}

// NewQueue creates and starts a queue with a buffer of size tasks.
// A size <= 0 uses DefaultQueueSize.
func NewQueue(name string, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	q := &Queue{
		name:  name,
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
		quit:  make(chan struct{}),
	}
	go q.loop()
	return q
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

// Dispatch schedules task on the queue, blocking while the buffer is full.
func (q *Queue) Dispatch(task func()) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.dropped.Add(1)
		return
	}
	select {
	case q.tasks <- task:
	case <-q.quit:
		q.dropped.Add(1)
	}
}

// Stop stops accepting tasks. Tasks already queued still run; Stop does not
// wait for them, so it may be called from a task running on the queue.
// It is safe to call Stop multiple times.
func (q *Queue) Stop() {
	q.quitOnce.Do(func() { close(q.quit) })

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
}

// Close stops the queue and waits until the tasks already queued have run.
// Close must not be called from a task running on the queue itself.
func (q *Queue) Close() {
	q.Stop()
	<-q.done
}

// Done returns a channel that is closed once the queue has stopped and its
// last task has run.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Closed reports whether Stop or Close has been called.
func (q *Queue) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Running reports whether a task is currently executing on the queue.
// Since the queue is serial, a task can call Running to assert it was
// delivered on this queue.
func (q *Queue) Running() bool {
	return q.running.Load()
}

// Executed returns the number of tasks that have run.
func (q *Queue) Executed() uint64 {
	return q.executed.Load()
}

// Dropped returns the number of tasks dispatched after the queue stopped.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

func (q *Queue) loop() {
	defer close(q.done)

	for task := range q.tasks {
		q.running.Store(true)
		task()
		q.running.Store(false)
		q.executed.Add(1)
	}
}

// Compile-time interface satisfaction check.
var _ Executor = (*Queue)(nil)
