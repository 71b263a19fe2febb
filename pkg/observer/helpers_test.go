package observer_test

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keywatch/keywatch-go/pkg/dispatch"
	"github.com/keywatch/keywatch-go/pkg/keystate"
	"github.com/keywatch/keywatch-go/pkg/log"
	"github.com/keywatch/keywatch-go/pkg/observer"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// delivery is one recorded delegate call.
type delivery struct {
	bridge  *observer.Bridge
	state   keystate.State
	onQueue bool
}

// recordingDelegate records every call it receives.
type recordingDelegate struct {
	mu    sync.Mutex
	calls []delivery

	// queue, if set, is checked for being the calling context.
	queue *dispatch.Queue

	// onCall, if set, runs after the call is recorded.
	onCall func(b *observer.Bridge, state keystate.State)
}

func (d *recordingDelegate) KeyStateChanged(b *observer.Bridge, state keystate.State) {
	call := delivery{bridge: b, state: state}
	if d.queue != nil {
		call.onQueue = d.queue.Running()
	}

	d.mu.Lock()
	d.calls = append(d.calls, call)
	onCall := d.onCall
	d.mu.Unlock()

	if onCall != nil {
		onCall(b, state)
	}
}

func (d *recordingDelegate) deliveries() []delivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]delivery(nil), d.calls...)
}

func (d *recordingDelegate) states() []keystate.State {
	var states []keystate.State
	for _, c := range d.deliveries() {
		states = append(states, c.state)
	}
	return states
}

// countingDelegate only counts calls. Tests drop every reference to it
// so that it can be collected.
type countingDelegate struct {
	calls *atomic.Int32
}

func (d *countingDelegate) KeyStateChanged(*observer.Bridge, keystate.State) {
	d.calls.Add(1)
}

func newCountingDelegate(calls *atomic.Int32) *countingDelegate {
	return &countingDelegate{calls: calls}
}

// manualExecutor holds dispatched tasks until RunAll.
type manualExecutor struct {
	mu    sync.Mutex
	tasks []func()
}

func (e *manualExecutor) Dispatch(task func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = append(e.tasks, task)
}

func (e *manualExecutor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

func (e *manualExecutor) RunAll() int {
	e.mu.Lock()
	tasks := e.tasks
	e.tasks = nil
	e.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

// eventRecorder is a log.Logger keeping events in memory.
type eventRecorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *eventRecorder) Log(event log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) Events() []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Event(nil), r.events...)
}

func (r *eventRecorder) Categories() []log.Category {
	var out []log.Category
	for _, e := range r.Events() {
		out = append(out, e.Category)
	}
	return out
}

// recordedSpan is a span started by recordingTracer.
type recordedSpan struct {
	name       string
	attributes []attribute.KeyValue
}

// recordingTracer records span starts and otherwise behaves as a no-op tracer.
type recordingTracer struct {
	noop.Tracer

	mu    sync.Mutex
	spans []recordedSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)

	r.mu.Lock()
	r.spans = append(r.spans, recordedSpan{name: name, attributes: cfg.Attributes()})
	r.mu.Unlock()

	return r.Tracer.Start(ctx, name, opts...)
}

func (r *recordingTracer) Spans() []recordedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedSpan(nil), r.spans...)
}

// inlineConfig returns a config that delivers on the signalling goroutine.
func inlineConfig() observer.Config {
	cfg := observer.DefaultConfig()
	cfg.Executor = dispatch.Inline{}
	return cfg
}

// collectUntil runs the garbage collector until cond holds.
func collectUntil(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		runtime.GC()
		return cond()
	}, 2*time.Second, 10*time.Millisecond)
}

// recoverError calls f and returns the error it panicked with.
func recoverError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}
