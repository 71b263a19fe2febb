package observer

import (
	"log/slog"

	"github.com/keywatch/keywatch-go/pkg/dispatch"
	"github.com/keywatch/keywatch-go/pkg/keysession"
	"github.com/keywatch/keywatch-go/pkg/log"
	"go.opentelemetry.io/otel/trace"
)

// DefaultQueueSize is the buffer size of the delivery queue a bridge
// creates when no executor is configured.
const DefaultQueueSize = dispatch.DefaultQueueSize

// tracerName is the instrumentation scope of delivery spans.
const tracerName = "github.com/keywatch/keywatch-go/pkg/observer"

// Config holds bridge configuration.
type Config struct {
	// Executor runs deliveries to the delegate. If nil, the bridge creates
	// its own serial dispatch.Queue and stops it on Close.
	//
	// The session signals on its own goroutine and the signal blocks while
	// the queue is full. A delegate must therefore not change the key state
	// synchronously (for example keysession.Memory.SetKeyState) from its
	// delivery: with a full buffer the queue would wait on itself and
	// deadlock. Hand such changes to another goroutine, or use an Executor
	// that never blocks.
	Executor dispatch.Executor

	// QueueSize is the buffer size of the bridge's own queue, that is the
	// number of deliveries that may be pending before signals block. Ignored
	// when Executor is set.
	QueueSize int

	// Fallback receives signals carrying another observer's token.
	// If nil, such signals are ignored.
	Fallback keysession.Observer

	// Logger is the operational logger. If nil, nothing is logged.
	Logger *slog.Logger

	// EventLogger captures subscription, signal and delivery events.
	// If nil, events are not captured.
	EventLogger log.Logger

	// Tracer creates one span per delivery. If nil, the tracer of the
	// global OpenTelemetry provider is used.
	Tracer trace.Tracer
}

// DefaultConfig returns the default bridge configuration: deliveries on a
// private serial queue, no fallback, no logging.
func DefaultConfig() Config {
	return Config{
		QueueSize: DefaultQueueSize,
	}
}
