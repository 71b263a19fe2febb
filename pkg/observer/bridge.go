package observer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
	"weak"

	"github.com/keywatch/keywatch-go/pkg/dispatch"
	"github.com/keywatch/keywatch-go/pkg/keysession"
	"github.com/keywatch/keywatch-go/pkg/keystate"
	"github.com/keywatch/keywatch-go/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Observer errors.
var (
	ErrNilSession       = errors.New("nil key session")
	ErrNilDelegate      = errors.New("nil delegate")
	ErrClosed           = errors.New("observer is closed")
	ErrUnrecognizedPath = errors.New("unrecognized key path")
)

// Delegate receives key state changes from a Bridge.
type Delegate interface {
	// KeyStateChanged is called on the bridge's executor once per change
	// signal, with the state read at delivery time.
	KeyStateChanged(b *Bridge, state keystate.State)
}

// Stats holds delivery counters of a Bridge.
type Stats struct {
	// Signals is the number of change signals carrying the bridge's token.
	Signals uint64

	// Foreign is the number of signals carrying another token.
	Foreign uint64

	// Delivered is the number of delegate calls.
	Delivered uint64

	// DroppedClosed is the number of signals or deliveries dropped because
	// the bridge was closed.
	DroppedClosed uint64

	// DroppedDelegate is the number of deliveries dropped because the
	// delegate was no longer reachable.
	DroppedDelegate uint64
}

// Bridge observes the FIDO2 key state of a key session and forwards every
// change to one delegate. It is safe for concurrent use.
type Bridge struct {
	token    keysession.Token
	session  keysession.Session
	delegate func() Delegate
	reg      *registration
	cleanup  runtime.Cleanup
	self     weak.Pointer[Bridge]

	executor dispatch.Executor
	fallback keysession.Observer
	logger   *slog.Logger
	events   log.Logger
	tracer   trace.Tracer

	closed atomic.Bool

	signals         atomic.Uint64
	foreign         atomic.Uint64
	delivered       atomic.Uint64
	droppedClosed   atomic.Uint64
	droppedDelegate atomic.Uint64
}

// weakObserver is what a Bridge registers with its session, so that the
// session's observer table does not keep the Bridge alive.
type weakObserver struct {
	bridge weak.Pointer[Bridge]
}

func (w weakObserver) ObserveChange(token keysession.Token, path keysession.Path) {
	if b := w.bridge.Value(); b != nil {
		b.ObserveChange(token, path)
	}
}

// New creates a subscribed bridge with the default configuration.
// See NewWithConfig.
func New[T any, D interface {
	*T
	Delegate
}](session keysession.Session, delegate D) (*Bridge, error) {
	return NewWithConfig[T, D](session, delegate, DefaultConfig())
}

// NewWithConfig creates a bridge delivering to delegate and subscribes it to
// session's FIDO2 key state with exactly one AddObserver call.
//
// The bridge holds delegate weakly; the caller must keep it alive for as
// long as it wants to be notified.
func NewWithConfig[T any, D interface {
	*T
	Delegate
}](session keysession.Session, delegate D, config Config) (*Bridge, error) {
	if session == nil {
		return nil, ErrNilSession
	}
	if (*T)(delegate) == nil {
		return nil, ErrNilDelegate
	}

	ref := weak.Make((*T)(delegate))
	token := keysession.NewToken()

	b := &Bridge{
		token:   token,
		session: session,
		delegate: func() Delegate {
			p := ref.Value()
			if p == nil {
				return nil
			}
			return D(p)
		},
		executor: config.Executor,
		fallback: config.Fallback,
		logger:   config.Logger,
		events:   config.EventLogger,
		tracer:   config.Tracer,
	}
	if b.tracer == nil {
		b.tracer = otel.Tracer(tracerName)
	}

	b.self = weak.Make(b)
	b.reg = &registration{
		session:  session,
		token:    token,
		observer: weakObserver{bridge: b.self},
		logger:   config.Logger,
		events:   config.EventLogger,
	}

	if b.executor == nil {
		q := dispatch.NewQueue("keywatch-"+token.String()[:8], config.QueueSize)
		b.executor = q
		b.reg.queue = q
		if b.logger != nil {
			b.logger.Debug("delivery queue started", "token", token, "queue", q.Name())
		}
	}

	if err := b.reg.set(true, log.ReasonConstruct); err != nil {
		if b.reg.queue != nil {
			b.reg.queue.Stop()
		}
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	b.cleanup = runtime.AddCleanup(b, cleanupRegistration, b.reg)

	return b, nil
}

// Token returns the token the bridge registers with.
func (b *Bridge) Token() keysession.Token {
	return b.token
}

// Subscribed reports whether the bridge is registered with its session.
func (b *Bridge) Subscribed() bool {
	return b.reg.isSubscribed()
}

// SetSubscribed registers with or deregisters from the session. Setting the
// current value does nothing. After Close, SetSubscribed(true) returns
// ErrClosed. If the session call fails the flag is unchanged.
func (b *Bridge) SetSubscribed(subscribed bool) error {
	return b.reg.set(subscribed, log.ReasonExplicit)
}

// Close deregisters the bridge and stops its own delivery queue. Deliveries
// still pending are dropped. Close may be called from the delegate and is
// safe to call multiple times.
//
// If the session fails to remove the registration, Close returns the error
// and the bridge stays subscribed but closed: deliveries are dropped, and a
// later Close, or the collection of the bridge, tries again.
func (b *Bridge) Close() error {
	if b.closed.CompareAndSwap(false, true) && b.logger != nil {
		b.logger.Debug("closing observer", "token", b.token)
	}
	if err := b.reg.close(log.ReasonClose); err != nil {
		return err
	}
	b.cleanup.Stop()
	return nil
}

// Closed reports whether Close has been called.
func (b *Bridge) Closed() bool {
	return b.closed.Load()
}

// DelegateAlive reports whether the delegate is still reachable.
func (b *Bridge) DelegateAlive() bool {
	return b.delegate() != nil
}

// CurrentState reads the session's key state. It returns keystate.Idle and
// false while the FIDO2 sub-service is absent.
func (b *Bridge) CurrentState() (keystate.State, bool) {
	svc := b.session.FIDO2Service()
	if svc == nil {
		return keystate.Idle, false
	}
	return svc.KeyState(), true
}

// Stats returns a snapshot of the delivery counters.
func (b *Bridge) Stats() Stats {
	return Stats{
		Signals:         b.signals.Load(),
		Foreign:         b.foreign.Load(),
		Delivered:       b.delivered.Load(),
		DroppedClosed:   b.droppedClosed.Load(),
		DroppedDelegate: b.droppedDelegate.Load(),
	}
}

// ObserveChange is the change callback called by the session, on any
// goroutine. It panics if token is the bridge's own and path is not the
// FIDO2 key state.
func (b *Bridge) ObserveChange(token keysession.Token, path keysession.Path) {
	if token != b.token {
		b.foreignSignal(token, path)
		return
	}

	switch path {
	case keysession.PathFIDO2KeyState:
		b.keyStateDidChange()
	default:
		panic(fmt.Errorf("%w: %s (observer %s)", ErrUnrecognizedPath, path, b.token))
	}
}

// foreignSignal handles a signal meant for another observer.
func (b *Bridge) foreignSignal(token keysession.Token, path keysession.Path) {
	b.foreign.Add(1)

	forwarded := b.fallback != nil
	if b.logger != nil {
		b.logger.Debug("ignoring foreign signal",
			"token", b.token,
			"signalToken", token,
			"path", path,
			"forwarded", forwarded)
	}
	b.logEvent(log.Event{
		Category: log.CategorySignal,
		Path:     path.String(),
		Signal: &log.SignalEvent{
			Token:     token.String(),
			Foreign:   true,
			Forwarded: forwarded,
		},
	})

	if forwarded {
		b.fallback.ObserveChange(token, path)
	}
}

// keyStateDidChange schedules one delivery for one signal.
func (b *Bridge) keyStateDidChange() {
	b.signals.Add(1)
	b.logEvent(log.Event{
		Category: log.CategorySignal,
		Path:     keysession.PathFIDO2KeyState.String(),
		Signal:   &log.SignalEvent{Token: b.token.String()},
	})

	if b.closed.Load() {
		b.drop(log.OutcomeDroppedClosed, 0)
		return
	}

	self := b.self
	signalled := time.Now()
	b.executor.Dispatch(func() {
		if b := self.Value(); b != nil {
			b.deliver(signalled)
		}
	})
}

// deliver runs on the executor.
func (b *Bridge) deliver(signalled time.Time) {
	latency := time.Since(signalled)

	if b.closed.Load() {
		b.drop(log.OutcomeDroppedClosed, latency)
		return
	}
	delegate := b.delegate()
	if delegate == nil {
		b.drop(log.OutcomeDroppedDelegate, latency)
		return
	}

	state, present := b.CurrentState()

	_, span := b.tracer.Start(context.Background(), "keywatch.notify",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("keywatch.observer", b.token.String()),
			attribute.String("keywatch.state", state.String()),
			attribute.Bool("keywatch.service_present", present),
		))
	delegate.KeyStateChanged(b, state)
	span.End()

	b.delivered.Add(1)

	if b.logger != nil {
		b.logger.Debug("key state delivered",
			"token", b.token,
			"state", state,
			"servicePresent", present,
			"latency", latency)
	}
	b.logEvent(log.Event{
		Category: log.CategoryDelivery,
		Path:     keysession.PathFIDO2KeyState.String(),
		Delivery: &log.DeliveryEvent{
			Outcome:        log.OutcomeDelivered,
			State:          state,
			ServicePresent: present,
			Latency:        latency,
		},
	})
}

// drop records a delivery that did not reach the delegate.
func (b *Bridge) drop(outcome log.Outcome, latency time.Duration) {
	switch outcome {
	case log.OutcomeDroppedClosed:
		b.droppedClosed.Add(1)
	case log.OutcomeDroppedDelegate:
		b.droppedDelegate.Add(1)
	}

	if b.logger != nil {
		b.logger.Debug("delivery dropped", "token", b.token, "outcome", outcome)
	}
	b.logEvent(log.Event{
		Category: log.CategoryDelivery,
		Path:     keysession.PathFIDO2KeyState.String(),
		Delivery: &log.DeliveryEvent{
			Outcome: outcome,
			Latency: latency,
		},
	})
}

// logEvent stamps and captures an event if an event logger is configured.
func (b *Bridge) logEvent(event log.Event) {
	if b.events == nil {
		return
	}
	event.Timestamp = time.Now()
	event.ObserverID = b.token.String()
	b.events.Log(event)
}

// Compile-time interface satisfaction check.
var _ keysession.Observer = (*Bridge)(nil)
