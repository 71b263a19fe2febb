// Package sim drives a simulated key session and a set of observers for
// the keywatch-sim command.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keywatch/keywatch-go/pkg/keysession"
	"github.com/keywatch/keywatch-go/pkg/keystate"
	"github.com/keywatch/keywatch-go/pkg/log"
	"github.com/keywatch/keywatch-go/pkg/observer"
)

// Simulator errors.
var (
	ErrNoSuchObserver = errors.New("no such observer")
	ErrReleased       = errors.New("observer delegate already released")
)

// Config holds simulator configuration.
type Config struct {
	// Observers is the number of observers created by New.
	Observers int

	// QueueSize is the delivery queue size of each observer.
	QueueSize int

	// PollInterval, if positive, makes observers watch the session through
	// a keysession.Poller instead of its own notifications.
	PollInterval time.Duration

	// Output receives one line per delivered key state.
	Output io.Writer

	Logger      *slog.Logger
	EventLogger log.Logger
}

// DefaultConfig returns the default simulator configuration.
func DefaultConfig() Config {
	return Config{
		Observers: 1,
		QueueSize: observer.DefaultQueueSize,
		Output:    os.Stdout,
	}
}

// ObserverStatus is a snapshot of one simulated observer.
type ObserverStatus struct {
	ID         int
	Token      keysession.Token
	Subscribed bool
	// Registered is the session's view of the subscription.
	Registered bool
	Closed     bool
	Released   bool
	Received   uint64
	Last       keystate.State
	Stats      observer.Stats
}

// watcher is the delegate of one simulated observer.
type watcher struct {
	id       int
	out      *syncWriter
	received atomic.Uint64
	last     atomic.Uint32
}

func (w *watcher) KeyStateChanged(b *observer.Bridge, state keystate.State) {
	w.received.Add(1)
	w.last.Store(uint32(state))
	w.out.printf("[obs %d %s] key state: %s\n", w.id, b.Token().String()[:8], state)
}

// slot pairs an observer with its delegate. The simulator holds the
// delegate strongly until it is released.
type slot struct {
	id       int
	bridge   *observer.Bridge
	delegate *watcher
	released bool
}

// syncWriter serializes writes from several delivery queues.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

func (s *syncWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

// Simulator owns an in-memory key session and the observers watching it.
type Simulator struct {
	config  Config
	session *keysession.Memory
	poller  *keysession.Poller
	out     *syncWriter

	mu    sync.Mutex
	slots []*slot
}

// New creates a simulator with config.Observers subscribed observers.
func New(config Config) (*Simulator, error) {
	if config.Output == nil {
		config.Output = io.Discard
	}

	s := &Simulator{
		config:  config,
		session: keysession.NewMemory(),
		out:     &syncWriter{w: config.Output},
	}
	s.session.SetLogger(config.Logger)

	if config.PollInterval > 0 {
		s.poller = keysession.NewPollerWithConfig(s.session, keysession.PollerConfig{
			Interval: config.PollInterval,
			Logger:   config.Logger,
		})
	}

	for range config.Observers {
		if _, err := s.AddObserver(); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// observed returns the session observers subscribe to.
func (s *Simulator) observed() keysession.Session {
	if s.poller != nil {
		return s.poller
	}
	return s.session
}

// Start starts polling if a poll interval is configured.
func (s *Simulator) Start(ctx context.Context) error {
	if s.poller == nil {
		return nil
	}
	return s.poller.Start(ctx)
}

// SetOutput replaces the writer deliveries are printed to.
func (s *Simulator) SetOutput(w io.Writer) {
	s.out.set(w)
}

// Session returns the simulated key session.
func (s *Simulator) Session() *keysession.Memory {
	return s.session
}

// Polling reports whether observers watch the session through a poller.
func (s *Simulator) Polling() bool {
	return s.poller != nil
}

// AddObserver creates a new subscribed observer and returns its ID.
func (s *Simulator) AddObserver() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := len(s.slots)
	w := &watcher{id: id, out: s.out}

	cfg := observer.DefaultConfig()
	cfg.QueueSize = s.config.QueueSize
	cfg.Logger = s.config.Logger
	cfg.EventLogger = s.config.EventLogger

	b, err := observer.NewWithConfig(s.observed(), w, cfg)
	if err != nil {
		return 0, fmt.Errorf("observer %d: %w", id, err)
	}

	s.slots = append(s.slots, &slot{id: id, bridge: b, delegate: w})
	return id, nil
}

func (s *Simulator) slot(id int) (*slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.slots) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchObserver, id)
	}
	return s.slots[id], nil
}

// SetKeyState changes the key state of the session.
func (s *Simulator) SetKeyState(state keystate.State) {
	s.session.SetKeyState(state)
}

// Detach removes the FIDO2 sub-service from the session.
func (s *Simulator) Detach() {
	s.session.DetachFIDO2()
}

// Attach restores the FIDO2 sub-service.
func (s *Simulator) Attach() {
	s.session.AttachFIDO2()
}

// SetSubscribed toggles the subscription of observer id.
func (s *Simulator) SetSubscribed(id int, subscribed bool) error {
	sl, err := s.slot(id)
	if err != nil {
		return err
	}
	return sl.bridge.SetSubscribed(subscribed)
}

// CloseObserver closes observer id.
func (s *Simulator) CloseObserver(id int) error {
	sl, err := s.slot(id)
	if err != nil {
		return err
	}
	return sl.bridge.Close()
}

// Release drops the simulator's reference to the delegate of observer id
// and runs the garbage collector, so later deliveries to it are dropped.
// The observer itself stays subscribed.
func (s *Simulator) Release(id int) error {
	s.mu.Lock()
	if id < 0 || id >= len(s.slots) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNoSuchObserver, id)
	}
	sl := s.slots[id]
	if sl.released {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrReleased, id)
	}
	sl.delegate = nil
	sl.released = true
	s.mu.Unlock()

	runtime.GC()
	return nil
}

// Status returns a snapshot of every observer.
func (s *Simulator) Status() []ObserverStatus {
	type entry struct {
		id       int
		bridge   *observer.Bridge
		delegate *watcher
		released bool
	}

	s.mu.Lock()
	entries := make([]entry, 0, len(s.slots))
	for _, sl := range s.slots {
		entries = append(entries, entry{id: sl.id, bridge: sl.bridge, delegate: sl.delegate, released: sl.released})
	}
	s.mu.Unlock()

	out := make([]ObserverStatus, 0, len(entries))
	for _, e := range entries {
		st := ObserverStatus{
			ID:         e.id,
			Token:      e.bridge.Token(),
			Subscribed: e.bridge.Subscribed(),
			Registered: s.observing(e.bridge.Token()),
			Closed:     e.bridge.Closed(),
			Released:   e.released,
			Stats:      e.bridge.Stats(),
		}
		if e.delegate != nil {
			st.Received = e.delegate.received.Load()
			st.Last = keystate.State(e.delegate.last.Load())
		}
		out = append(out, st)
	}
	return out
}

// observing asks the observed session whether token is registered.
func (s *Simulator) observing(token keysession.Token) bool {
	if s.poller != nil {
		return s.poller.Observing(token, keysession.PathFIDO2KeyState)
	}
	return s.session.Observing(token, keysession.PathFIDO2KeyState)
}

// Settle waits until every signal received by an observer has been
// delivered or dropped, or until timeout. It reports whether all settled.
func (s *Simulator) Settle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if s.settled() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (s *Simulator) settled() bool {
	for _, st := range s.Status() {
		done := st.Stats.Delivered + st.Stats.DroppedClosed + st.Stats.DroppedDelegate
		if done < st.Stats.Signals {
			return false
		}
	}
	return true
}

// Close closes every observer and stops polling.
func (s *Simulator) Close() {
	s.mu.Lock()
	slots := s.slots
	s.mu.Unlock()

	for _, sl := range slots {
		if err := sl.bridge.Close(); err != nil && s.config.Logger != nil {
			s.config.Logger.Warn("close observer", "id", sl.id, "error", err)
		}
	}
	if s.poller != nil {
		s.poller.Stop()
	}
	if n := s.session.Close(); n > 0 && s.config.Logger != nil {
		s.config.Logger.Warn("registrations left at close", "count", n)
	}
}
