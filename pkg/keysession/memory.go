package keysession

import (
	"log/slog"
	"sync"

	"github.com/keywatch/keywatch-go/pkg/keystate"
)

// Memory is an in-memory key session. Its FIDO2 key state is set directly
// and observers are signalled synchronously on the goroutine that made the
// change, after the session lock has been released.
//
// The zero value is not usable; create sessions with NewMemory.
type Memory struct {
	mu sync.RWMutex

	service  *memoryService
	attached bool

	registry *Registry
	logger   *slog.Logger
}

// memoryService is the FIDO2 sub-service of a Memory session.
type memoryService struct {
	mu    sync.RWMutex
	state keystate.State
}

// KeyState returns the current key state.
func (s *memoryService) KeyState() keystate.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// NewMemory creates a session with the FIDO2 sub-service attached and idle.
func NewMemory() *Memory {
	return &Memory{
		service:  &memoryService{state: keystate.Idle},
		attached: true,
		registry: NewRegistry(),
	}
}

// SetLogger sets the logger for this session.
func (m *Memory) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// FIDO2Service returns the FIDO2 sub-service, or nil while it is detached.
func (m *Memory) FIDO2Service() FIDO2Service {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.attached {
		return nil
	}
	return m.service
}

// AddObserver registers obs for path under token.
func (m *Memory) AddObserver(obs Observer, token Token, path Path) error {
	if err := m.registry.Add(obs, token, path); err != nil {
		return err
	}
	if logger := m.getLogger(); logger != nil {
		logger.Debug("AddObserver", "token", token, "path", path)
	}
	return nil
}

// RemoveObserver removes the registration for (token, path).
func (m *Memory) RemoveObserver(token Token, path Path) error {
	if err := m.registry.Remove(token, path); err != nil {
		return err
	}
	if logger := m.getLogger(); logger != nil {
		logger.Debug("RemoveObserver", "token", token, "path", path)
	}
	return nil
}

// SetKeyState sets the key state and signals PathFIDO2KeyState observers.
// The state is recorded even while the sub-service is detached; observers
// are signalled either way, as a key-value observer of a nested path is.
func (m *Memory) SetKeyState(state keystate.State) {
	m.service.mu.Lock()
	m.service.state = state
	m.service.mu.Unlock()

	if logger := m.getLogger(); logger != nil {
		logger.Debug("SetKeyState", "state", state)
	}
	m.registry.Signal(PathFIDO2KeyState)
}

// AttachFIDO2 makes the FIDO2 sub-service available and signals observers
// of both the service and its key state.
func (m *Memory) AttachFIDO2() {
	m.setAttached(true)
}

// DetachFIDO2 makes the FIDO2 sub-service unavailable and signals observers
// of both the service and its key state.
func (m *Memory) DetachFIDO2() {
	m.setAttached(false)
}

func (m *Memory) setAttached(attached bool) {
	m.mu.Lock()
	if m.attached == attached {
		m.mu.Unlock()
		return
	}
	m.attached = attached
	logger := m.logger
	m.mu.Unlock()

	if logger != nil {
		logger.Debug("FIDO2 service presence changed", "attached", attached)
	}
	m.registry.Signal(PathFIDO2Service)
	m.registry.Signal(PathFIDO2KeyState)
}

// Signal delivers a change signal for (token, path) to the observer
// registered under it, whether or not anything changed. It reports
// whether an observer was registered.
func (m *Memory) Signal(token Token, path Path) bool {
	return m.registry.SignalTo(token, path)
}

// Observing reports whether an observer is registered under (token, path).
func (m *Memory) Observing(token Token, path Path) bool {
	return m.registry.Has(token, path)
}

// Close drops every registration still held, as when the key is removed
// for good, and returns how many were dropped. The session stays usable.
func (m *Memory) Close() int {
	n := m.registry.Clear()
	if logger := m.getLogger(); logger != nil && n > 0 {
		logger.Debug("dropped registrations", "count", n)
	}
	return n
}

// ObserverCount returns the number of active registrations.
func (m *Memory) ObserverCount() int {
	return m.registry.Count()
}

// Registrations returns how many AddObserver and RemoveObserver calls
// succeeded over the lifetime of the session.
func (m *Memory) Registrations() (added, removed uint64) {
	return m.registry.Totals()
}

func (m *Memory) getLogger() *slog.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger
}

// Compile-time interface satisfaction check.
var _ Session = (*Memory)(nil)
