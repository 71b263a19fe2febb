package keysession

import (
	"fmt"
	"sync"
)

// registration is one (token, path) entry in a Registry.
type registration struct {
	token    Token
	path     Path
	observer Observer
}

// registrationKey is the composite key of the registration table.
type registrationKey struct {
	token Token
	path  Path
}

// Registry is the observer table of a session. It is safe for concurrent use.
//
// Observers are always called outside the registry lock, so an observer
// may add or remove registrations from within ObserveChange.
type Registry struct {
	mu sync.RWMutex

	// Registrations by (token, path)
	registrations map[registrationKey]*registration

	// Index by path for signal fan-out, in registration order
	pathIndex map[Path][]*registration

	// Lifetime counters
	added   uint64
	removed uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		registrations: make(map[registrationKey]*registration),
		pathIndex:     make(map[Path][]*registration),
	}
}

// Add registers obs for path under token.
func (r *Registry) Add(obs Observer, token Token, path Path) error {
	if obs == nil {
		return ErrNilObserver
	}
	if !path.Supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedPath, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := registrationKey{token: token, path: path}
	if _, exists := r.registrations[key]; exists {
		return fmt.Errorf("%w: %s %s", ErrAlreadyObserved, token, path)
	}

	reg := &registration{token: token, path: path, observer: obs}
	r.registrations[key] = reg
	r.pathIndex[path] = append(r.pathIndex[path], reg)
	r.added++

	return nil
}

// Remove removes the registration for (token, path).
func (r *Registry) Remove(token Token, path Path) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registrationKey{token: token, path: path}
	reg, exists := r.registrations[key]
	if !exists {
		return fmt.Errorf("%w: %s %s", ErrObserverNotFound, token, path)
	}
	delete(r.registrations, key)

	// Copy on remove so snapshots taken by Signal stay valid
	regs := r.pathIndex[path]
	kept := make([]*registration, 0, len(regs))
	for _, other := range regs {
		if other != reg {
			kept = append(kept, other)
		}
	}
	if len(kept) == 0 {
		delete(r.pathIndex, path)
	} else {
		r.pathIndex[path] = kept
	}
	r.removed++

	return nil
}

// Signal notifies every observer registered for path, in registration order.
// It returns the number of observers signalled.
func (r *Registry) Signal(path Path) int {
	r.mu.RLock()
	regs := r.pathIndex[path]
	r.mu.RUnlock()

	for _, reg := range regs {
		reg.observer.ObserveChange(reg.token, reg.path)
	}
	return len(regs)
}

// SignalTo notifies the observer registered under (token, path), if any.
// It returns whether an observer was signalled.
func (r *Registry) SignalTo(token Token, path Path) bool {
	r.mu.RLock()
	reg, exists := r.registrations[registrationKey{token: token, path: path}]
	r.mu.RUnlock()

	if !exists {
		return false
	}
	reg.observer.ObserveChange(reg.token, reg.path)
	return true
}

// Has reports whether a registration exists for (token, path).
func (r *Registry) Has(token Token, path Path) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.registrations[registrationKey{token: token, path: path}]
	return exists
}

// Count returns the number of active registrations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registrations)
}

// Totals returns how many registrations were added and removed over the
// lifetime of the registry.
func (r *Registry) Totals() (added, removed uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.added, r.removed
}

// Clear removes all registrations (e.g., when the key is disconnected for
// good) and returns how many there were.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.registrations)
	r.removed += uint64(n)
	r.registrations = make(map[registrationKey]*registration)
	r.pathIndex = make(map[Path][]*registration)
	return n
}
