package keysession

import (
	"errors"

	"github.com/google/uuid"
	"github.com/keywatch/keywatch-go/pkg/keystate"
)

// Key session errors.
var (
	ErrAlreadyObserved  = errors.New("observer already registered")
	ErrObserverNotFound = errors.New("observer not found")
	ErrUnsupportedPath  = errors.New("unsupported attribute path")
	ErrNilObserver      = errors.New("nil observer")
)

// Token identifies one observer registration. The zero Token is never
// issued by NewToken.
type Token uuid.UUID

// NewToken returns a new random token.
func NewToken() Token {
	return Token(uuid.New())
}

// IsZero reports whether t is the zero token.
func (t Token) IsZero() bool {
	return t == Token(uuid.Nil)
}

// String returns the canonical UUID form of the token.
func (t Token) String() string {
	return uuid.UUID(t).String()
}

// Path identifies an observable attribute of a key session.
type Path uint8

const (
	// PathUnknown is the zero Path. Sessions reject it.
	PathUnknown Path = iota

	// PathFIDO2KeyState is the key state of the FIDO2 sub-service.
	PathFIDO2KeyState

	// PathFIDO2Service is the presence of the FIDO2 sub-service itself.
	PathFIDO2Service
)

// String returns the key path of the attribute.
func (p Path) String() string {
	switch p {
	case PathFIDO2KeyState:
		return "fido2Service.keyState"
	case PathFIDO2Service:
		return "fido2Service"
	default:
		return "unknown"
	}
}

// Supported reports whether sessions in this package accept observers for p.
func (p Path) Supported() bool {
	return p == PathFIDO2KeyState || p == PathFIDO2Service
}

// FIDO2Service is the FIDO2 sub-service of a key session.
type FIDO2Service interface {
	// KeyState returns the current key state.
	KeyState() keystate.State
}

// Observer receives change signals from a Session.
type Observer interface {
	// ObserveChange is called with the token and path the observer was
	// registered with. It may be called on any goroutine.
	ObserveChange(token Token, path Path)
}

// Source exposes the readable state of a key session.
type Source interface {
	// FIDO2Service returns the FIDO2 sub-service, or nil when it is not
	// available (for example while no key is connected).
	FIDO2Service() FIDO2Service
}

// Session is a key session with a change-notification mechanism.
type Session interface {
	Source

	// AddObserver registers obs for changes of path under token.
	AddObserver(obs Observer, token Token, path Path) error

	// RemoveObserver removes the registration for (token, path).
	RemoveObserver(token Token, path Path) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(token Token, path Path)

// ObserveChange calls f(token, path).
func (f ObserverFunc) ObserveChange(token Token, path Path) {
	f(token, path)
}
