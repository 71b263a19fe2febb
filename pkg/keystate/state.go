// Package keystate defines the FIDO2 key state reported by a key session.
//
// The state describes what the authenticator's FIDO2 sub-service is doing
// right now. It carries no protocol meaning for this module; observers
// forward it as-is.
package keystate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownState is returned when parsing an unrecognized state name.
var ErrUnknownState = errors.New("unknown key state")

// State is the FIDO2 key state.
type State uint8

const (
	// Idle means the key is not performing any FIDO2 operation.
	Idle State = iota

	// ProcessingRequest means the key is executing a FIDO2 request.
	ProcessingRequest

	// TouchKey means the user must touch the key to prove presence
	// before the current operation can continue.
	TouchKey
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case ProcessingRequest:
		return "PROCESSING_REQUEST"
	case TouchKey:
		return "TOUCH_KEY"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the defined states.
func (s State) Valid() bool {
	return s <= TouchKey
}

// Parse parses a state name. It accepts the String form as well as the
// short aliases idle, busy and touch, case-insensitively.
func Parse(name string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "idle":
		return Idle, nil
	case "processing_request", "processing-request", "processing", "busy":
		return ProcessingRequest, nil
	case "touch_key", "touch-key", "touch":
		return TouchKey, nil
	default:
		return Idle, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
