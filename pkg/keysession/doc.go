// Package keysession defines the contract of an external hardware key
// session as seen by state observers, and provides two implementations of
// its change-notification mechanism.
//
// # Contract
//
// A Session exposes its FIDO2 sub-service (which may be absent while no key
// is connected) and lets observers register for changes of one attribute
// path. Every registration is keyed by a Token so that independent observers
// of the same session never receive or remove each other's registrations.
// When the observed attribute changes, the session calls
// Observer.ObserveChange with the token and path the observer registered
// with, on whatever goroutine detected the change.
//
// # Implementations
//
//   - Memory is a callback-driven session whose state is set directly.
//     Observers are signalled synchronously on the goroutine calling
//     SetKeyState, AttachFIDO2 or DetachFIDO2.
//   - Poller wraps a Source that only exposes readable state and turns it
//     into a Session by polling it.
//
// Both share a Registry, the table of (token, path) registrations.
package keysession
