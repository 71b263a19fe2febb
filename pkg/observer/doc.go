// Package observer implements a bridge between the change notifications of
// a key session and a single application delegate.
//
// A Bridge registers with a keysession.Session under its own random token,
// watches the FIDO2 key state, and calls the delegate's KeyStateChanged
// method on a chosen dispatch.Executor every time the session signals a
// change. Applications get a "subscribe once, called back on every change"
// contract regardless of how the session detects changes.
//
// # Delivery
//
// Every matching change signal schedules exactly one delivery. The state is
// read from the session when the delivery runs, not when the signal
// arrives, so a delegate never sees a stale snapshot. While the session's
// FIDO2 sub-service is absent the delivered state is keystate.Idle.
//
// Deliveries are not coalesced: three signals mean three calls, even if
// they all observe the same state.
//
// # Lifetime
//
// The bridge holds its delegate through a weak pointer and never keeps it
// alive. Deliveries scheduled for a delegate that has since been collected,
// or for a bridge that has been closed, are dropped silently.
//
// The session only references the bridge weakly as well. A bridge that is
// dropped without Close is deregistered from the session when it is
// garbage collected; Close does the same deterministically.
//
// # Signals
//
// A signal carrying another observer's token is passed to Config.Fallback,
// if set, and otherwise ignored. A signal carrying the bridge's own token
// for an attribute path it never registered is a wiring defect: the bridge
// panics with an error wrapping ErrUnrecognizedPath.
package observer
