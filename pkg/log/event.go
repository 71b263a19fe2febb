package log

import (
	"time"

	"github.com/keywatch/keywatch-go/pkg/keystate"
)

// Event represents an observer event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ObserverID is the token of the observer that produced the event.
	ObserverID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Path is the observed attribute path.
	Path string `cbor:"4,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Subscription *SubscriptionEvent `cbor:"10,keyasint,omitempty"`
	Signal       *SignalEvent       `cbor:"11,keyasint,omitempty"`
	Delivery     *DeliveryEvent     `cbor:"12,keyasint,omitempty"`
	Error        *ErrorEventData    `cbor:"13,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategorySubscription indicates a subscription toggle.
	CategorySubscription Category = 0
	// CategorySignal indicates a change signal from the session.
	CategorySignal Category = 1
	// CategoryDelivery indicates a delivery outcome.
	CategoryDelivery Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySubscription:
		return "SUBSCRIPTION"
	case CategorySignal:
		return "SIGNAL"
	case CategoryDelivery:
		return "DELIVERY"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SubscriptionEvent captures a change of the subscription flag.
type SubscriptionEvent struct {
	// Subscribed is the new value of the flag.
	Subscribed bool `cbor:"1,keyasint"`

	// Reason names the entry point that changed it.
	Reason Reason `cbor:"2,keyasint"`
}

// Reason names what caused a subscription toggle.
type Reason uint8

const (
	// ReasonConstruct is the initial subscription of a new observer.
	ReasonConstruct Reason = 0
	// ReasonExplicit is a direct SetSubscribed call.
	ReasonExplicit Reason = 1
	// ReasonClose is an explicit Close.
	ReasonClose Reason = 2
	// ReasonCleanup is the cleanup of an observer that was garbage collected.
	ReasonCleanup Reason = 3
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonConstruct:
		return "CONSTRUCT"
	case ReasonExplicit:
		return "EXPLICIT"
	case ReasonClose:
		return "CLOSE"
	case ReasonCleanup:
		return "CLEANUP"
	default:
		return "UNKNOWN"
	}
}

// SignalEvent captures a change signal received from the session.
type SignalEvent struct {
	// Token carried by the signal.
	Token string `cbor:"1,keyasint"`

	// Foreign indicates the token was not the observer's own.
	Foreign bool `cbor:"2,keyasint,omitempty"`

	// Forwarded indicates a foreign signal was passed to a fallback observer.
	Forwarded bool `cbor:"3,keyasint,omitempty"`
}

// DeliveryEvent captures the outcome of one scheduled notification.
type DeliveryEvent struct {
	// Outcome of the delivery.
	Outcome Outcome `cbor:"1,keyasint"`

	// State read at dispatch time (only for delivered notifications).
	State keystate.State `cbor:"2,keyasint"`

	// ServicePresent indicates the FIDO2 sub-service was available when
	// the state was read. When false, State is the default state.
	ServicePresent bool `cbor:"3,keyasint,omitempty"`

	// Latency between the signal and the delivery. Stored as nanoseconds.
	Latency time.Duration `cbor:"4,keyasint,omitempty"`
}

// Outcome is the result of a scheduled notification.
type Outcome uint8

const (
	// OutcomeDelivered means the delegate was called.
	OutcomeDelivered Outcome = 0
	// OutcomeDroppedClosed means the observer was closed before dispatch.
	OutcomeDroppedClosed Outcome = 1
	// OutcomeDroppedDelegate means the delegate was no longer reachable.
	OutcomeDroppedDelegate Outcome = 2
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "DELIVERED"
	case OutcomeDroppedClosed:
		return "DROPPED_CLOSED"
	case OutcomeDroppedDelegate:
		return "DROPPED_DELEGATE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
