package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes observer events to an slog.Logger.
// Useful for development when you want to see events in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level. Error events are
// written at Warn level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("observer_id", event.ObserverID),
		slog.String("category", event.Category.String()),
	}
	if event.Path != "" {
		attrs = append(attrs, slog.String("path", event.Path))
	}

	level := slog.LevelDebug

	switch {
	case event.Subscription != nil:
		attrs = append(attrs,
			slog.Bool("subscribed", event.Subscription.Subscribed),
			slog.String("reason", event.Subscription.Reason.String()),
		)
	case event.Signal != nil:
		attrs = append(attrs,
			slog.String("token", event.Signal.Token),
			slog.Bool("foreign", event.Signal.Foreign),
		)
		if event.Signal.Forwarded {
			attrs = append(attrs, slog.Bool("forwarded", true))
		}
	case event.Delivery != nil:
		attrs = append(attrs, slog.String("outcome", event.Delivery.Outcome.String()))
		if event.Delivery.Outcome == OutcomeDelivered {
			attrs = append(attrs,
				slog.String("state", event.Delivery.State.String()),
				slog.Bool("service_present", event.Delivery.ServicePresent),
			)
		}
		if event.Delivery.Latency > 0 {
			attrs = append(attrs, slog.Duration("latency", event.Delivery.Latency))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error_msg", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "observer", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
