// Package commands implements the keywatch-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/keywatch/keywatch-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	ObserverID string
	Category   *log.Category
	Outcome    *log.Outcome
}

// toLogFilter converts the view filter to a reader filter.
func (f ViewFilter) toLogFilter() log.Filter {
	return log.Filter{
		ObserverID: f.ObserverID,
		Category:   f.Category,
		Outcome:    f.Outcome,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [obs:id] CATEGORY path
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	obsID := shortenID(event.ObserverID)

	path := event.Path
	if path == "" {
		path = "-"
	}

	fmt.Fprintf(w, "%s [obs:%s] %-12s %s\n", ts, obsID, event.Category.String(), path)

	switch {
	case event.Subscription != nil:
		formatSubscriptionDetails(w, event.Subscription)
	case event.Signal != nil:
		formatSignalDetails(w, event.Signal)
	case event.Delivery != nil:
		formatDeliveryDetails(w, event.Delivery)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of an observer or signal token.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatSubscriptionDetails(w io.Writer, sub *log.SubscriptionEvent) {
	if sub.Subscribed {
		fmt.Fprintln(w, "  -> subscribed")
	} else {
		fmt.Fprintln(w, "  -> unsubscribed")
	}
	fmt.Fprintf(w, "  Reason: %s\n", sub.Reason.String())
}

func formatSignalDetails(w io.Writer, sig *log.SignalEvent) {
	if !sig.Foreign {
		fmt.Fprintln(w, "  Token: own")
		return
	}
	fmt.Fprintf(w, "  Token: %s (foreign)\n", shortenID(sig.Token))
	if sig.Forwarded {
		fmt.Fprintln(w, "  Forwarded to fallback")
	}
}

func formatDeliveryDetails(w io.Writer, d *log.DeliveryEvent) {
	fmt.Fprintf(w, "  Outcome: %s\n", d.Outcome.String())
	if d.Outcome == log.OutcomeDelivered {
		if d.ServicePresent {
			fmt.Fprintf(w, "  State: %s\n", d.State.String())
		} else {
			fmt.Fprintf(w, "  State: %s (service absent)\n", d.State.String())
		}
	}
	if d.Latency > 0 {
		fmt.Fprintf(w, "  Latency: %s\n", formatDuration(d.Latency))
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "subscription":
		return log.CategorySubscription, nil
	case "signal":
		return log.CategorySignal, nil
	case "delivery":
		return log.CategoryDelivery, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be subscription, signal, delivery, or error)", s)
	}
}

// ParseOutcomeFlag parses a delivery outcome from command-line flag (case-insensitive).
func ParseOutcomeFlag(s string) (log.Outcome, error) {
	return parseOutcome(s)
}

func parseOutcome(s string) (log.Outcome, error) {
	switch strings.ToLower(s) {
	case "delivered":
		return log.OutcomeDelivered, nil
	case "dropped-closed", "closed":
		return log.OutcomeDroppedClosed, nil
	case "dropped-delegate", "delegate":
		return log.OutcomeDroppedDelegate, nil
	default:
		return 0, fmt.Errorf("invalid outcome: %s (must be delivered, dropped-closed, or dropped-delegate)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.toLogFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
