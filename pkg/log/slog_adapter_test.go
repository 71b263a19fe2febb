package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/keywatch/keywatch-go/pkg/keystate"
)

func logToJSON(t *testing.T, event Event) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	if buf.Len() == 0 {
		t.Fatal("no output produced")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterLogsDeliveryEvent(t *testing.T) {
	entry := logToJSON(t, Event{
		Timestamp:  time.Now(),
		ObserverID: "obs-123",
		Category:   CategoryDelivery,
		Path:       "fido2Service.keyState",
		Delivery: &DeliveryEvent{
			Outcome:        OutcomeDelivered,
			State:          keystate.ProcessingRequest,
			ServicePresent: true,
		},
	})

	if entry["observer_id"] != "obs-123" {
		t.Errorf("observer_id: got %v, want %q", entry["observer_id"], "obs-123")
	}
	if entry["category"] != "DELIVERY" {
		t.Errorf("category: got %v, want %q", entry["category"], "DELIVERY")
	}
	if entry["state"] != "PROCESSING_REQUEST" {
		t.Errorf("state: got %v, want %q", entry["state"], "PROCESSING_REQUEST")
	}
	if entry["outcome"] != "DELIVERED" {
		t.Errorf("outcome: got %v, want %q", entry["outcome"], "DELIVERED")
	}
	if entry["level"] != "DEBUG" {
		t.Errorf("level: got %v, want DEBUG", entry["level"])
	}
}

func TestSlogAdapterLogsSubscriptionEvent(t *testing.T) {
	entry := logToJSON(t, Event{
		ObserverID:   "obs-1",
		Category:     CategorySubscription,
		Subscription: &SubscriptionEvent{Subscribed: false, Reason: ReasonClose},
	})

	if entry["subscribed"] != false {
		t.Errorf("subscribed: got %v, want false", entry["subscribed"])
	}
	if entry["reason"] != "CLOSE" {
		t.Errorf("reason: got %v, want %q", entry["reason"], "CLOSE")
	}
}

func TestSlogAdapterLogsForeignSignal(t *testing.T) {
	entry := logToJSON(t, Event{
		ObserverID: "obs-1",
		Category:   CategorySignal,
		Signal:     &SignalEvent{Token: "other", Foreign: true, Forwarded: true},
	})

	if entry["foreign"] != true {
		t.Errorf("foreign: got %v, want true", entry["foreign"])
	}
	if entry["forwarded"] != true {
		t.Errorf("forwarded: got %v, want true", entry["forwarded"])
	}
	if entry["token"] != "other" {
		t.Errorf("token: got %v, want %q", entry["token"], "other")
	}
}

func TestSlogAdapterLogsErrorAtWarn(t *testing.T) {
	entry := logToJSON(t, Event{
		ObserverID: "obs-1",
		Category:   CategoryError,
		Error:      &ErrorEventData{Message: "boom", Context: "RemoveObserver"},
	})

	if entry["level"] != "WARN" {
		t.Errorf("level: got %v, want WARN", entry["level"])
	}
	if entry["error_msg"] != "boom" {
		t.Errorf("error_msg: got %v, want %q", entry["error_msg"], "boom")
	}
	if entry["error_context"] != "RemoveObserver" {
		t.Errorf("error_context: got %v", entry["error_context"])
	}
}
