package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/keywatch/keywatch-go/pkg/keystate"
)

func TestDeliveryEventCBOR(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp:  ts,
		ObserverID: "abc12345-def6-7890-abcd-ef1234567890",
		Category:   CategoryDelivery,
		Path:       "fido2Service.keyState",
		Delivery: &DeliveryEvent{
			Outcome:        OutcomeDelivered,
			State:          keystate.TouchKey,
			ServicePresent: true,
			Latency:        1500 * time.Microsecond,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("Timestamp: got %v, want %v (nanosecond precision)", decoded.Timestamp, ts)
	}
	if decoded.ObserverID != original.ObserverID {
		t.Errorf("ObserverID: got %q, want %q", decoded.ObserverID, original.ObserverID)
	}
	if decoded.Path != original.Path {
		t.Errorf("Path: got %q, want %q", decoded.Path, original.Path)
	}
	if decoded.Delivery == nil {
		t.Fatal("Delivery is nil")
	}
	if *decoded.Delivery != *original.Delivery {
		t.Errorf("Delivery: got %+v, want %+v", *decoded.Delivery, *original.Delivery)
	}
	if decoded.Subscription != nil || decoded.Signal != nil || decoded.Error != nil {
		t.Error("unset payloads should decode as nil")
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	event := Event{
		Timestamp:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		ObserverID:   "obs",
		Category:     CategorySubscription,
		Subscription: &SubscriptionEvent{Subscribed: true, Reason: ReasonConstruct},
	}

	a, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	b, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same event encoded to different bytes")
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error decoding invalid CBOR")
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	for i, cat := range []Category{CategorySignal, CategoryDelivery, CategoryError} {
		if err := enc.Encode(Event{ObserverID: "obs", Category: cat, Path: string(rune('a' + i))}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for _, want := range []Category{CategorySignal, CategoryDelivery, CategoryError} {
		var event Event
		if err := dec.Decode(&event); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if event.Category != want {
			t.Errorf("Category = %v, want %v", event.Category, want)
		}
	}
}
