package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/keywatch/keywatch-go/pkg/keystate"
	"github.com/keywatch/keywatch-go/pkg/log"
)

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	path := createTestLogFile(t, lifecycleEvents(ts))

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Total Events: 4") {
		t.Errorf("expected 4 events, got: %s", output)
	}
	for _, want := range []string{"SUBSCRIPTION:", "SIGNAL:", "DELIVERY:", "DELIVERED:", "TOUCH_KEY:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
	if strings.Contains(output, "Errors:") {
		t.Errorf("no errors expected: %s", output)
	}
	if strings.Contains(output, "Still subscribed") {
		t.Errorf("observer was closed: %s", output)
	}
}

func TestStatsPerObserver(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	s := newStats()
	for _, e := range lifecycleEvents(ts)[:3] {
		s.add(e)
	}
	s.add(log.Event{
		Timestamp:  ts.Add(time.Second),
		ObserverID: testObserver,
		Category:   log.CategoryDelivery,
		Delivery: &log.DeliveryEvent{
			Outcome: log.OutcomeDelivered,
			State:   keystate.Idle,
			Latency: 750 * time.Microsecond,
		},
	})
	s.add(log.Event{
		Timestamp:  ts.Add(2 * time.Second),
		ObserverID: testObserver,
		Category:   log.CategorySignal,
		Signal:     &log.SignalEvent{Token: "foreign", Foreign: true},
	})
	s.add(log.Event{
		Timestamp:  ts.Add(3 * time.Second),
		ObserverID: testObserver,
		Category:   log.CategoryDelivery,
		Delivery:   &log.DeliveryEvent{Outcome: log.OutcomeDroppedDelegate},
	})

	obs := s.Observers[testObserver]
	if obs == nil {
		t.Fatal("expected observer stats")
	}
	if obs.Delivered != 2 || obs.Dropped != 1 {
		t.Errorf("delivered/dropped = %d/%d, want 2/1", obs.Delivered, obs.Dropped)
	}
	if obs.Signals != 1 || obs.Foreign != 1 {
		t.Errorf("signals/foreign = %d/%d, want 1/1", obs.Signals, obs.Foreign)
	}
	if !obs.Subscribed {
		t.Error("expected observer to be subscribed")
	}
	if obs.MaxLatency != 750*time.Microsecond {
		t.Errorf("MaxLatency = %s", obs.MaxLatency)
	}
	if obs.MeanLatency() != 500*time.Microsecond {
		t.Errorf("MeanLatency = %s", obs.MeanLatency())
	}
	if s.Outcomes[log.OutcomeDroppedDelegate] != 1 {
		t.Errorf("expected 1 dropped-delegate outcome, got %d", s.Outcomes[log.OutcomeDroppedDelegate])
	}
	if s.States[keystate.Idle] != 1 || s.States[keystate.TouchKey] != 1 {
		t.Errorf("unexpected state counts: %v", s.States)
	}

	var buf bytes.Buffer
	printStats(&buf, s)
	output := buf.String()
	if !strings.Contains(output, "[3f2b9c1a] 6 events") {
		t.Errorf("expected observer line, got: %s", output)
	}
	if !strings.Contains(output, "Still subscribed") {
		t.Errorf("expected subscribed marker, got: %s", output)
	}
}

func TestStatsCountsErrors(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	path := createTestLogFile(t, []log.Event{
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "boom"}},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "boom"}},
	})

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Errors: 2") {
		t.Errorf("expected 2 errors, got: %s", buf.String())
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Total Events: 0") {
		t.Errorf("expected 0 events, got: %s", output)
	}
	if strings.Contains(output, "Time Range") {
		t.Errorf("empty log must not print a time range: %s", output)
	}
}
